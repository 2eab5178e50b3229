package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tierboard/internal/board"
	"tierboard/internal/engine"
	"tierboard/internal/hub"
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

type createBoardRequest struct {
	// Items seed the candidate pool.
	Items []engine.Item `json:"items"`
	// Preplace optionally seeds one tier with items already ranked.
	Preplace *preplaceRequest `json:"preplace,omitempty"`
}

type preplaceRequest struct {
	Tier  string        `json:"tier"`
	Items []engine.Item `json:"items"`
}

func CreateBoard(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBoardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			// An empty body is a valid request: a blank board.
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		tiers := engine.DefaultTiers()
		if req.Preplace != nil {
			placed := false
			for i := range tiers {
				if tiers[i].Label == req.Preplace.Tier {
					tiers[i].Items = req.Preplace.Items
					placed = true
				}
			}
			if !placed {
				http.Error(w, "unknown preplace tier", http.StatusBadRequest)
				return
			}
		}

		state, err := engine.NewState(tiers, req.Items)
		if err != nil {
			if errors.Is(err, engine.ErrItemConflict) || errors.Is(err, engine.ErrDuplicateTier) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "failed to seed board", http.StatusInternalServerError)
			return
		}

		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			reply := make(chan *board.Board, 1)
			h.Inbox() <- hub.GetBoard{Code: c, Reply: reply}
			if <-reply == nil {
				code = c
				break
			}
			log.Info("collision on code, regenerating", zap.String("code", c))
		}

		reply := make(chan *board.Board, 1)
		h.Inbox() <- hub.EnsureBoard{Code: code, State: state, Reply: reply}
		if <-reply == nil {
			http.Error(w, "failed to create board", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

func GetBoard(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		reply := make(chan *board.Board, 1)
		h.Inbox() <- hub.GetBoard{Code: code, Reply: reply}
		b := <-reply
		if b == nil {
			http.Error(w, "board not found", http.StatusNotFound)
			return
		}

		viewReply := make(chan board.View, 1)
		b.Inbox() <- board.GetState{Reply: viewReply}
		view := <-viewReply

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(board.Snapshot{Version: view.Version, State: view.State})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
