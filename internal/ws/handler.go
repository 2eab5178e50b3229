package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tierboard/internal/board"
	"tierboard/internal/dropzone"
	"tierboard/internal/engine"
	"tierboard/internal/hub"
	"tierboard/internal/proxy"
	"tierboard/internal/types"
)

// Drag gestures are sporadic; a drag session can sit idle while the user
// stares at the board, so the read deadline is generous.
const readTimeout = 5 * time.Minute
const writeTimeout = 3 * time.Second

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *board.Board, 1)
		h.Inbox() <- hub.GetBoard{Code: code, Reply: reply}
		b := <-reply
		if b == nil {
			http.Error(w, "board not found", http.StatusNotFound)
			return
		}

		seat := r.URL.Query().Get("seat")
		if seat == "" {
			seat = uuid.NewString()
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan board.Snapshot, 8)
		b.Inbox() <- board.Join{SeatID: seat, Outbox: out}
		defer func() { b.Inbox() <- board.Leave{SeatID: seat} }()

		sess := &session{
			conn:  conn,
			board: b,
			seat:  seat,
			ctx:   r.Context(),
			log:   log.With(zap.String("board", code), zap.String("seat", seat)),
			zones: make(map[string]*dropzone.Zone),
		}
		// An abandoned drag must not leak its render past the connection.
		defer sess.proxy.Dispose()

		// Writer goroutine: board snapshots out to the client.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				msg := types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, State: &snap.State}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop: drag intents in.
		for {
			ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise just exit (board.Leave + proxy dispose in defers).
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				sess.sendError("bad json")
				continue
			}

			sess.handle(cm)
		}
	}
}

// session is one seat's connection: it owns the per-target enter counters
// and the drag-image registry, both confined to the reader goroutine.
type session struct {
	conn  *websocket.Conn
	board *board.Board
	seat  string
	ctx   context.Context
	log   *zap.Logger
	proxy proxy.Registry
	zones map[string]*dropzone.Zone
}

func (s *session) handle(cm types.ClientMessage) {
	switch cm.Type {
	case "GrabFromPool":
		s.command(engine.Command{Type: engine.CmdGrabFromPool, SeatID: s.seat, ItemLabel: cm.ItemLabel})
		s.sendDragImage(engine.Item{Label: cm.ItemLabel, ImageSource: cm.ImageSource})

	case "GrabFromTier":
		s.command(engine.Command{Type: engine.CmdGrabFromTier, SeatID: s.seat, ItemLabel: cm.ItemLabel, TierLabel: cm.Target})
		s.sendDragImage(engine.Item{Label: cm.ItemLabel, ImageSource: cm.ImageSource})

	case "Release":
		// Drag ended with no drop (Escape or outside every target).
		s.command(engine.Command{Type: engine.CmdRelease, SeatID: s.seat})
		s.proxy.Dispose()

	case "DragEnter":
		z := s.zone(cm.Target)
		z.Enter()
		if z.Depth() == 1 {
			s.command(engine.Command{Type: engine.CmdHoverTarget, SeatID: s.seat, TierLabel: cm.Target})
		}

	case "DragLeave":
		s.zone(cm.Target).Leave()

	case "DragOver":
		s.zone(cm.Target).Over()

	case "Drop":
		s.zone(cm.Target).Drop()

	case "Reset":
		s.command(engine.Command{Type: engine.CmdReset, SeatID: s.seat})

	default:
		s.sendError("unknown type")
	}
}

// zone lazily builds the enter counter for one drop target. Its callbacks
// translate net hover changes and drops into board commands.
func (s *session) zone(target string) *dropzone.Zone {
	if z, ok := s.zones[target]; ok {
		return z
	}
	z := dropzone.New(
		func() {
			// Truly left the target. Scoped to it: the enter for the next
			// target precedes this leave, and its cue must survive.
			s.command(engine.Command{Type: engine.CmdClearHover, SeatID: s.seat, TierLabel: target})
		},
		func() { // hover tick; engine ignores repeats
			s.command(engine.Command{Type: engine.CmdHoverTarget, SeatID: s.seat, TierLabel: target})
		},
		func() {
			s.drop(target)
		},
	)
	s.zones[target] = z
	return z
}

func (s *session) drop(target string) {
	cmd := engine.Command{Type: engine.CmdDropOnPool, SeatID: s.seat}
	if target != engine.TargetPool {
		cmd = engine.Command{Type: engine.CmdDropOnTier, SeatID: s.seat, TierLabel: target}
	}
	s.command(cmd)
	s.command(engine.Command{Type: engine.CmdClearHover, SeatID: s.seat})
	// The pointer released; the drag image goes with it, whether or not the
	// drop landed.
	s.proxy.Dispose()
}

func (s *session) command(cmd engine.Command) {
	s.board.Inbox() <- board.FromClient{Cmd: cmd}
}

func (s *session) sendDragImage(item engine.Item) {
	render := s.proxy.Acquire(item)
	s.write(types.ServerMessage{Type: "DragImage", Image: &render})
}

func (s *session) sendError(msg string) {
	s.write(types.ServerMessage{Type: "Error", Error: msg})
}

func (s *session) write(msg types.ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Warn("marshal server message", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(s.ctx, writeTimeout)
	defer cancel()
	_ = s.conn.Write(ctx, websocket.MessageText, payload)
}
