package hub

import (
	"context"

	"go.uber.org/zap"

	"tierboard/internal/board"
	"tierboard/internal/engine"
)

type HubMsg interface{ isHubMsg() }

type CreateBoard struct {
	Code  string
	State engine.State
	Reply chan *board.Board
}

type GetBoard struct {
	Code  string
	Reply chan *board.Board
}

type EnsureBoard struct {
	Code  string
	State engine.State // only used if creation happens
	Reply chan *board.Board
}

type RemoveBoard struct {
	Code string
}

type ShutdownHub struct{}

func (CreateBoard) isHubMsg() {}
func (GetBoard) isHubMsg()    {}
func (EnsureBoard) isHubMsg() {}
func (RemoveBoard) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

// Hub is the registry of live boards, keyed by join code. Same actor shape
// as the boards themselves: one loop goroutine owns the map.
type Hub struct {
	inbox  chan HubMsg
	boards map[string]*board.Board
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		boards: make(map[string]*board.Board),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateBoard:
				if b := h.boards[msg.Code]; b != nil {
					msg.Reply <- b
					break
				}
				msg.Reply <- h.spawn(msg.Code, msg.State)

			case GetBoard:
				msg.Reply <- h.boards[msg.Code] // may be nil

			case EnsureBoard:
				if b := h.boards[msg.Code]; b != nil {
					msg.Reply <- b
					break
				}
				msg.Reply <- h.spawn(msg.Code, msg.State)

			case RemoveBoard:
				if b := h.boards[msg.Code]; b != nil {
					b.Inbox() <- board.Shutdown{}
				}
				delete(h.boards, msg.Code)

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) spawn(code string, state engine.State) *board.Board {
	b := board.NewBoard(h.ctx, state, h.log.With(zap.String("board", code)))
	h.boards[code] = b
	h.log.Info("board created", zap.String("code", code))
	return b
}

func (h *Hub) shutdown() {
	for _, b := range h.boards {
		b.Inbox() <- board.Shutdown{}
	}
	clear(h.boards)
	h.cancel()
}
