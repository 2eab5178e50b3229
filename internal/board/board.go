package board

import (
	"context"

	"go.uber.org/zap"

	"tierboard/internal/engine"
)

type Msg interface{ isBoardMsg() }

// FromClient carries one drag intent from a connected seat.
type FromClient struct {
	Cmd engine.Command
}

func (FromClient) isBoardMsg() {}

type Join struct {
	SeatID string
	Outbox chan Snapshot // where this seat wants to receive snapshots
}

func (Join) isBoardMsg() {}

type Leave struct{ SeatID string }

func (Leave) isBoardMsg() {}

type Shutdown struct{}

func (Shutdown) isBoardMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isBoardMsg() {}

type Snapshot struct {
	Version int          `json:"version"`
	State   engine.State `json:"state"`
}

// View reflects board internals without data races; used by tests and the
// snapshot endpoint.
type View struct {
	Version  int
	NumSeats int
	State    engine.State
}

// Board owns one tier list. All access goes through the inbox; the loop
// goroutine is the only writer, so the engine state needs no locking.
type Board struct {
	inbox   chan Msg
	state   engine.State
	version int
	seats   map[string]chan Snapshot
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewBoard(parent context.Context, initial engine.State, log *zap.Logger) *Board {
	ctx, cancel := context.WithCancel(parent)

	b := &Board{
		inbox:   make(chan Msg, 64),
		state:   initial,
		version: 0,
		seats:   make(map[string]chan Snapshot),
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}

	go b.loop()
	return b
}

// Inbox exposes the message channel to the WS layer and tests.
func (b *Board) Inbox() chan<- Msg { return b.inbox }

func (b *Board) loop() {
	for {
		select {
		case <-b.ctx.Done():
			b.shutdown()
			return

		case m := <-b.inbox:
			switch msg := m.(type) {
			case Join:
				// Register the seat and send the current snapshot
				// immediately so a fresh client can render the board.
				b.seats[msg.SeatID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: b.version, State: b.state}

			case Leave:
				if ch, ok := b.seats[msg.SeatID]; ok {
					// Close the outbox so the seat's writer goroutine
					// ranging over it can finish.
					close(ch)
					delete(b.seats, msg.SeatID)
				}
				// The seat's hover cue must not outlive the seat.
				b.apply(engine.Command{Type: engine.CmdClearHover, SeatID: msg.SeatID})

			case FromClient:
				b.apply(msg.Cmd)

			case GetState:
				msg.Reply <- View{
					Version:  b.version,
					NumSeats: len(b.seats),
					State:    b.state,
				}

			case Shutdown:
				b.shutdown()
				return
			}
		}
	}
}

// apply runs one command through the engine and broadcasts when it changed
// anything visible. Precondition misses produce no events and stay quiet.
func (b *Board) apply(cmd engine.Command) {
	events, newState, err := engine.Apply(b.state, cmd)
	if err != nil {
		b.log.Warn("rejected command",
			zap.String("type", string(cmd.Type)),
			zap.String("seat", cmd.SeatID),
			zap.Error(err))
		return
	}
	if len(events) == 0 {
		return
	}

	b.state = newState
	b.version++
	b.broadcast(Snapshot{Version: b.version, State: b.state})
}

func (b *Board) shutdown() {
	for id, ch := range b.seats {
		close(ch) // no more snapshots for this seat
		delete(b.seats, id)
	}
	b.cancel()
}

func (b *Board) broadcast(snap Snapshot) {
	for id, ch := range b.seats {
		select {
		case ch <- snap:
			// ok
		default:
			// Seat is slow/full - drop it.
			b.log.Info("dropping slow seat", zap.String("seat", id))
			close(ch)
			delete(b.seats, id)
		}
	}
}
