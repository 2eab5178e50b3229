package board

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"tierboard/internal/engine"
)

// helper: receive one snapshot with a timeout so tests never hang
func recvSnapshot(t *testing.T, ch <-chan Snapshot, within time.Duration) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatalf("seat outbox closed unexpectedly")
		}
		return snap
	case <-time.After(within):
		t.Fatalf("timed out waiting for snapshot")
		return Snapshot{} // unreachable
	}
}

func recvNoSnapshot(t *testing.T, ch <-chan Snapshot, within time.Duration) {
	t.Helper()
	select {
	case s, ok := <-ch:
		if !ok {
			// channel closed → no further snapshots possible, that's fine
			return
		}
		t.Fatalf("expected no snapshot within %v, but got: %+v", within, s)
	case <-time.After(within):
		// good: no snapshot
	}
}

func recvView(t *testing.T, ch <-chan View, within time.Duration) View {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(within):
		t.Fatalf("timed out waiting for view")
		return View{} // unreachable
	}
}

func seedState(t *testing.T) engine.State {
	t.Helper()
	tiers := engine.DefaultTiers()
	tiers[0].Items = []engine.Item{{Label: "Vivo"}}
	s, err := engine.NewState(tiers, []engine.Item{{Label: "Item1"}, {Label: "Item2"}})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

func TestBoard_Move_BroadcastsSnapshotAndVersionIncrements(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBoard(ctx, seedState(t), zap.NewNop())

	out := make(chan Snapshot, 4)
	b.Inbox() <- Join{SeatID: "s1", Outbox: out}

	first := recvSnapshot(t, out, 100*time.Millisecond)
	if first.Version != 0 {
		t.Fatalf("after join: want version=0, got %d", first.Version)
	}
	if len(first.State.Pool) != 2 {
		t.Fatalf("after join: want the seeded pool, got %+v", first.State.Pool)
	}

	b.Inbox() <- FromClient{Cmd: engine.Command{Type: engine.CmdGrabFromPool, SeatID: "s1", ItemLabel: "Item1"}}
	grabbed := recvSnapshot(t, out, 100*time.Millisecond)
	if grabbed.Version != 1 || grabbed.State.Drag == nil {
		t.Fatalf("after grab: want version=1 with a selection, got %+v", grabbed)
	}

	b.Inbox() <- FromClient{Cmd: engine.Command{Type: engine.CmdDropOnTier, SeatID: "s1", TierLabel: "A"}}
	dropped := recvSnapshot(t, out, 100*time.Millisecond)
	if dropped.Version != 2 {
		t.Fatalf("after drop: want version=2, got %d", dropped.Version)
	}
	if len(dropped.State.Pool) != 1 || len(dropped.State.Tiers[1].Items) != 1 {
		t.Fatalf("after drop: item should sit in tier A, got %+v", dropped.State)
	}

	b.Inbox() <- Shutdown{}
}

func TestBoard_SilentNoOpDoesNotBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBoard(ctx, seedState(t), zap.NewNop())

	out := make(chan Snapshot, 4)
	b.Inbox() <- Join{SeatID: "s1", Outbox: out}
	_ = recvSnapshot(t, out, 100*time.Millisecond)

	// No selection, so the drop must change nothing and stay quiet.
	b.Inbox() <- FromClient{Cmd: engine.Command{Type: engine.CmdDropOnTier, SeatID: "s1", TierLabel: "A"}}
	recvNoSnapshot(t, out, 150*time.Millisecond)

	reply := make(chan View, 1)
	b.Inbox() <- GetState{Reply: reply}
	view := recvView(t, reply, 100*time.Millisecond)
	if view.Version != 0 {
		t.Fatalf("no-op bumped the version to %d", view.Version)
	}
}

func TestBoard_DropSlowSeat(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBoard(ctx, seedState(t), zap.NewNop())

	// The join snapshot fills the only buffer slot; the next broadcast
	// finds the seat full and drops it.
	out := make(chan Snapshot, 1)
	b.Inbox() <- Join{SeatID: "s1", Outbox: out}

	b.Inbox() <- FromClient{Cmd: engine.Command{Type: engine.CmdGrabFromPool, SeatID: "s1", ItemLabel: "Item1"}}

	reply := make(chan View, 1)
	b.Inbox() <- GetState{Reply: reply}
	view := recvView(t, reply, 100*time.Millisecond)

	if view.NumSeats != 0 {
		t.Fatalf("expected slow seat to be dropped; NumSeats=%d", view.NumSeats)
	}
}

func TestBoard_LeaveClearsHoverCue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBoard(ctx, seedState(t), zap.NewNop())

	out := make(chan Snapshot, 8)
	b.Inbox() <- Join{SeatID: "s1", Outbox: out}
	_ = recvSnapshot(t, out, 100*time.Millisecond)

	b.Inbox() <- FromClient{Cmd: engine.Command{Type: engine.CmdHoverTarget, SeatID: "s1", TierLabel: "B"}}
	hovered := recvSnapshot(t, out, 100*time.Millisecond)
	if hovered.State.Hover["s1"] != "B" {
		t.Fatalf("hover cue missing: %+v", hovered.State.Hover)
	}

	b.Inbox() <- Leave{SeatID: "s1"}

	reply := make(chan View, 1)
	b.Inbox() <- GetState{Reply: reply}
	view := recvView(t, reply, 100*time.Millisecond)
	if _, ok := view.State.Hover["s1"]; ok {
		t.Fatalf("hover cue survived the seat: %+v", view.State.Hover)
	}
	if view.NumSeats != 0 {
		t.Fatalf("seat not removed")
	}
}

func TestBoard_LeaveClosesOutbox(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBoard(ctx, seedState(t), zap.NewNop())

	out := make(chan Snapshot, 2)
	b.Inbox() <- Join{SeatID: "s1", Outbox: out}
	_ = recvSnapshot(t, out, 100*time.Millisecond)

	b.Inbox() <- Leave{SeatID: "s1"}

	// The writer side ranges over the outbox; without a close here it
	// would block for the life of the board.
	select {
	case _, ok := <-out:
		if ok {
			t.Fatalf("expected closed outbox, got a snapshot")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("outbox not closed after leave")
	}
}

func TestBoard_ShutdownClosesOutboxes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBoard(ctx, seedState(t), zap.NewNop())

	out := make(chan Snapshot, 2)
	b.Inbox() <- Join{SeatID: "s1", Outbox: out}
	_ = recvSnapshot(t, out, 100*time.Millisecond)

	b.Inbox() <- Shutdown{}

	select {
	case _, ok := <-out:
		if ok {
			t.Fatalf("expected closed outbox, got a snapshot")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("outbox not closed after shutdown")
	}
}
