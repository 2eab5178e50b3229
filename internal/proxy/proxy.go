// Package proxy owns the lifecycle of the drag-image stand-in: the
// temporary render a client shows under the pointer instead of the
// browser's default ghost. The registry guarantees there is at most one
// live render and that disposing a render that is already gone is a no-op.
package proxy

import (
	"github.com/google/uuid"

	"tierboard/internal/engine"
)

// Render describes one drag image. Clients build the off-screen element
// from the label and image source and key it by ID.
type Render struct {
	ID          string `json:"id"`
	Label       string `json:"label,omitempty"`
	ImageSource string `json:"image_source,omitempty"`
}

// Registry tracks the single live render for one client session. Not safe
// for concurrent use; sessions drive it from their reader goroutine.
type Registry struct {
	live *Render
}

// Acquire disposes whatever render is live and creates a new one for the
// item, so starting a drag can never leak the previous drag's render.
func (r *Registry) Acquire(item engine.Item) Render {
	r.Dispose()
	render := Render{
		ID:          uuid.NewString(),
		Label:       item.Label,
		ImageSource: item.ImageSource,
	}
	r.live = &render
	return render
}

// Dispose drops the live render. Idempotent.
func (r *Registry) Dispose() {
	r.live = nil
}

// Live reports the current render, if any.
func (r *Registry) Live() (Render, bool) {
	if r.live == nil {
		return Render{}, false
	}
	return *r.live, true
}
