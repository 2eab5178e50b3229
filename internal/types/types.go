package types

import (
	"tierboard/internal/engine"
	"tierboard/internal/proxy"
)

// Client -> Server
//
// GrabFromPool / GrabFromTier:
//
//	item_label: string
//	image_source: string (display data for the drag image)
//	target: origin tier label (GrabFromTier only; optional)
//
// Release: {} (the platform's drag-end relay; send whenever the gesture
// ends: Escape, outside any target, or after a drop. A drop that moved
// nothing keeps the selection until this arrives.)
//
// DragEnter / DragLeave / DragOver / Drop:
//
//	target: "pool" | tier label
//
// Reset: {}
type ClientMessage struct {
	Type        string `json:"type"`
	ItemLabel   string `json:"item_label,omitempty"`
	ImageSource string `json:"image_source,omitempty"`
	Target      string `json:"target,omitempty"`
}

// Server -> Client
//
// StateSnapshot:
//
//	version: number
//	state: tiers + pool + drag selection + hover cues
//
// DragImage:
//
//	drag_image: { id, label, image_source } — render this off-screen and
//	hand it to the platform drag API at offset (0,0)
//
// Error:
//
//	error: string
type ServerMessage struct {
	Type    string        `json:"type"` // "StateSnapshot" | "DragImage" | "Error"
	Version int           `json:"version,omitempty"`
	State   *engine.State `json:"state,omitempty"`
	Image   *proxy.Render `json:"drag_image,omitempty"`
	Error   string        `json:"error,omitempty"`
}
