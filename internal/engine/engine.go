package engine

import (
	"errors"
)

var ErrUnsupportedCommand = errors.New("unsupported command")
var ErrDuplicateTier = errors.New("duplicate tier label")
var ErrItemConflict = errors.New("item seeded in more than one location")

// TargetPool is the drop-target name for the unranked candidate pool.
// Tier labels are the other valid targets.
const TargetPool = "pool"

type Origin string

const (
	OriginPool Origin = "pool"
	OriginTier Origin = "tier"
)

// Item identity is the label: two items with the same label are the same
// item. Images are display-only.
type Item struct {
	Label       string `json:"label,omitempty"`
	ImageSource string `json:"image_source,omitempty"`
}

type Tier struct {
	Label string `json:"label"`
	Order int    `json:"order"`
	Color string `json:"color,omitempty"`
	Items []Item `json:"items"`
}

// DragSelection carries the dragged item together with where it came from,
// so drops don't have to re-derive the origin by scanning every tier.
// TierLabel is set only for OriginTier.
type DragSelection struct {
	Item      Item   `json:"item"`
	Origin    Origin `json:"origin"`
	TierLabel string `json:"tier_label,omitempty"`
}

type State struct {
	Tiers []Tier            `json:"tiers"`
	Pool  []Item            `json:"pool"`
	Drag  *DragSelection    `json:"drag,omitempty"`
	Hover map[string]string `json:"hover,omitempty"` // seat ID -> drop-target label
}

type CommandType string

const (
	CmdGrabFromPool CommandType = "GrabFromPool"
	CmdGrabFromTier CommandType = "GrabFromTier"
	CmdRelease      CommandType = "Release"
	CmdDropOnTier   CommandType = "DropOnTier"
	CmdDropOnPool   CommandType = "DropOnPool"
	CmdHoverTarget  CommandType = "HoverTarget"
	CmdClearHover   CommandType = "ClearHover"
	CmdReset        CommandType = "Reset"
)

type Command struct {
	Type      CommandType
	SeatID    string
	ItemLabel string
	// TierLabel is the drop target for CmdDropOnTier and CmdHoverTarget,
	// the origin row for CmdGrabFromTier (optional there; we fall back to
	// a scan when the client doesn't know the row), and the scope for
	// CmdClearHover (optional; empty clears unconditionally).
	TierLabel string
}

type EventType string

const (
	EvtDragStarted  EventType = "DragStarted"
	EvtDragEnded    EventType = "DragEnded"
	EvtItemPlaced   EventType = "ItemPlaced"
	EvtHoverChanged EventType = "HoverChanged"
	EvtBoardReset   EventType = "BoardReset"
)

type Event struct {
	Type      EventType
	SeatID    string
	ItemLabel string
	From      string // TargetPool or a tier label
	To        string
}

// Apply runs one drag intent against the board. Commands whose
// preconditions don't hold (nothing selected, item not where the client
// thinks it is, unknown target) return no events and the state unchanged:
// spurious drag events are routine, not failures. Every transition builds
// new collections; the input state is never mutated.
func Apply(s State, cmd Command) ([]Event, State, error) {

	switch cmd.Type {
	case CmdGrabFromPool:
		item, ok := findItem(s.Pool, cmd.ItemLabel)
		if !ok {
			return nil, s, nil
		}

		newState := s
		newState.Drag = &DragSelection{Item: item, Origin: OriginPool}
		events := []Event{
			{Type: EvtDragStarted, SeatID: cmd.SeatID, ItemLabel: item.Label, From: TargetPool},
		}
		return events, newState, nil

	case CmdGrabFromTier:
		origin := cmd.TierLabel
		if origin == "" {
			// Client didn't say which row; first match in tier order wins.
			origin = ownerTier(s.Tiers, cmd.ItemLabel)
		}
		tier, ok := findTier(s.Tiers, origin)
		if !ok {
			return nil, s, nil
		}
		item, ok := findItem(tier.Items, cmd.ItemLabel)
		if !ok {
			return nil, s, nil
		}

		newState := s
		newState.Drag = &DragSelection{Item: item, Origin: OriginTier, TierLabel: origin}
		events := []Event{
			{Type: EvtDragStarted, SeatID: cmd.SeatID, ItemLabel: item.Label, From: origin},
		}
		return events, newState, nil

	case CmdRelease:
		// The platform's drag-end: it follows every gesture, dropped or
		// not. Data is untouched; only the selection clears.
		if s.Drag == nil {
			return nil, s, nil
		}

		newState := s
		newState.Drag = nil
		events := []Event{
			{Type: EvtDragEnded, SeatID: cmd.SeatID, ItemLabel: s.Drag.Item.Label},
		}
		return events, newState, nil

	case CmdDropOnTier:
		if s.Drag == nil {
			return nil, s, nil
		}
		if _, ok := findTier(s.Tiers, cmd.TierLabel); !ok {
			return nil, s, nil
		}
		drag := *s.Drag

		newState := s
		var from string
		switch drag.Origin {
		case OriginPool:
			if _, ok := findItem(s.Pool, drag.Item.Label); !ok {
				return nil, s, nil
			}
			from = TargetPool
			newState.Pool = removeItem(s.Pool, drag.Item.Label)
			newState.Tiers = placeInTier(s.Tiers, cmd.TierLabel, drag.Item)

		case OriginTier:
			from = drag.TierLabel
			if from == "" {
				from = ownerTier(s.Tiers, drag.Item.Label)
			}
			if !tierHolds(s.Tiers, from, drag.Item.Label) {
				// Stale selection; the platform's drag-end will clear it.
				return nil, s, nil
			}
			tiers := removeFromTier(s.Tiers, from, drag.Item.Label)
			// A same-tier drop falls out of this naturally: remove then
			// re-append, no duplicate, no loss.
			newState.Tiers = placeInTier(tiers, cmd.TierLabel, drag.Item)

		default:
			return nil, s, nil
		}

		newState.Drag = nil
		events := []Event{
			{Type: EvtItemPlaced, SeatID: cmd.SeatID, ItemLabel: drag.Item.Label, From: from, To: cmd.TierLabel},
			{Type: EvtDragEnded, SeatID: cmd.SeatID, ItemLabel: drag.Item.Label},
		}
		return events, newState, nil

	case CmdDropOnPool:
		if s.Drag == nil {
			return nil, s, nil
		}
		drag := *s.Drag

		if drag.Origin == OriginPool {
			// Already in the pool; nothing moves. The drag-end relay
			// (CmdRelease) still follows the drop and clears the
			// selection.
			return nil, s, nil
		}

		from := drag.TierLabel
		if from == "" {
			from = ownerTier(s.Tiers, drag.Item.Label)
		}
		if !tierHolds(s.Tiers, from, drag.Item.Label) {
			return nil, s, nil
		}

		newState := s
		newState.Tiers = removeFromTier(s.Tiers, from, drag.Item.Label)
		newState.Pool = appendItem(s.Pool, drag.Item)
		newState.Drag = nil
		events := []Event{
			{Type: EvtItemPlaced, SeatID: cmd.SeatID, ItemLabel: drag.Item.Label, From: from, To: TargetPool},
			{Type: EvtDragEnded, SeatID: cmd.SeatID, ItemLabel: drag.Item.Label},
		}
		return events, newState, nil

	case CmdHoverTarget:
		if cmd.TierLabel != TargetPool {
			if _, ok := findTier(s.Tiers, cmd.TierLabel); !ok {
				return nil, s, nil
			}
		}
		if s.Hover[cmd.SeatID] == cmd.TierLabel {
			return nil, s, nil
		}

		newState := s
		newState.Hover = setHover(s.Hover, cmd.SeatID, cmd.TierLabel)
		events := []Event{
			{Type: EvtHoverChanged, SeatID: cmd.SeatID, To: cmd.TierLabel},
		}
		return events, newState, nil

	case CmdClearHover:
		current, ok := s.Hover[cmd.SeatID]
		if !ok {
			return nil, s, nil
		}
		// A target label scopes the clear. Leave events can land after the
		// seat already hovers the next target (enter fires on the new
		// target before leave fires on the old one) and must not wipe the
		// newer cue. An unscoped clear always applies.
		if cmd.TierLabel != "" && cmd.TierLabel != current {
			return nil, s, nil
		}

		newState := s
		newState.Hover = clearHover(s.Hover, cmd.SeatID)
		events := []Event{
			{Type: EvtHoverChanged, SeatID: cmd.SeatID},
		}
		return events, newState, nil

	case CmdReset:
		newState := s
		newState.Tiers, newState.Pool = drainTiers(s.Tiers, s.Pool)
		events := []Event{
			{Type: EvtBoardReset, SeatID: cmd.SeatID},
		}
		return events, newState, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

// Reduce replays events over a seed state. Unknown events are skipped so a
// newer log can be replayed by an older build.
func Reduce(seed State, events []Event) State {
	s := seed
	for _, event := range events {
		switch event.Type {
		case EvtDragStarted:
			if event.From == TargetPool {
				if item, ok := findItem(s.Pool, event.ItemLabel); ok {
					s.Drag = &DragSelection{Item: item, Origin: OriginPool}
				}
			} else if tier, found := findTier(s.Tiers, event.From); found {
				if item, ok := findItem(tier.Items, event.ItemLabel); ok {
					s.Drag = &DragSelection{Item: item, Origin: OriginTier, TierLabel: event.From}
				}
			}
		case EvtDragEnded:
			s.Drag = nil
		case EvtItemPlaced:
			s = place(s, event.ItemLabel, event.From, event.To)
		case EvtHoverChanged:
			if event.To == "" {
				s.Hover = clearHover(s.Hover, event.SeatID)
			} else {
				s.Hover = setHover(s.Hover, event.SeatID, event.To)
			}
		case EvtBoardReset:
			s.Tiers, s.Pool = drainTiers(s.Tiers, s.Pool)
		}
	}
	return s
}

// place moves one item between containers by target name, for replay.
func place(s State, label, from, to string) State {
	var item Item
	var ok bool
	if from == TargetPool {
		item, ok = findItem(s.Pool, label)
	} else if tier, found := findTier(s.Tiers, from); found {
		item, ok = findItem(tier.Items, label)
	}
	if !ok {
		return s
	}

	if from == TargetPool {
		s.Pool = removeItem(s.Pool, label)
	} else {
		s.Tiers = removeFromTier(s.Tiers, from, label)
	}
	if to == TargetPool {
		s.Pool = appendItem(s.Pool, item)
	} else {
		s.Tiers = placeInTier(s.Tiers, to, item)
	}
	return s
}
