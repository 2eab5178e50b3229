package engine

import "slices"

// NewState seeds a board. Tier labels must be unique and every seeded item
// must live in exactly one place (the pool or one tier); duplicates within
// a single container collapse to the first occurrence, set semantics.
func NewState(tiers []Tier, pool []Item) (State, error) {
	seen := map[string]bool{}
	outTiers := make([]Tier, 0, len(tiers))
	placed := map[string]bool{}

	for _, t := range tiers {
		if seen[t.Label] || t.Label == TargetPool {
			return State{}, ErrDuplicateTier
		}
		seen[t.Label] = true

		items := make([]Item, 0, len(t.Items))
		for _, it := range t.Items {
			if _, ok := findItem(items, it.Label); ok {
				continue
			}
			if placed[it.Label] {
				return State{}, ErrItemConflict
			}
			placed[it.Label] = true
			items = append(items, it)
		}
		t.Items = items
		outTiers = append(outTiers, t)
	}

	outPool := make([]Item, 0, len(pool))
	for _, it := range pool {
		if _, ok := findItem(outPool, it.Label); ok {
			continue
		}
		if placed[it.Label] {
			return State{}, ErrItemConflict
		}
		placed[it.Label] = true
		outPool = append(outPool, it)
	}

	return State{Tiers: outTiers, Pool: outPool, Hover: map[string]string{}}, nil
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

func findItem(items []Item, label string) (Item, bool) {
	for _, it := range items {
		if it.Label == label {
			return it, true
		}
	}
	return Item{}, false
}

func findTier(tiers []Tier, label string) (Tier, bool) {
	for _, t := range tiers {
		if t.Label == label {
			return t, true
		}
	}
	return Tier{}, false
}

// ownerTier returns the label of the first tier, in display order, holding
// the item. Empty string when no tier does.
func ownerTier(tiers []Tier, itemLabel string) string {
	for _, t := range tiers {
		if _, ok := findItem(t.Items, itemLabel); ok {
			return t.Label
		}
	}
	return ""
}

func tierHolds(tiers []Tier, tierLabel, itemLabel string) bool {
	t, ok := findTier(tiers, tierLabel)
	if !ok {
		return false
	}
	_, ok = findItem(t.Items, itemLabel)
	return ok
}

// removeItem builds a new slice without the labeled item. The input is
// left alone.
func removeItem(items []Item, label string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Label == label {
			continue
		}
		out = append(out, it)
	}
	return out
}

// appendItem appends with set semantics: if the label is already present
// the original slice comes back untouched.
func appendItem(items []Item, item Item) []Item {
	if _, ok := findItem(items, item.Label); ok {
		return items
	}
	out := make([]Item, len(items), len(items)+1)
	copy(out, items)
	return append(out, item)
}

func placeInTier(tiers []Tier, tierLabel string, item Item) []Tier {
	out := slices.Clone(tiers)
	for i := range out {
		if out[i].Label == tierLabel {
			out[i].Items = appendItem(out[i].Items, item)
		}
	}
	return out
}

func removeFromTier(tiers []Tier, tierLabel, itemLabel string) []Tier {
	out := slices.Clone(tiers)
	for i := range out {
		if out[i].Label == tierLabel {
			out[i].Items = removeItem(out[i].Items, itemLabel)
		}
	}
	return out
}

// drainTiers empties every tier into the pool, in tier order then item
// order. Both return values are fresh collections.
func drainTiers(tiers []Tier, pool []Item) ([]Tier, []Item) {
	outPool := slices.Clone(pool)
	outTiers := slices.Clone(tiers)
	for i := range outTiers {
		for _, it := range outTiers[i].Items {
			outPool = appendItem(outPool, it)
		}
		outTiers[i].Items = []Item{}
	}
	return outTiers, outPool
}

func setHover(hover map[string]string, seat, target string) map[string]string {
	out := make(map[string]string, len(hover)+1)
	for k, v := range hover {
		out[k] = v
	}
	out[seat] = target
	return out
}

func clearHover(hover map[string]string, seat string) map[string]string {
	out := make(map[string]string, len(hover))
	for k, v := range hover {
		if k == seat {
			continue
		}
		out[k] = v
	}
	return out
}
