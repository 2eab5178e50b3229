package engine

// The seven-row template every board starts from. Rows are fixed for the
// life of a board; only items move.
var tierTemplate = []Tier{
	{Label: "S", Order: 0, Color: "#ff7f7f"},
	{Label: "A", Order: 1, Color: "#ffbf7f"},
	{Label: "B", Order: 2, Color: "#ffdf7f"},
	{Label: "C", Order: 3, Color: "#ffff7f"},
	{Label: "D", Order: 4, Color: "#bfff7f"},
	{Label: "E", Order: 5, Color: "#7fff7f"},
	{Label: "F", Order: 6, Color: "#7fbfff"},
}

// DefaultTiers returns a fresh copy of the template so callers can seed
// items into it without touching the shared table.
func DefaultTiers() []Tier {
	out := make([]Tier, len(tierTemplate))
	for i, t := range tierTemplate {
		t.Items = []Item{}
		out[i] = t
	}
	return out
}
