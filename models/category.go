package models

// Category is a fixed trade classification. Categories are defined at
// build time and cannot be created by users.
type Category struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
}

var categories = []Category{
	{
		ID:       "auto",
		Title:    "Automotive Mechanic",
		Subtitle: "Engine Diagnostics, Maintenance, Repair",
		Icon:     "wrench",
		Color:    "blue",
	},
	{
		ID:       "plumbing",
		Title:    "Plumbing Services",
		Subtitle: "Leak detection, Pipe repair, Installation",
		Icon:     "droplets",
		Color:    "cyan",
	},
	{
		ID:       "carpentry",
		Title:    "Master Carpentry",
		Subtitle: "Custom furniture, Framing, Deck building",
		Icon:     "ruler",
		Color:    "amber",
	},
	{
		ID:       "electrical",
		Title:    "Electrician",
		Subtitle: "Wiring, Panel upgrades, Lighting",
		Icon:     "zap",
		Color:    "yellow",
	},
}

// Categories returns the catalog in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// LookupCategory finds a category by id.
func LookupCategory(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
