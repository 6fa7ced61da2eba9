// Package roster keeps the list of lab members that can occupy seats.
package roster

// Category groups members by role. Unknown values normalize to Other.
type Category string

// Known categories.
const (
	CategoryStaff Category = "Staff"
	CategoryD     Category = "D"
	CategoryM     Category = "M"
	CategoryB     Category = "B"
	CategoryOther Category = "Other"
)

// Categories lists the known categories in display order.
var Categories = []Category{CategoryStaff, CategoryD, CategoryM, CategoryB, CategoryOther}

// Member is a person who can be seated.
type Member struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// NormalizeCategory maps raw to a known category, defaulting to Other.
func NormalizeCategory(raw string) Category {
	for _, c := range Categories {
		if string(c) == raw {
			return c
		}
	}
	return CategoryOther
}
