// Package recipes holds the recipe-side state of the assistant: user
// preferences, favorites, ratings, the recently-viewed list and the UI
// theme. All of it is part of the persisted snapshot.
package recipes

import (
	"time"
)

// Ref identifies a recipe. It is the identity used by favorites, ratings,
// the recently-viewed list and message metadata.
type Ref struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url,omitempty"`
}

// Rating is a single user rating. One rating per recipe id; re-rating
// replaces the previous score.
type Rating struct {
	RecipeID string    `json:"recipe_id"`
	Score    int       `json:"score"`
	RatedAt  time.Time `json:"rated_at"`
}

// Preferences holds the user's dietary profile.
type Preferences struct {
	DietaryRestrictions []string `json:"dietary_restrictions"`
	Cuisines            []string `json:"cuisines"`
	ServingSize         int      `json:"serving_size"`
}

// Theme selects the presentation color scheme.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ParseTheme maps a stored string to a Theme, defaulting to system.
func ParseTheme(s string) Theme {
	switch Theme(s) {
	case ThemeLight, ThemeDark, ThemeSystem:
		return Theme(s)
	default:
		return ThemeSystem
	}
}
