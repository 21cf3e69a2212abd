package recipes

import (
	"fmt"
	"sync"
	"time"

	"github.com/scylladb/go-set/strset"

	"github.com/souschef-ai/souschef/internal/notification"
)

// maxRecentlyViewed bounds the recently-viewed list.
const maxRecentlyViewed = 10

// State is the mutable recipe-side store. Mutations are synchronous and run
// to completion under a single mutex; change listeners fire after the lock
// is released.
type State struct {
	mu             sync.Mutex
	favorites      []Ref
	ratings        []Rating
	recentlyViewed []Ref
	preferences    Preferences
	theme          Theme

	notifier  notification.Notifier
	listeners []func()
}

// NewState returns an empty State emitting to the given notifier.
func NewState(notifier notification.Notifier) *State {
	if notifier == nil {
		notifier = notification.Nop
	}
	return &State{theme: ThemeSystem, notifier: notifier}
}

// Subscribe registers a change listener invoked after every mutation.
func (s *State) Subscribe(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *State) changed() {
	s.mu.Lock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// ToggleFavorite adds the recipe to favorites, or removes it if already
// present. Returns true if the recipe is a favorite after the call.
func (s *State) ToggleFavorite(ref Ref) bool {
	s.mu.Lock()
	kept := s.favorites[:0:0]
	removed := false
	for _, f := range s.favorites {
		if f.ID == ref.ID {
			removed = true
			continue
		}
		kept = append(kept, f)
	}
	if !removed {
		kept = append(kept, ref)
	}
	s.favorites = kept
	s.mu.Unlock()

	if removed {
		s.notifier.Notify(notification.Info("Removed from favorites", ref.Title))
	} else {
		s.notifier.Notify(notification.Success("Added to favorites", ref.Title))
	}
	s.changed()
	return !removed
}

// IsFavorite reports whether the recipe id is currently a favorite.
func (s *State) IsFavorite(recipeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.favorites {
		if f.ID == recipeID {
			return true
		}
	}
	return false
}

// Rate records a rating for the recipe, replacing any previous one.
// Scores outside 1..5 are clamped.
func (s *State) Rate(recipeID string, score int) {
	if score < 1 {
		score = 1
	}
	if score > 5 {
		score = 5
	}
	rating := Rating{RecipeID: recipeID, Score: score, RatedAt: time.Now()}

	s.mu.Lock()
	replaced := false
	for i, r := range s.ratings {
		if r.RecipeID == recipeID {
			s.ratings[i] = rating
			replaced = true
			break
		}
	}
	if !replaced {
		s.ratings = append(s.ratings, rating)
	}
	s.mu.Unlock()

	s.notifier.Notify(notification.Success("Rating submitted", fmt.Sprintf("%d/5", score)))
	s.changed()
}

// MarkViewed records the recipe at the head of the recently-viewed list.
// The list is de-duplicated by id and bounded to the 10 most recent.
func (s *State) MarkViewed(ref Ref) {
	s.mu.Lock()
	seen := strset.New(ref.ID)
	viewed := []Ref{ref}
	for _, r := range s.recentlyViewed {
		if seen.Has(r.ID) {
			continue
		}
		seen.Add(r.ID)
		viewed = append(viewed, r)
		if len(viewed) == maxRecentlyViewed {
			break
		}
	}
	s.recentlyViewed = viewed
	s.mu.Unlock()
	s.changed()
}

// SetPreferences replaces the user's preferences.
func (s *State) SetPreferences(p Preferences) {
	s.mu.Lock()
	s.preferences = p
	s.mu.Unlock()
	s.changed()
}

// SetTheme switches the presentation theme.
func (s *State) SetTheme(t Theme) {
	s.mu.Lock()
	s.theme = t
	s.mu.Unlock()
	s.changed()
}

// Favorites returns a copy of the favorites list.
func (s *State) Favorites() []Ref {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Ref{}, s.favorites...)
}

// Ratings returns a copy of the ratings list.
func (s *State) Ratings() []Rating {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Rating{}, s.ratings...)
}

// RecentlyViewed returns a copy of the recently-viewed list,
// most recent first.
func (s *State) RecentlyViewed() []Ref {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Ref{}, s.recentlyViewed...)
}

// Preferences returns the current preferences.
func (s *State) Preferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preferences
}

// Theme returns the current theme.
func (s *State) Theme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// Restore replaces the whole state from a persisted snapshot without
// emitting notifications or change signals.
func (s *State) Restore(favorites []Ref, ratings []Rating, recentlyViewed []Ref, prefs Preferences, theme Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites = append([]Ref{}, favorites...)
	s.ratings = append([]Rating{}, ratings...)
	if len(recentlyViewed) > maxRecentlyViewed {
		recentlyViewed = recentlyViewed[:maxRecentlyViewed]
	}
	s.recentlyViewed = append([]Ref{}, recentlyViewed...)
	s.preferences = prefs
	s.theme = theme
}
