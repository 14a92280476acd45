// Package rating implements the like/dislike toggle applied when a user
// votes on a sauce. It is pure: no I/O, no clock, no locking.
package rating

import (
	"fmt"
	"slices"

	"github.com/dmitrijs2005/piiquante/internal/common"
	"github.com/dmitrijs2005/piiquante/internal/server/models"
)

// Intent is what a user asks for: +1 like, -1 dislike, 0 withdraw.
type Intent int

const (
	Dislike  Intent = -1
	Withdraw Intent = 0
	Like     Intent = 1
)

// State is a user's standing on one sauce, derived from list membership.
type State int

const (
	Neutral State = iota
	Liked
	Disliked
)

func (s State) String() string {
	switch s {
	case Liked:
		return "liked"
	case Disliked:
		return "disliked"
	default:
		return "neutral"
	}
}

// ParseIntent accepts exactly -1, 0 and 1.
func ParseIntent(v int) (Intent, error) {
	switch Intent(v) {
	case Dislike, Withdraw, Like:
		return Intent(v), nil
	}
	return 0, &common.ValidationError{
		Message: fmt.Sprintf("invalid vote %d", v),
		Fields:  map[string]string{"like": "must be one of: -1 0 1"},
	}
}

// StateOf reports userID's current state on s.
func StateOf(s *models.Sauce, userID string) State {
	switch {
	case slices.Contains(s.UsersLiked, userID):
		return Liked
	case slices.Contains(s.UsersDisliked, userID):
		return Disliked
	default:
		return Neutral
	}
}

// Apply moves userID on s according to intent and reports whether s changed.
//
//	Like:     join likers if absent, leave dislikers if present.
//	Dislike:  join dislikers if absent, leave likers if present.
//	Withdraw: leave whichever list holds the user.
//
// Repeating an intent is a no-op. Counters are recomputed from the lists
// afterwards, so they cannot drift from the membership they describe.
func Apply(s *models.Sauce, userID string, intent Intent) (bool, error) {
	if _, err := ParseIntent(int(intent)); err != nil {
		return false, err
	}

	var changed bool
	switch intent {
	case Like:
		s.UsersLiked, changed = add(s.UsersLiked, userID)
		var removed bool
		s.UsersDisliked, removed = remove(s.UsersDisliked, userID)
		changed = changed || removed
	case Dislike:
		s.UsersDisliked, changed = add(s.UsersDisliked, userID)
		var removed bool
		s.UsersLiked, removed = remove(s.UsersLiked, userID)
		changed = changed || removed
	case Withdraw:
		var fromLiked, fromDisliked bool
		s.UsersLiked, fromLiked = remove(s.UsersLiked, userID)
		s.UsersDisliked, fromDisliked = remove(s.UsersDisliked, userID)
		changed = fromLiked || fromDisliked
	}

	recount(s)
	return changed, nil
}

func add(set []string, id string) ([]string, bool) {
	if slices.Contains(set, id) {
		return set, false
	}
	return append(set, id), true
}

func remove(set []string, id string) ([]string, bool) {
	out := slices.DeleteFunc(set, func(v string) bool { return v == id })
	return out, len(out) != len(set)
}

func recount(s *models.Sauce) {
	if s.UsersLiked == nil {
		s.UsersLiked = []string{}
	}
	if s.UsersDisliked == nil {
		s.UsersDisliked = []string{}
	}
	s.Likes = len(s.UsersLiked)
	s.Dislikes = len(s.UsersDisliked)
}
