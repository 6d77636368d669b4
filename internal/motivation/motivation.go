// Package motivation holds the canned presentation text keyed by streak tier:
// the streak emoji, motivational messages and habit suggestions. Selection is
// random by default but the selector is injectable so tests stay
// deterministic.
package motivation

import (
	"fmt"
	"math/rand/v2"

	"github.com/mindtrack/api/internal/models"
)

// Selector picks an index in [0, n). n is always >= 1.
type Selector func(n int) int

// tierEmojis maps each streak tier to its indicator.
var tierEmojis = map[models.StreakTier]string{
	models.TierNone:   "😔",
	models.TierLow:    "😊",
	models.TierMedium: "🔥",
	models.TierHigh:   "🏆",
}

// Emoji returns the streak indicator for a tier.
func Emoji(tier models.StreakTier) string {
	return tierEmojis[tier]
}

// messagesForTier returns the message candidates for a tier. Messages that
// mention the streak length are formatted with the current value.
func messagesForTier(tier models.StreakTier, streak int) []string {
	switch tier {
	case models.TierLow:
		return []string{
			fmt.Sprintf("Day %d! Great start. Keep the momentum going.", streak),
			"Consistency is key. You're building a new habit!",
		}
	case models.TierMedium:
		return []string{
			fmt.Sprintf("%d days in a row! You're on fire!", streak),
			"Almost a full week! Amazing discipline.",
		}
	case models.TierHigh:
		return []string{
			fmt.Sprintf("Wow, %d days! You've made this a real habit.", streak),
			"Incredible consistency! You're an inspiration.",
		}
	default:
		return []string{
			"The journey of a thousand miles begins with one step. Let's log Day 1!",
			"A new beginning! You've got this.",
		}
	}
}

var suggestions = []string{
	"Let's focus on consistency for now!",
	"Try stacking a new habit onto one you already do every day.",
	"Small and repeatable beats big and occasional.",
}

// Messenger picks presentation text for a streak tier.
type Messenger struct {
	pick Selector
}

// New creates a Messenger. A nil selector means uniformly random.
func New(pick Selector) *Messenger {
	if pick == nil {
		pick = rand.IntN
	}
	return &Messenger{pick: pick}
}

// Motivation returns a motivational message for the given streak length.
func (m *Messenger) Motivation(streak int, tier models.StreakTier) string {
	candidates := messagesForTier(tier, streak)
	return candidates[m.pick(len(candidates))]
}

// Suggestion returns a canned habit suggestion.
func (m *Messenger) Suggestion() string {
	return suggestions[m.pick(len(suggestions))]
}
