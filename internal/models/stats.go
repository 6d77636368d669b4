package models

// BestHabitNone is the sentinel returned when no habit has ever been completed.
const BestHabitNone = "None yet"

// StreakTier is a discrete band derived from the current streak length. It is
// the only thing the stats engine exposes about presentation: the emoji and
// motivational copy for each tier live in the motivation package.
type StreakTier string

const (
	TierNone   StreakTier = "none"
	TierLow    StreakTier = "low"
	TierMedium StreakTier = "medium"
	TierHigh   StreakTier = "high"
)

// Stats holds the derived trend statistics for one owner. It is computed
// fresh on every request and never persisted.
type Stats struct {
	TotalDays            int    `json:"total_days"`
	BestHabit            string `json:"best_habit"`
	CurrentStreak        int    `json:"current_streak"`
	TotalHabitsCompleted int    `json:"total_habits_completed"`
	StreakEmoji          string `json:"streak_emoji"`
}
