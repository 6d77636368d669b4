// Package stats derives longitudinal trend statistics from an owner's day
// records: total days logged, best habit, current streak, total completions
// and the streak tier. The engine is a pure function of its input; it keeps
// no state between calls, so an edited or backfilled log is always reflected
// on the next read without any write happening.
package stats

import (
	"encoding/json"
	"sort"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mindtrack/api/internal/models"
	"github.com/mindtrack/api/internal/store"
)

// Engine computes Stats from raw day records. Safe for concurrent use: it has
// no mutable state beyond the logger.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a stats engine. A nil logger disables diagnostics.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Compute folds one owner's day records into aggregate statistics. The input
// is never mutated. Records whose payload cannot be decoded as a JSON array
// of strings are skipped with a warning and excluded from every aggregate;
// records with an empty habit set count as nothing logged that day. Compute
// never fails: a single corrupt day must not prevent the rest of history from
// producing correct stats.
//
// Records are scanned in ascending date order so that the best-habit
// tie-break (first name to reach the maximum count) is deterministic.
func (e *Engine) Compute(records []store.DayRecord, today time.Time) models.Stats {
	sorted := make([]store.DayRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	var (
		totalDays      int
		totalCompleted int
		habitCounts    = make(map[string]int)
		habitOrder     []string
		loggedDates    = make(map[string]struct{})
	)

	for _, rec := range sorted {
		if rec.Date == store.MetaKey {
			continue
		}

		var habits []string
		if err := json.Unmarshal(rec.Payload, &habits); err != nil {
			e.logger.Warn("skipping_corrupt_day_record",
				zap.String("date", rec.Date),
				zap.Error(err),
			)
			continue
		}
		if len(habits) == 0 {
			// Nothing completed that day: not an error, but it contributes to
			// no aggregate and breaks streak contiguity.
			continue
		}

		loggedDates[rec.Date] = struct{}{}
		totalDays++
		totalCompleted += len(habits)
		for _, habit := range habits {
			if _, seen := habitCounts[habit]; !seen {
				habitOrder = append(habitOrder, habit)
			}
			habitCounts[habit]++
		}
	}

	return models.Stats{
		TotalDays:            totalDays,
		BestHabit:            bestHabit(habitCounts, habitOrder),
		CurrentStreak:        currentStreak(loggedDates, today),
		TotalHabitsCompleted: totalCompleted,
	}
}

// bestHabit returns the display-capitalized name with the highest cumulative
// count, ties broken by first encounter in scan order. Capitalization is
// presentation only; identity is the exact stored name.
func bestHabit(counts map[string]int, order []string) string {
	if len(counts) == 0 {
		return models.BestHabitNone
	}
	best := ""
	bestCount := 0
	for _, name := range order {
		if counts[name] > bestCount {
			best = name
			bestCount = counts[name]
		}
	}
	return capitalize(best)
}

// currentStreak counts the most recent run of consecutive logged days. A
// streak including today walks backward from today; if today is not yet
// logged but yesterday is, the streak is still alive (one-day grace) and the
// walk starts at yesterday. Otherwise the streak is 0. The walk is bounded by
// the length of the actual contiguous run, not the history size.
func currentStreak(logged map[string]struct{}, today time.Time) int {
	check := today
	if _, ok := logged[check.Format(store.DateFormat)]; !ok {
		check = today.AddDate(0, 0, -1)
		if _, ok := logged[check.Format(store.DateFormat)]; !ok {
			return 0
		}
	}

	streak := 0
	for {
		if _, ok := logged[check.Format(store.DateFormat)]; !ok {
			return streak
		}
		streak++
		check = check.AddDate(0, 0, -1)
	}
}

// TierForStreak maps a streak length onto its discrete tier.
func TierForStreak(streak int) models.StreakTier {
	switch {
	case streak <= 0:
		return models.TierNone
	case streak <= 3:
		return models.TierLow
	case streak <= 7:
		return models.TierMedium
	default:
		return models.TierHigh
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
