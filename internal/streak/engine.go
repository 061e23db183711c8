// Package streak derives streak and completion statistics from a habit's
// completed day keys. It performs no I/O and never fails.
package streak

import (
	"math"
	"slices"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// DaySet is a set of day keys
type DaySet map[string]struct{}

// NewDaySet builds a set from a list of day keys
func NewDaySet(days []string) DaySet {
	set := make(DaySet, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}
	return set
}

// Has reports whether day is in the set
func (s DaySet) Has(day string) bool {
	_, ok := s[day]
	return ok
}

// Engine computes HabitStats against an injected clock
type Engine struct {
	clock utils.Clock
}

// New creates a new Engine reading "now" from clock
func New(clock utils.Clock) *Engine {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &Engine{clock: clock}
}

// Stats returns the statistics for h as of the engine clock's current instant
func (e *Engine) Stats(h models.Habit) models.HabitStats {
	return Calculate(h, e.clock.Now())
}

// Calculate returns the statistics for h as of now
func Calculate(h models.Habit, now time.Time) models.HabitStats {
	total := len(h.CompletedDates)
	return models.HabitStats{
		CurrentStreak:    CurrentStreak(NewDaySet(h.CompletedDates), now),
		LongestStreak:    LongestStreak(h.CompletedDates),
		CompletionRate:   CompletionRate(total, h.CreatedAt, now),
		TotalCompletions: total,
	}
}

// CurrentStreak counts consecutive completed days ending today. If today is not
// yet completed the run may end yesterday instead. The backward walk inspects at
// most MaxStreakLookback days before the anchor day.
func CurrentStreak(completed DaySet, now time.Time) int {
	done := func(daysAgo int) bool {
		return completed.Has(utils.DayKeyOf(now.AddDate(0, 0, -daysAgo)))
	}

	var next int
	switch {
	case done(0):
		next = 1
	case done(1):
		next = 2
	default:
		return 0
	}

	streak := 1
	for i := next; i <= constants.MaxStreakLookback; i++ {
		if !done(i) {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak returns the length of the longest run of consecutive days among
// the distinct valid day keys in days. Order and duplicates in the input are ignored.
func LongestStreak(days []string) int {
	sorted := make([]string, 0, len(days))
	for _, d := range days {
		if utils.ValidateDayKey(d) {
			sorted = append(sorted, d)
		}
	}
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	longest, run := 0, 0
	for i, d := range sorted {
		if i == 0 {
			run = 1
		} else if gap, err := utils.DaysBetween(sorted[i-1], d); err == nil && gap == 1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

// CompletionRate returns completions as a rounded percentage of whole days since
// createdAt, counting at least one day. The result is not capped at 100.
func CompletionRate(totalCompletions int, createdAt, now time.Time) int {
	days := max(1, int(now.Sub(createdAt)/(24*time.Hour)))
	return int(math.Round(float64(totalCompletions) / float64(days) * 100))
}
