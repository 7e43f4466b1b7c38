package stats

import (
	"sort"
	"time"

	"mealcheckin/internal/models"
)

// calendarDay collapses a timestamp to its calendar date. Comparing these
// UTC midnights counts whole-day gaps regardless of clock time or DST.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(later, earlier time.Time) int {
	return int(calendarDay(later).Sub(calendarDay(earlier)).Hours() / 24)
}

// Streak counts consecutive calendar days with at least one completed
// entry, ending today or yesterday relative to asOf. The day comes from
// the entry's meal date, not its completion time. An older most-recent day
// means the streak is broken: 0.
func Streak(completed []models.MealEntry, asOf time.Time) int {
	if len(completed) == 0 {
		return 0
	}

	seen := make(map[time.Time]struct{}, len(completed))
	days := make([]time.Time, 0, len(completed))
	for _, e := range completed {
		day := calendarDay(e.Date)
		if _, ok := seen[day]; !ok {
			seen[day] = struct{}{}
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	if daysBetween(asOf, days[0]) > 1 {
		return 0
	}
	streak := 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i-1], days[i]) != 1 {
			break
		}
		streak++
	}
	return streak
}
