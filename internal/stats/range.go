package stats

import (
	"fmt"
	"time"

	"mealcheckin/internal/models"
)

// Period selects the insights window.
type Period string

const (
	PeriodWeek    Period = "week"  // Monday through Sunday of the current week
	PeriodMonth   Period = "month" // calendar month
	PeriodAllTime Period = "all"
)

// ParsePeriod maps the client's filter value, defaulting to the week view.
func ParsePeriod(s string) Period {
	switch s {
	case string(PeriodMonth):
		return PeriodMonth
	case string(PeriodAllTime):
		return PeriodAllTime
	default:
		return PeriodWeek
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfWeek(t time.Time) time.Time {
	// Monday-based week.
	offset := (int(t.Weekday()) + 6) % 7
	return startOfDay(t).AddDate(0, 0, -offset)
}

// Resolve turns a period into a concrete inclusive range anchored at now.
// AllTime has no bounds and resolves to nil.
func (p Period) Resolve(now time.Time) *models.DateRange {
	switch p {
	case PeriodWeek:
		start := startOfWeek(now)
		return &models.DateRange{Start: start, End: start.AddDate(0, 0, 7).Add(-time.Nanosecond)}
	case PeriodMonth:
		y, m, _ := now.Date()
		start := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
		return &models.DateRange{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}
	default:
		return nil
	}
}

// RangeLabel renders the resolved window the way the insights header shows
// it. For the all-time view the label spans the completed entries, or a
// "no entries" sentinel when there are none.
func RangeLabel(p Period, now time.Time, completed []models.MealEntry) string {
	switch p {
	case PeriodWeek:
		start := startOfWeek(now)
		end := start.AddDate(0, 0, 6)
		return fmt.Sprintf("%s - %s", start.Format("2 Jan"), end.Format("2 Jan, 2006"))
	case PeriodMonth:
		return now.Format("January 2006")
	default:
		if len(completed) == 0 {
			return "No entries yet"
		}
		first, last := completed[0].Date, completed[0].Date
		for _, e := range completed[1:] {
			if e.Date.Before(first) {
				first = e.Date
			}
			if e.Date.After(last) {
				last = e.Date
			}
		}
		return fmt.Sprintf("%s - %s", first.Format("2 Jan, 2006"), last.Format("2 Jan, 2006"))
	}
}
