// Package stats derives the insights views from completed entries. All
// functions are pure: they take a snapshot slice and compute on demand, so
// callers may cache results if they care to.
package stats

import (
	"fmt"
	"sort"

	"mealcheckin/internal/models"
)

// AverageEnergyBoost is the mean energy boost across entries. Entries
// missing either energy value contribute 0 to the sum but still count in
// the divisor; that is how the app has always averaged and changing it
// would shift every user's historical number. Empty input averages to 0.
func AverageEnergyBoost(entries []models.MealEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, e := range entries {
		sum += e.EnergyBoost()
	}
	return float64(sum) / float64(len(entries))
}

// TopEnergyBoosts returns up to n entries with a positive boost, biggest
// boost first.
func TopEnergyBoosts(entries []models.MealEntry, n int) []models.MealEntry {
	boosted := make([]models.MealEntry, 0, len(entries))
	for _, e := range entries {
		if e.EnergyBoost() > 0 {
			boosted = append(boosted, e)
		}
	}
	sort.SliceStable(boosted, func(i, j int) bool {
		return boosted[i].EnergyBoost() > boosted[j].EnergyBoost()
	})
	if len(boosted) > n {
		boosted = boosted[:n]
	}
	return boosted
}

// MotivationDistribution tallies each entry's primary motivation. Entries
// with no motivations fall under "Other". Feeds the pie chart.
func MotivationDistribution(entries []models.MealEntry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		motivation := "Other"
		if len(e.Motivations) > 0 {
			motivation = e.Motivations[0]
		}
		counts[motivation]++
	}
	return counts
}

// MoodShiftMeal identifies a meal contributing to a mood shift, for
// drill-down in the client.
type MoodShiftMeal struct {
	MealType string `json:"mealType"`
	Food     string `json:"food"`
}

// MoodShift is a tallied before-to-after transition of primary emotions.
type MoodShift struct {
	Shift string          `json:"shift"`
	Count int             `json:"count"`
	Meals []MoodShiftMeal `json:"meals"`
}

// TopMoodShifts tallies "<before> → <after>" transitions over entries that
// recorded a primary emotion on both sides, and returns the n most common.
// Ties break on the shift key so the result is deterministic.
func TopMoodShifts(entries []models.MealEntry, n int) []MoodShift {
	byKey := make(map[string]*MoodShift)
	for _, e := range entries {
		if len(e.Emotions) == 0 || len(e.EmotionsAfter) == 0 {
			continue
		}
		key := fmt.Sprintf("%s → %s", e.Emotions[0], e.EmotionsAfter[0])
		shift, ok := byKey[key]
		if !ok {
			shift = &MoodShift{Shift: key}
			byKey[key] = shift
		}
		shift.Count++
		if e.MealType != "" && e.FoodDescription != "" {
			shift.Meals = append(shift.Meals, MoodShiftMeal{MealType: e.MealType, Food: e.FoodDescription})
		}
	}

	shifts := make([]MoodShift, 0, len(byKey))
	for _, s := range byKey {
		shifts = append(shifts, *s)
	}
	sort.Slice(shifts, func(i, j int) bool {
		if shifts[i].Count != shifts[j].Count {
			return shifts[i].Count > shifts[j].Count
		}
		return shifts[i].Shift < shifts[j].Shift
	})
	if len(shifts) > n {
		shifts = shifts[:n]
	}
	return shifts
}

// SeriesPoint is one before/after pair on a line chart. Index is the
// x-axis position; one point per entry, no smoothing or resampling.
type SeriesPoint struct {
	Index  int `json:"index"`
	Before int `json:"before"`
	After  int `json:"after"`
}

func series(entries []models.MealEntry, before, after func(models.MealEntry) int) []SeriesPoint {
	points := make([]SeriesPoint, 0, len(entries))
	for i, e := range entries {
		points = append(points, SeriesPoint{Index: i + 1, Before: before(e), After: after(e)})
	}
	return points
}

// EnergySeries plots pre-meal energy against post-meal energy.
func EnergySeries(entries []models.MealEntry) []SeriesPoint {
	return series(entries,
		func(e models.MealEntry) int { return e.EnergyLevel },
		func(e models.MealEntry) int { return e.Energy })
}

// HungerFullnessSeries plots pre-meal hunger against post-meal fullness.
func HungerFullnessSeries(entries []models.MealEntry) []SeriesPoint {
	return series(entries,
		func(e models.MealEntry) int { return e.HungerLevel },
		func(e models.MealEntry) int { return e.Fullness })
}

// EatingStyleSeries plots mindfulness against eating speed.
func EatingStyleSeries(entries []models.MealEntry) []SeriesPoint {
	return series(entries,
		func(e models.MealEntry) int { return e.Mindfulness },
		func(e models.MealEntry) int { return e.EatingSpeed })
}
