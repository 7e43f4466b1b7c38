package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mealcheckin/internal/models"
)

func completedOn(days ...time.Time) []models.MealEntry {
	entries := make([]models.MealEntry, 0, len(days))
	for _, d := range days {
		entries = append(entries, models.MealEntry{
			Date:   d,
			Status: models.StatusCompleted,
		})
	}
	return entries
}

func TestStreak_Empty(t *testing.T) {
	assert.Equal(t, 0, Streak(nil, time.Now()))
	assert.Equal(t, 0, Streak([]models.MealEntry{}, time.Now()))
}

func TestStreak_ConsecutiveDays(t *testing.T) {
	today := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	entries := completedOn(today, today.AddDate(0, 0, -1), today.AddDate(0, 0, -2))
	assert.Equal(t, 3, Streak(entries, today))
}

func TestStreak_GapBreaks(t *testing.T) {
	today := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	entries := completedOn(today, today.AddDate(0, 0, -2))
	assert.Equal(t, 1, Streak(entries, today))
}

func TestStreak_StaleReturnsZero(t *testing.T) {
	today := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	entries := completedOn(today.AddDate(0, 0, -2))
	assert.Equal(t, 0, Streak(entries, today))
}

func TestStreak_YesterdayStillCounts(t *testing.T) {
	today := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	entries := completedOn(today.AddDate(0, 0, -1), today.AddDate(0, 0, -2))
	assert.Equal(t, 2, Streak(entries, today))
}

func TestStreak_MultipleEntriesPerDayCountOnce(t *testing.T) {
	today := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	entries := completedOn(
		today,
		today.Add(4*time.Hour),
		today.AddDate(0, 0, -1),
	)
	assert.Equal(t, 2, Streak(entries, today))
}

func TestStreak_ClockTimeIrrelevant(t *testing.T) {
	// Late evening yesterday to early morning today is one calendar day
	// apart even though less than 24 hours passed.
	today := time.Date(2026, 8, 31, 0, 30, 0, 0, time.UTC)
	yesterday := time.Date(2026, 8, 30, 23, 45, 0, 0, time.UTC)
	entries := completedOn(today, yesterday)
	assert.Equal(t, 2, Streak(entries, today))
}
