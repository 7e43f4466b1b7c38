// Package entries owns the meal-entry collection and its two-phase
// lifecycle: a check-in is created pending after the pre-meal half and
// completed exactly once by the post-meal reflection.
package entries

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"mealcheckin/internal/kvstore"
	"mealcheckin/internal/models"
	"mealcheckin/internal/notify"
)

var (
	ErrNotFound         = errors.New("entry not found")
	ErrAlreadyCompleted = errors.New("entry already completed")
)

// ValidationError rejects an operation before anything is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Store persists all of a user's meal entries as one ordered collection
// under a single key. Every mutation is one load-mutate-save cycle run
// under the backend's per-key lock.
type Store struct {
	kv        kvstore.Store
	key       string
	reminders notify.Scheduler
	now       func() time.Time
}

func NewStore(kv kvstore.Store, key string, reminders notify.Scheduler) *Store {
	return &Store{kv: kv, key: key, reminders: reminders, now: time.Now}
}

// CreatePending validates and appends a phase-1 check-in, then schedules
// its post-meal reminder. Returns the generated entry id.
func (s *Store) CreatePending(ctx context.Context, in models.NewEntryInput) (string, error) {
	if strings.TrimSpace(in.FoodDescription) == "" {
		return "", &ValidationError{Field: "foodDescription", Reason: "must not be empty"}
	}
	if in.ReminderMinutes <= 0 {
		return "", &ValidationError{Field: "reminder_minutes", Reason: "must be a positive number of minutes"}
	}

	now := s.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	entry := models.MealEntry{
		ID:                uuid.NewString(),
		Date:              date,
		MealType:          in.MealType,
		FoodDescription:   in.FoodDescription,
		Emotions:          in.Emotions,
		EnergyLevel:       models.ClampScale(in.EnergyLevel),
		HungerLevel:       models.ClampScale(in.HungerLevel),
		Motivations:       in.Motivations,
		Notes:             in.Notes,
		ReminderMinutes:   in.ReminderMinutes,
		Phase1CompletedAt: now,
		Status:            models.StatusPending,
	}

	err := kvstore.UpdateCollection(ctx, s.kv, s.key, func(items []models.MealEntry) ([]models.MealEntry, error) {
		return append(items, entry), nil
	})
	if err != nil {
		return "", err
	}

	remindAt := entry.Phase1CompletedAt.Add(time.Duration(entry.ReminderMinutes) * time.Minute)
	if err := s.reminders.Schedule(ctx, entry.ID, remindAt); err != nil {
		// The entry is saved; the caller decides what a lost reminder means.
		return entry.ID, fmt.Errorf("entry saved, schedule reminder: %w", err)
	}
	return entry.ID, nil
}

// UpdateFields merges the patch into the entry with the given id. Fields
// left nil are untouched. Works on pending and completed entries alike.
func (s *Store) UpdateFields(ctx context.Context, id string, patch models.EntryPatch) error {
	if patch.FoodDescription != nil && strings.TrimSpace(*patch.FoodDescription) == "" {
		return &ValidationError{Field: "foodDescription", Reason: "must not be empty"}
	}
	return kvstore.UpdateCollection(ctx, s.kv, s.key, func(items []models.MealEntry) ([]models.MealEntry, error) {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			if patch.Date != nil {
				items[i].Date = *patch.Date
			}
			if patch.MealType != nil {
				items[i].MealType = *patch.MealType
			}
			if patch.FoodDescription != nil {
				items[i].FoodDescription = *patch.FoodDescription
			}
			if patch.Notes != nil {
				items[i].Notes = *patch.Notes
			}
			return items, nil
		}
		return nil, ErrNotFound
	})
}

// CompletePhase2 records the post-meal reflection and moves the entry to
// completed. Completing twice fails with ErrAlreadyCompleted and leaves
// the first completion untouched.
func (s *Store) CompletePhase2(ctx context.Context, id string, in models.Phase2Input) error {
	err := kvstore.UpdateCollection(ctx, s.kv, s.key, func(items []models.MealEntry) ([]models.MealEntry, error) {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			if items[i].Status != models.StatusPending {
				return nil, ErrAlreadyCompleted
			}
			completedAt := s.now()
			items[i].Mindfulness = models.ClampScale(in.Mindfulness)
			items[i].EatingSpeed = models.ClampScale(in.EatingSpeed)
			items[i].Energy = models.ClampScale(in.Energy)
			items[i].Fullness = models.ClampScale(in.Fullness)
			items[i].EmotionsAfter = in.EmotionsAfter
			items[i].GoalFulfilled = in.GoalFulfilled
			items[i].CompletionNotes = in.CompletionNotes
			items[i].Status = models.StatusCompleted
			items[i].Phase2CompletedAt = &completedAt
			return items, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return err
	}
	if err := s.reminders.Cancel(ctx, id); err != nil {
		return fmt.Errorf("entry completed, cancel reminder: %w", err)
	}
	return nil
}

// Delete removes the entry permanently. Deleting an unknown id is a no-op.
// A pending entry's outstanding reminder is cancelled.
func (s *Store) Delete(ctx context.Context, id string) error {
	wasPending := false
	err := kvstore.UpdateCollection(ctx, s.kv, s.key, func(items []models.MealEntry) ([]models.MealEntry, error) {
		kept := items[:0]
		for _, e := range items {
			if e.ID == id {
				wasPending = e.Pending()
				continue
			}
			kept = append(kept, e)
		}
		return kept, nil
	})
	if err != nil {
		return err
	}
	if wasPending {
		if err := s.reminders.Cancel(ctx, id); err != nil {
			return fmt.Errorf("entry deleted, cancel reminder: %w", err)
		}
	}
	return nil
}

// ListPending returns pending entries, most recently started first.
func (s *Store) ListPending(ctx context.Context) ([]models.MealEntry, error) {
	items, err := kvstore.LoadCollection[models.MealEntry](ctx, s.kv, s.key)
	if err != nil {
		return nil, err
	}
	pending := make([]models.MealEntry, 0, len(items))
	for _, e := range items {
		if e.Pending() {
			pending = append(pending, e)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Phase1CompletedAt.After(pending[j].Phase1CompletedAt)
	})
	return pending, nil
}

// ListCompleted returns completed entries, most recently completed first.
// With a range, only entries whose completion time falls inside it
// (bounds inclusive) are returned.
func (s *Store) ListCompleted(ctx context.Context, rng *models.DateRange) ([]models.MealEntry, error) {
	items, err := kvstore.LoadCollection[models.MealEntry](ctx, s.kv, s.key)
	if err != nil {
		return nil, err
	}
	completed := make([]models.MealEntry, 0, len(items))
	for _, e := range items {
		if e.Status != models.StatusCompleted || e.Phase2CompletedAt == nil {
			continue
		}
		if rng != nil && !rng.Contains(*e.Phase2CompletedAt) {
			continue
		}
		completed = append(completed, e)
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].Phase2CompletedAt.After(*completed[j].Phase2CompletedAt)
	})
	return completed, nil
}

// Get returns a single entry by id.
func (s *Store) Get(ctx context.Context, id string) (models.MealEntry, error) {
	items, err := kvstore.LoadCollection[models.MealEntry](ctx, s.kv, s.key)
	if err != nil {
		return models.MealEntry{}, err
	}
	for _, e := range items {
		if e.ID == id {
			return e, nil
		}
	}
	return models.MealEntry{}, ErrNotFound
}
