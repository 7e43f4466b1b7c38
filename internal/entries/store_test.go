package entries

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealcheckin/internal/kvstore"
	"mealcheckin/internal/models"
)

type fakeScheduler struct {
	scheduled map[string]time.Time
	cancelled []string
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{scheduled: make(map[string]time.Time)}
}

func (f *fakeScheduler) Schedule(_ context.Context, entryID string, at time.Time) error {
	f.scheduled[entryID] = at
	return nil
}

func (f *fakeScheduler) Cancel(_ context.Context, entryID string) error {
	f.cancelled = append(f.cancelled, entryID)
	return nil
}

func newTestStore(t *testing.T) (*Store, *fakeScheduler) {
	t.Helper()
	kv, err := kvstore.NewFile(t.TempDir())
	require.NoError(t, err)
	sched := newFakeScheduler()
	return NewStore(kv, "user:test:pending_entries", sched), sched
}

func oatmealInput() models.NewEntryInput {
	return models.NewEntryInput{
		MealType:        models.MealBreakfast,
		FoodDescription: "oatmeal",
		Emotions:        []string{"Calm"},
		EnergyLevel:     4,
		HungerLevel:     7,
		Motivations:     []string{"Hunger"},
		ReminderMinutes: 30,
	}
}

func TestCreatePending_RequiresFoodDescription(t *testing.T) {
	store, _ := newTestStore(t)

	in := oatmealInput()
	in.FoodDescription = "   "
	_, err := store.CreatePending(context.Background(), in)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "foodDescription", vErr.Field)

	// Failed validation must not touch the collection.
	pending, err := store.ListPending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCreatePending_RequiresPositiveReminder(t *testing.T) {
	store, _ := newTestStore(t)

	in := oatmealInput()
	in.ReminderMinutes = 0
	_, err := store.CreatePending(context.Background(), in)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestCreatePending_IDsAreUnique(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 25; i++ {
		id, err := store.CreatePending(ctx, oatmealInput())
		require.NoError(t, err)
		assert.False(t, seen[id], "id %q issued twice", id)
		seen[id] = true
	}
}

func TestCreatePending_ClampsScales(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	in := oatmealInput()
	in.EnergyLevel = 27
	in.HungerLevel = -3
	id, err := store.CreatePending(ctx, in)
	require.NoError(t, err)

	entry, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, entry.EnergyLevel)
	assert.Equal(t, 0, entry.HungerLevel)
}

func TestCreatePending_SchedulesReminder(t *testing.T) {
	store, sched := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreatePending(ctx, oatmealInput())
	require.NoError(t, err)

	entry, err := store.Get(ctx, id)
	require.NoError(t, err)

	at, ok := sched.scheduled[id]
	require.True(t, ok, "reminder not scheduled")
	assert.Equal(t, entry.Phase1CompletedAt.Add(30*time.Minute), at)
}

func TestRoundTrip_FieldForField(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	in := oatmealInput()
	in.Date = time.Date(2026, 8, 30, 8, 15, 0, 0, time.UTC)
	in.Notes = "ate on the balcony"
	id, err := store.CreatePending(ctx, in)
	require.NoError(t, err)

	entry, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, entry.ID)
	assert.True(t, entry.Date.Equal(in.Date))
	assert.Equal(t, in.MealType, entry.MealType)
	assert.Equal(t, in.FoodDescription, entry.FoodDescription)
	assert.Equal(t, in.Emotions, entry.Emotions)
	assert.Equal(t, in.EnergyLevel, entry.EnergyLevel)
	assert.Equal(t, in.HungerLevel, entry.HungerLevel)
	assert.Equal(t, in.Motivations, entry.Motivations)
	assert.Equal(t, in.Notes, entry.Notes)
	assert.Equal(t, in.ReminderMinutes, entry.ReminderMinutes)
	assert.Equal(t, models.StatusPending, entry.Status)
	assert.Nil(t, entry.Phase2CompletedAt)
}

func TestFullLifecycle(t *testing.T) {
	store, sched := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreatePending(ctx, oatmealInput())
	require.NoError(t, err)

	pending, err := store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].ID)
	assert.Equal(t, models.StatusPending, pending[0].Status)

	err = store.CompletePhase2(ctx, id, models.Phase2Input{
		Energy:        7,
		Fullness:      8,
		Mindfulness:   6,
		EatingSpeed:   5,
		EmotionsAfter: []string{"Content"},
		GoalFulfilled: models.GoalFulfilledYes,
	})
	require.NoError(t, err)

	pending, err = store.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	completed, err := store.ListCompleted(ctx, nil)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, id, completed[0].ID)
	assert.Equal(t, models.StatusCompleted, completed[0].Status)
	require.NotNil(t, completed[0].Phase2CompletedAt)
	assert.Equal(t, 3, completed[0].EnergyBoost())

	assert.Equal(t, []string{id}, sched.cancelled)
}

func TestCompletePhase2_TwiceFails(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreatePending(ctx, oatmealInput())
	require.NoError(t, err)

	first := models.Phase2Input{Energy: 7, Fullness: 8, EmotionsAfter: []string{"Content"}}
	require.NoError(t, store.CompletePhase2(ctx, id, first))

	err = store.CompletePhase2(ctx, id, models.Phase2Input{Energy: 2, Fullness: 1})
	assert.ErrorIs(t, err, ErrAlreadyCompleted)

	// The first completion's fields are untouched.
	entry, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 7, entry.Energy)
	assert.Equal(t, 8, entry.Fullness)
	assert.Equal(t, []string{"Content"}, entry.EmotionsAfter)
}

func TestCompletePhase2_UnknownID(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.CompletePhase2(context.Background(), "nope", models.Phase2Input{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateFields_MergesAndLeavesRestAlone(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreatePending(ctx, oatmealInput())
	require.NoError(t, err)

	lunch := models.MealLunch
	newDate := time.Date(2026, 8, 29, 13, 0, 0, 0, time.UTC)
	err = store.UpdateFields(ctx, id, models.EntryPatch{MealType: &lunch, Date: &newDate})
	require.NoError(t, err)

	entry, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.MealLunch, entry.MealType)
	assert.True(t, entry.Date.Equal(newDate))
	assert.Equal(t, "oatmeal", entry.FoodDescription)
	assert.Equal(t, 4, entry.EnergyLevel)
}

func TestUpdateFields_UnknownID(t *testing.T) {
	store, _ := newTestStore(t)
	desc := "toast"
	err := store.UpdateFields(context.Background(), "nope", models.EntryPatch{FoodDescription: &desc})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateFields_RejectsEmptyFoodDescription(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreatePending(ctx, oatmealInput())
	require.NoError(t, err)

	empty := ""
	err = store.UpdateFields(ctx, id, models.EntryPatch{FoodDescription: &empty})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestDelete_IsIdempotent(t *testing.T) {
	store, sched := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreatePending(ctx, oatmealInput())
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "does-not-exist"))

	pending, err := store.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Empty(t, sched.cancelled)

	require.NoError(t, store.Delete(ctx, id))
	require.NoError(t, store.Delete(ctx, id))

	pending, err = store.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Equal(t, []string{id}, sched.cancelled)
}

func TestListPending_MostRecentlyStartedFirst(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(2 * time.Hour), base.Add(time.Hour)}
	ids := make([]string, len(times))
	for i, ts := range times {
		store.now = func() time.Time { return ts }
		id, err := store.CreatePending(ctx, oatmealInput())
		require.NoError(t, err)
		ids[i] = id
	}

	pending, err := store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, ids[1], pending[0].ID)
	assert.Equal(t, ids[2], pending[1].ID)
	assert.Equal(t, ids[0], pending[2].ID)
}

func TestListCompleted_RangeIsInclusive(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	complete := func(completedAt time.Time) string {
		store.now = time.Now
		id, err := store.CreatePending(ctx, oatmealInput())
		require.NoError(t, err)
		store.now = func() time.Time { return completedAt }
		require.NoError(t, store.CompletePhase2(ctx, id, models.Phase2Input{Energy: 5}))
		return id
	}

	day := func(d int) time.Time { return time.Date(2026, 8, d, 12, 0, 0, 0, time.UTC) }
	early := complete(day(10))
	inRangeLow := complete(day(12))
	inRangeHigh := complete(day(14))
	late := complete(day(20))

	rng := &models.DateRange{Start: day(12), End: day(14)}
	completed, err := store.ListCompleted(ctx, rng)
	require.NoError(t, err)

	got := make([]string, len(completed))
	for i, e := range completed {
		got[i] = e.ID
	}
	// Descending by completion time, bounds included.
	assert.Equal(t, []string{inRangeHigh, inRangeLow}, got)
	assert.NotContains(t, got, early)
	assert.NotContains(t, got, late)
}
