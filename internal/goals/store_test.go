package goals

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealcheckin/internal/kvstore"
	"mealcheckin/internal/models"
)

const testKey = "user:test:user_goals"

func newTestStore(t *testing.T) (*Store, kvstore.Store) {
	t.Helper()
	kv, err := kvstore.NewFile(t.TempDir())
	require.NoError(t, err)
	return NewStore(kv, testKey), kv
}

func TestLoad_NeverSaved(t *testing.T) {
	store, _ := newTestStore(t)
	set, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, set.Selected)
	assert.Empty(t, set.Custom)
}

func TestLoad_NormalizesLegacyCustomString(t *testing.T) {
	store, kv := newTestStore(t)
	ctx := context.Background()

	// Older app versions stored custom as a bare string.
	legacy := `{"selected":["I want to eat without guilt."],"custom":"eat slower on weekdays"}`
	require.NoError(t, kv.Save(ctx, testKey, []byte(legacy)))

	set, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"I want to eat without guilt."}, set.Selected)
	assert.Equal(t, []string{"eat slower on weekdays"}, set.Custom)
}

func TestLoad_EmptyLegacyCustomString(t *testing.T) {
	store, kv := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, kv.Save(ctx, testKey, []byte(`{"selected":[],"custom":""}`)))

	set, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, set.Custom)
}

func TestToggleSelected(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	goal := Catalog[0].Items[0]

	require.NoError(t, store.ToggleSelected(ctx, goal))
	set, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{goal}, set.Selected)

	// Toggling again removes, never duplicates.
	require.NoError(t, store.ToggleSelected(ctx, goal))
	set, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, set.Selected)
}

func TestToggleSelected_RejectsUnknownGoal(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.ToggleSelected(context.Background(), "I want to win the lottery.")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestAddRemoveCustom(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddCustom(ctx, "  eat breakfast sitting down  "))
	require.NoError(t, store.AddCustom(ctx, "no screens at dinner"))
	// Custom goals are free text; duplicates stay.
	require.NoError(t, store.AddCustom(ctx, "no screens at dinner"))

	set, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"eat breakfast sitting down",
		"no screens at dinner",
		"no screens at dinner",
	}, set.Custom)

	require.NoError(t, store.RemoveCustom(ctx, 1))
	set, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"eat breakfast sitting down", "no screens at dinner"}, set.Custom)
}

func TestAddCustom_RejectsEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	var vErr *ValidationError
	require.ErrorAs(t, store.AddCustom(context.Background(), "   "), &vErr)
}

func TestRemoveCustom_IndexOutOfRange(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.AddCustom(ctx, "one"))

	var vErr *ValidationError
	require.ErrorAs(t, store.RemoveCustom(ctx, 1), &vErr)
	require.ErrorAs(t, store.RemoveCustom(ctx, -1), &vErr)
}

func TestReorderSelected(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	first, second := Catalog[0].Items[0], Catalog[1].Items[0]
	require.NoError(t, store.ToggleSelected(ctx, first))
	require.NoError(t, store.ToggleSelected(ctx, second))

	require.NoError(t, store.ReorderSelected(ctx, []string{second, first}))
	set, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{second, first}, set.Selected)
}

func TestReorderSelected_MustBePermutation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	first, second := Catalog[0].Items[0], Catalog[1].Items[0]
	require.NoError(t, store.ToggleSelected(ctx, first))

	var vErr *ValidationError
	// Sneaking in a goal through reorder is rejected.
	require.ErrorAs(t, store.ReorderSelected(ctx, []string{second}), &vErr)
	// So is dropping or duplicating one.
	require.ErrorAs(t, store.ReorderSelected(ctx, nil), &vErr)
	require.ErrorAs(t, store.ReorderSelected(ctx, []string{first, first}), &vErr)

	set, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{first}, set.Selected)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	want := models.GoalSet{
		Selected: []string{Catalog[2].Items[0], Catalog[0].Items[1]},
		Custom:   []string{"cook twice a week"},
	}
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
