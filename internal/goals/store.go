// Package goals owns the user's intention set: picks from the fixed
// catalog, ordered by priority, plus free-text custom intentions.
package goals

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"mealcheckin/internal/kvstore"
	"mealcheckin/internal/models"
)

// ValidationError rejects a goal mutation before anything is written.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// storedGoalSet tolerates the legacy on-device shape where custom was a
// bare string instead of a list.
type storedGoalSet struct {
	Selected []string        `json:"selected"`
	Custom   json.RawMessage `json:"custom"`
}

func decodeGoalSet(data []byte) (models.GoalSet, error) {
	set := models.GoalSet{Selected: []string{}, Custom: []string{}}
	if len(data) == 0 {
		return set, nil
	}
	var stored storedGoalSet
	if err := json.Unmarshal(data, &stored); err != nil {
		return set, fmt.Errorf("decode goal set: %w", err)
	}
	if stored.Selected != nil {
		set.Selected = stored.Selected
	}
	if len(stored.Custom) > 0 {
		var list []string
		if err := json.Unmarshal(stored.Custom, &list); err == nil {
			set.Custom = list
		} else {
			// Older app versions stored a single string here.
			var single string
			if err := json.Unmarshal(stored.Custom, &single); err != nil {
				return set, fmt.Errorf("decode custom goals: %w", err)
			}
			if single != "" {
				set.Custom = []string{single}
			}
		}
	}
	return set, nil
}

// Store persists one GoalSet under a single key, as the entry store does
// for meal entries.
type Store struct {
	kv  kvstore.Store
	key string
}

func NewStore(kv kvstore.Store, key string) *Store {
	return &Store{kv: kv, key: key}
}

// Load returns the stored set, normalized: custom is always a list, even
// for data written by app versions that stored a bare string.
func (s *Store) Load(ctx context.Context) (models.GoalSet, error) {
	data, err := s.kv.Load(ctx, s.key)
	if err != nil {
		return models.GoalSet{}, err
	}
	return decodeGoalSet(data)
}

// Save replaces the stored set.
func (s *Store) Save(ctx context.Context, set models.GoalSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("encode goal set: %w", err)
	}
	return s.kv.Save(ctx, s.key, data)
}

func (s *Store) update(ctx context.Context, fn func(set models.GoalSet) (models.GoalSet, error)) error {
	return s.kv.Update(ctx, s.key, func(old []byte) ([]byte, error) {
		set, err := decodeGoalSet(old)
		if err != nil {
			return nil, err
		}
		next, err := fn(set)
		if err != nil {
			return nil, err
		}
		return json.Marshal(next)
	})
}

// ToggleSelected adds the goal if absent and removes it if present. The
// goal must come from the fixed catalog.
func (s *Store) ToggleSelected(ctx context.Context, goal string) error {
	if !InCatalog(goal) {
		return &ValidationError{Reason: "goal is not in the catalog"}
	}
	return s.update(ctx, func(set models.GoalSet) (models.GoalSet, error) {
		for i, g := range set.Selected {
			if g == goal {
				set.Selected = append(set.Selected[:i], set.Selected[i+1:]...)
				return set, nil
			}
		}
		set.Selected = append(set.Selected, goal)
		return set, nil
	})
}

// AddCustom appends a free-text intention. Duplicates are allowed; empty
// text is not.
func (s *Store) AddCustom(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return &ValidationError{Reason: "custom goal must not be empty"}
	}
	return s.update(ctx, func(set models.GoalSet) (models.GoalSet, error) {
		set.Custom = append(set.Custom, text)
		return set, nil
	})
}

// RemoveCustom deletes the custom intention at index.
func (s *Store) RemoveCustom(ctx context.Context, index int) error {
	return s.update(ctx, func(set models.GoalSet) (models.GoalSet, error) {
		if index < 0 || index >= len(set.Custom) {
			return set, &ValidationError{Reason: "custom goal index out of range"}
		}
		set.Custom = append(set.Custom[:index], set.Custom[index+1:]...)
		return set, nil
	})
}

// ReorderSelected replaces the priority order. The new order must contain
// exactly the currently selected goals; reordering cannot add or drop.
func (s *Store) ReorderSelected(ctx context.Context, newOrder []string) error {
	return s.update(ctx, func(set models.GoalSet) (models.GoalSet, error) {
		if len(newOrder) != len(set.Selected) {
			return set, &ValidationError{Reason: "reorder must keep the same goals"}
		}
		current := make(map[string]int, len(set.Selected))
		for _, g := range set.Selected {
			current[g]++
		}
		for _, g := range newOrder {
			current[g]--
			if current[g] < 0 {
				return set, &ValidationError{Reason: "reorder must keep the same goals"}
			}
		}
		set.Selected = append([]string(nil), newOrder...)
		return set, nil
	})
}
