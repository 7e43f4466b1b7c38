package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// LoadCollection decodes the sequence stored under key. A key that was
// never written yields an empty slice, not an error.
func LoadCollection[T any](ctx context.Context, s Store, key string) ([]T, error) {
	data, err := s.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode collection %s: %w", key, err)
	}
	return items, nil
}

// SaveCollection replaces the sequence stored under key.
func SaveCollection[T any](ctx context.Context, s Store, key string, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", key, err)
	}
	return s.Save(ctx, key, data)
}

// UpdateCollection applies fn to the stored sequence under the key's write
// lock and persists the result in one save.
func UpdateCollection[T any](ctx context.Context, s Store, key string, fn func(items []T) ([]T, error)) error {
	return s.Update(ctx, key, func(old []byte) ([]byte, error) {
		var items []T
		if len(old) > 0 {
			if err := json.Unmarshal(old, &items); err != nil {
				return nil, fmt.Errorf("decode collection %s: %w", key, err)
			}
		}
		next, err := fn(items)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("encode collection %s: %w", key, err)
		}
		return data, nil
	})
}
