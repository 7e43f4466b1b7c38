package kvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// File stores each key as <dir>/<key>.json. Writes go to a temp file which
// is then renamed over the target, so readers never see a partial blob.
type File struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFile creates the base directory if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrUnavailable, dir, err)
	}
	return &File{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

func (f *File) keyLock(key string) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.locks[key]
	if !ok {
		l = &sync.Mutex{}
		f.locks[key] = l
	}
	return l
}

func (f *File) path(key string) string {
	// Keys like "user:<id>:pending_entries" become flat file names.
	name := strings.ReplaceAll(key, string(filepath.Separator), "_")
	return filepath.Join(f.dir, name+".json")
}

func (f *File) Load(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, key, err)
	}
	return data, nil
}

func (f *File) Save(ctx context.Context, key string, value []byte) error {
	lock := f.keyLock(key)
	lock.Lock()
	defer lock.Unlock()
	return f.write(key, value)
}

func (f *File) Update(ctx context.Context, key string, fn func(old []byte) ([]byte, error)) error {
	lock := f.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	old, err := os.ReadFile(f.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("%w: read %s: %v", ErrUnavailable, key, err)
		}
		old = nil
	}
	next, err := fn(old)
	if err != nil {
		return err
	}
	return f.write(key, next)
}

func (f *File) write(key string, value []byte) error {
	path := f.path(key)
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: temp for %s: %v", ErrUnavailable, key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", ErrUnavailable, key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename %s: %v", ErrUnavailable, key, err)
	}
	return nil
}
