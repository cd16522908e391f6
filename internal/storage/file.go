package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dogjoy/miniapp/internal/metrics"
)

// File is a YAML map on disk, rewritten on every change.
type File struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// OpenFile loads path, creating its directory when needed. A missing file
// is an empty store.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("file store: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	f := &File{path: path, values: make(map[string]string)}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("read store: %w", err)
	}

	if err := yaml.Unmarshal(data, &f.values); err != nil {
		return nil, fmt.Errorf("parse store %s: %w", path, err)
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	return f, nil
}

func (f *File) Path() string { return f.path }

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if old, ok := f.values[key]; ok && old == value {
		return nil
	}
	next := maps.Clone(f.values)
	next[key] = value
	return f.commit(next)
}

func (f *File) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; !ok {
		return nil
	}
	next := maps.Clone(f.values)
	delete(next, key)
	return f.commit(next)
}

func (f *File) Close() error { return nil }

// commit makes next the store contents once it is on disk. A failed write
// leaves both the file and the map unchanged.
func (f *File) commit(next map[string]string) error {
	if err := f.flush(next); err != nil {
		return err
	}
	f.values = next
	return nil
}

// flush writes through a temp file so a crash never leaves half a store.
func (f *File) flush(values map[string]string) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		metrics.StoreErrors.WithLabelValues(DriverFile, "marshal").Inc()
		return fmt.Errorf("marshal store: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		metrics.StoreErrors.WithLabelValues(DriverFile, "write").Inc()
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		metrics.StoreErrors.WithLabelValues(DriverFile, "write").Inc()
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}
