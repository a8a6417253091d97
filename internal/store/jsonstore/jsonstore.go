package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/store"
)

// JSON-backed table. Single file, human-readable, portable.
// The mutex only serializes callers inside one process.

const DefaultFileName = "todos.json"

type Store struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for created_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a table stored at path. An empty path means todos.json in the
// working directory.
func New(path string, opts ...Option) (*Store, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = filepath.Join(wd, DefaultFileName)
	}
	s := &Store{path: path, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Select(_ context.Context, order store.Order) ([]model.Item, error) {
	if err := order.Validate(); err != nil {
		return nil, &store.Error{Op: "select", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return nil, &store.Error{Op: "select", Err: err}
	}
	sortItems(items, order)
	return items, nil
}

func (s *Store) Insert(_ context.Context, row model.NewItem) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return model.Item{}, &store.Error{Op: "insert", Err: err}
	}
	var next int64 = 1
	for _, it := range items {
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	it := model.Item{
		ID:         next,
		Title:      row.Title,
		IsComplete: row.IsComplete,
		CreatedAt:  s.now().UTC(),
	}
	items = append(items, it)
	if err := s.save(items); err != nil {
		return model.Item{}, &store.Error{Op: "insert", Err: err}
	}
	return it, nil
}

func (s *Store) Update(_ context.Context, id int64, patch store.Patch) error {
	if patch.Empty() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return &store.Error{Op: "update", Err: err}
	}
	changed := false
	for i := range items {
		if items[i].ID == id {
			items[i].IsComplete = *patch.IsComplete
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := s.save(items); err != nil {
		return &store.Error{Op: "update", Err: err}
	}
	return nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return &store.Error{Op: "delete", Err: err}
	}
	out := items[:0]
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	if len(out) == len(items) {
		return nil
	}
	if err := s.save(out); err != nil {
		return &store.Error{Op: "delete", Err: err}
	}
	return nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return 0, &store.Error{Op: "count", Err: err}
	}
	return len(items), nil
}

func (s *Store) load() ([]model.Item, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Item{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var items []model.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

func (s *Store) save(items []model.Item) error {
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func sortItems(items []model.Item, order store.Order) {
	less := func(a, b model.Item) bool {
		switch order.Column {
		case store.ColumnTitle:
			return a.Title < b.Title
		case store.ColumnIsComplete:
			return !a.IsComplete && b.IsComplete
		case store.ColumnCreatedAt:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		}
		return a.ID < b.ID
	}
	sort.SliceStable(items, func(i, j int) bool {
		if order.Ascending {
			return less(items[i], items[j])
		}
		return less(items[j], items[i])
	})
}
