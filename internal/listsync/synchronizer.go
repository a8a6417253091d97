// Package listsync keeps a local, ordered copy of the todo list in step with
// the row-store.
//
// Local state changes only after the row-store confirms a call. There is no
// rollback path, so nothing is applied optimistically: a failed call leaves
// the list exactly as it was.
//
// The list mutex is never held across a remote call. Two operations racing on
// the same id each patch whatever list exists when their response arrives;
// the last response wins and the outcome is not otherwise ordered.
package listsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/store"
)

// ErrEmptyTitle is returned by Create for a blank title. No remote call is made.
var ErrEmptyTitle = errors.New("empty title")

// Messages shown to the user.
const (
	MsgLoadFailed   = "Failed to load todos"
	MsgAdded        = "Todo added"
	MsgAddFailed    = "Failed to add todo"
	MsgUpdateFailed = "Failed to update todo"
	MsgDeleted      = "Todo deleted"
	MsgDeleteFailed = "Failed to delete todo"
)

type Synchronizer struct {
	table  store.Table
	notify Notifier
	log    *slog.Logger

	mu      sync.Mutex
	items   []model.Item
	loading bool
}

// New wires a Synchronizer to table. A nil notifier or logger discards.
func New(table store.Table, n Notifier, log *slog.Logger) *Synchronizer {
	if n == nil {
		n = discard{}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Synchronizer{table: table, notify: n, log: log, items: []model.Item{}}
}

// Items returns a copy of the list, newest first.
func (s *Synchronizer) Items() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Loading reports whether a Load is in flight.
func (s *Synchronizer) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Synchronizer) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Load replaces the whole list with the table's rows, newest first.
func (s *Synchronizer) Load(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	items, err := s.table.Select(ctx, store.NewestFirst)
	if err != nil {
		return s.fail("fetch todos", MsgLoadFailed, err)
	}
	if items == nil {
		items = []model.Item{}
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	s.log.Debug("loaded todos", "count", len(items))
	return nil
}

// Create inserts a row with title as given (not trimmed) and prepends the
// stored item. Callers should clear their input only when err is nil.
func (s *Synchronizer) Create(ctx context.Context, title string) (model.Item, error) {
	if strings.TrimSpace(title) == "" {
		return model.Item{}, ErrEmptyTitle
	}
	it, err := s.table.Insert(ctx, model.NewItem{Title: title, IsComplete: false})
	if err != nil {
		return model.Item{}, s.fail("add todo", MsgAddFailed, err)
	}

	s.mu.Lock()
	next := make([]model.Item, 0, len(s.items)+1)
	next = append(next, it)
	s.items = append(next, s.items...)
	s.mu.Unlock()

	s.log.Debug("added todo", "id", it.ID)
	s.notify.Notify(Notification{Level: LevelSuccess, Message: MsgAdded})
	return it, nil
}

// Toggle sets is_complete to !current for id and flips the local copy.
func (s *Synchronizer) Toggle(ctx context.Context, id int64, current bool) error {
	if err := s.table.Update(ctx, id, store.SetComplete(!current)); err != nil {
		return s.fail("update todo", MsgUpdateFailed, err, "id", id)
	}

	s.mu.Lock()
	next := make([]model.Item, len(s.items))
	for i, it := range s.items {
		if it.ID == id {
			it.IsComplete = !current
		}
		next[i] = it
	}
	s.items = next
	s.mu.Unlock()

	s.log.Debug("updated todo", "id", id, "is_complete", !current)
	return nil
}

// Remove deletes id and drops it from the list, keeping the order of the rest.
func (s *Synchronizer) Remove(ctx context.Context, id int64) error {
	if err := s.table.Delete(ctx, id); err != nil {
		return s.fail("delete todo", MsgDeleteFailed, err, "id", id)
	}

	s.mu.Lock()
	next := make([]model.Item, 0, len(s.items))
	for _, it := range s.items {
		if it.ID != id {
			next = append(next, it)
		}
	}
	s.items = next
	s.mu.Unlock()

	s.log.Debug("deleted todo", "id", id)
	s.notify.Notify(Notification{Level: LevelSuccess, Message: MsgDeleted})
	return nil
}

func (s *Synchronizer) fail(op, msg string, err error, attrs ...any) error {
	s.log.Error(op, append(attrs, "err", err)...)
	s.notify.Notify(Notification{Level: LevelError, Message: msg})
	return fmt.Errorf("%s: %w", op, err)
}
