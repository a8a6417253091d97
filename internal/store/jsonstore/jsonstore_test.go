package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/store"
)

var _ store.Table = (*Store)(nil)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	n := 0
	s, err := New(filepath.Join(t.TempDir(), DefaultFileName), WithClock(func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}))
	require.NoError(t, err)
	return s
}

func TestMissingFileIsEmptyTable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	items, err := s.Select(ctx, store.NewestFirst)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestInsertAssignsIDAndTimestamp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.Insert(ctx, model.NewItem{Title: "A"})
	require.NoError(t, err)
	b, err := s.Insert(ctx, model.NewItem{Title: "B"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.True(t, b.CreatedAt.After(a.CreatedAt))

	items, err := s.Select(ctx, store.NewestFirst)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "B", items[0].Title)
	assert.Equal(t, "A", items[1].Title)
}

func TestUpdateAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.Insert(ctx, model.NewItem{Title: "A"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, model.NewItem{Title: "B"})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, a.ID, store.SetComplete(true)))
	require.NoError(t, s.Update(ctx, 99, store.SetComplete(true)))

	items, err := s.Select(ctx, store.Order{Column: store.ColumnID, Ascending: true})
	require.NoError(t, err)
	assert.True(t, items[0].IsComplete)
	assert.False(t, items[1].IsComplete)

	require.NoError(t, s.Delete(ctx, a.ID))
	require.NoError(t, s.Delete(ctx, a.ID))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCorruptFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	_, err := s.Select(context.Background(), store.NewestFirst)
	var se *store.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "select", se.Op)
	assert.False(t, store.IsTableNotFound(err))
}
