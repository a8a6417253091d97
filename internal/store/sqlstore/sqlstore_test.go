package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/store"
)

var _ store.Table = (*Store)(nil)

func openSQLite(t *testing.T, migrate bool) *Store {
	t.Helper()
	s, err := Open(DriverSQLite, ":memory:", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	if migrate {
		require.NoError(t, s.Migrate(context.Background()))
	}
	return s
}

func TestOpenRejectsBadInput(t *testing.T) {
	_, err := Open("mysql", "x", "todos")
	assert.Error(t, err)

	_, err = Open(DriverSQLite, ":memory:", "todos; drop")
	assert.Error(t, err)
}

func TestMissingTable(t *testing.T) {
	s := openSQLite(t, false)
	ctx := context.Background()

	_, err := s.Select(ctx, store.NewestFirst)
	require.Error(t, err)
	assert.True(t, store.IsTableNotFound(err))

	_, err = s.Count(ctx)
	assert.True(t, store.IsTableNotFound(err))
}

func TestCRUD(t *testing.T) {
	s := openSQLite(t, true)
	ctx := context.Background()

	items, err := s.Select(ctx, store.NewestFirst)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	first, err := s.Insert(ctx, model.NewItem{Title: "first"})
	require.NoError(t, err)
	second, err := s.Insert(ctx, model.NewItem{Title: "  second  "})
	require.NoError(t, err)

	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "  second  ", second.Title)
	assert.False(t, second.IsComplete)
	assert.True(t, second.CreatedAt.After(first.CreatedAt))

	items, err = s.Select(ctx, store.NewestFirst)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)

	require.NoError(t, s.Update(ctx, first.ID, store.SetComplete(true)))
	items, err = s.Select(ctx, store.Order{Column: store.ColumnID, Ascending: true})
	require.NoError(t, err)
	assert.True(t, items[0].IsComplete)
	assert.False(t, items[1].IsComplete)

	require.NoError(t, s.Delete(ctx, first.ID))
	require.NoError(t, s.Delete(ctx, 12345))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSelectRejectsUnknownColumn(t *testing.T) {
	s := openSQLite(t, true)
	_, err := s.Select(context.Background(), store.Order{Column: "nope"})
	assert.Error(t, err)
}
