package check

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada-remote/internal/config"
	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/store"
	"github.com/Makepad-fr/tada-remote/internal/store/backend"
	"github.com/Makepad-fr/tada-remote/internal/store/jsonstore"
)

// probeTable only answers Count.
type probeTable struct {
	store.Table
	n   int
	err error
}

func (p probeTable) Count(context.Context) (int, error) { return p.n, p.err }

func opener(tbl store.Table, err error) Opener {
	return func(context.Context, *config.Config) (store.Table, func() error, error) {
		return tbl, func() error { return nil }, err
	}
}

func remoteCfg() *config.Config {
	return &config.Config{Backend: config.BackendPostgREST, URL: "https://abc.example.co", APIKey: "k", Table: "todos"}
}

func TestMissingCredentials(t *testing.T) {
	var out bytes.Buffer
	called := false
	open := func(context.Context, *config.Config) (store.Table, func() error, error) {
		called = true
		return nil, nil, nil
	}

	code := Run(context.Background(), &config.Config{Backend: config.BackendPostgREST, URL: "https://abc.example.co", Table: "todos"}, open, &out, nil)
	assert.Equal(t, 1, code)
	assert.False(t, called)
	assert.Contains(t, out.String(), "URL: Found\n")
	assert.Contains(t, out.String(), "Key: Missing\n")
	assert.Contains(t, out.String(), "Error: Missing environment variables.")
}

func TestSuccess(t *testing.T) {
	var out bytes.Buffer
	code := Run(context.Background(), remoteCfg(), opener(probeTable{n: 3}, nil), &out, nil)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Connection successful!")
	assert.Contains(t, out.String(), `3 rows in "todos"`)
}

func TestTableNotFoundHint(t *testing.T) {
	var out bytes.Buffer
	err := &store.Error{Op: "count", Status: 404, Code: "42P01", Message: `relation "public.todos" does not exist`}
	code := Run(context.Background(), remoteCfg(), opener(probeTable{err: err}, nil), &out, nil)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "Connection failed:")
	assert.Contains(t, out.String(), `Hint: The "todos" table might not exist yet.`)
}

func TestNoRowsCodeHintsOnlyForProbe(t *testing.T) {
	var out bytes.Buffer
	err := &store.Error{Op: "count", Status: 406, Code: store.CodeNoRows, Message: "JSON object requested, multiple (or no) rows returned"}
	code := Run(context.Background(), remoteCfg(), opener(probeTable{err: err}, nil), &out, nil)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), `Hint: The "todos" table might not exist yet.`)
}

func TestGeneralFailureHasNoHint(t *testing.T) {
	var out bytes.Buffer
	code := Run(context.Background(), remoteCfg(), opener(probeTable{err: errors.New("dial tcp: i/o timeout")}, nil), &out, nil)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "Connection failed: dial tcp: i/o timeout")
	assert.NotContains(t, out.String(), "Hint:")
}

func TestOpenError(t *testing.T) {
	var out bytes.Buffer
	code := Run(context.Background(), remoteCfg(), opener(nil, errors.New("bad endpoint")), &out, nil)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "bad endpoint")
}

func TestAgainstRealBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	open := func(ctx context.Context, cfg *config.Config) (store.Table, func() error, error) {
		return backend.Open(ctx, cfg, backend.Options{})
	}

	// sqlite without the schema: table missing
	var out bytes.Buffer
	cfg := &config.Config{Backend: config.BackendSQLite, URL: filepath.Join(dir, "todos.db"), Table: "todos"}
	assert.Equal(t, 1, Run(ctx, cfg, open, &out, nil))
	assert.Contains(t, out.String(), "Hint:")

	// json file with one row
	path := filepath.Join(dir, "todos.json")
	js, err := jsonstore.New(path)
	require.NoError(t, err)
	_, err = js.Insert(ctx, model.NewItem{Title: "A"})
	require.NoError(t, err)

	out.Reset()
	cfg = &config.Config{Backend: config.BackendJSON, URL: path, Table: "todos"}
	assert.Equal(t, 0, Run(ctx, cfg, open, &out, nil))
	assert.Contains(t, out.String(), "Key: not required")
	assert.NotContains(t, out.String(), "Key: Missing")
	assert.Contains(t, out.String(), "1 rows")
}
