// Package store defines the row-store contract the task list talks to.
// Backends live in subpackages: postgrest (hosted REST row-store),
// sqlstore (PostgreSQL / SQLite) and jsonstore (local file).
package store

import (
	"context"
	"fmt"

	"github.com/Makepad-fr/tada-remote/internal/model"
)

// DefaultTable is the table every backend reads unless configured otherwise.
const DefaultTable = "todos"

// Column names of the todos table.
const (
	ColumnID         = "id"
	ColumnTitle      = "title"
	ColumnIsComplete = "is_complete"
	ColumnCreatedAt  = "created_at"
)

// Order selects the sort column and direction for Select.
type Order struct {
	Column    string
	Ascending bool
}

// NewestFirst is the list order: created_at descending.
var NewestFirst = Order{Column: ColumnCreatedAt}

// Validate rejects columns the table does not have.
func (o Order) Validate() error {
	switch o.Column {
	case ColumnID, ColumnTitle, ColumnIsComplete, ColumnCreatedAt:
		return nil
	}
	return fmt.Errorf("order: unknown column %q", o.Column)
}

// Patch is a partial update; nil fields are left as they are.
type Patch struct {
	IsComplete *bool `json:"is_complete,omitempty"`
}

// Empty reports whether the patch sets nothing.
func (p Patch) Empty() bool { return p.IsComplete == nil }

// SetComplete returns a patch that sets is_complete to v.
func SetComplete(v bool) Patch { return Patch{IsComplete: &v} }

// Table is a generic CRUD table over todo rows.
// Update and Delete of an id that does not exist are not errors.
type Table interface {
	Select(ctx context.Context, order Order) ([]model.Item, error)
	// Insert stores one row and returns it as the store assigned it.
	Insert(ctx context.Context, row model.NewItem) (model.Item, error)
	Update(ctx context.Context, id int64, patch Patch) error
	Delete(ctx context.Context, id int64) error
	// Count is a read-only probe used by diagnostics.
	Count(ctx context.Context) (int, error)
}
