// Package sqlstore serves the todos table from PostgreSQL or SQLite through sqlx.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/store"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var schemas = map[string]string{
	DriverPostgres: `
CREATE TABLE IF NOT EXISTS %s (
    id BIGSERIAL PRIMARY KEY,
    title TEXT NOT NULL,
    is_complete BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`,
	DriverSQLite: `
CREATE TABLE IF NOT EXISTS %s (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    is_complete BOOLEAN NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL
);
`,
}

type Store struct {
	db     *sqlx.DB
	driver string
	table  string
	now    func() time.Time
}

// Open connects with sqlx and pings. It does not create the table; call
// Migrate for that.
func Open(driver, dsn, table string) (*Store, error) {
	if _, ok := schemas[driver]; !ok {
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}
	if table == "" {
		table = store.DefaultTable
	}
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("sqlstore: invalid table name %q", table)
	}
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// one connection so ":memory:" databases are shared by every query
		db.SetMaxOpenConns(1)
	}
	return &Store{db: db, driver: driver, table: table, now: time.Now}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Migrate creates the table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(schemas[s.driver], s.table)); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const columns = "id, title, is_complete, created_at"

func (s *Store) Select(ctx context.Context, order store.Order) ([]model.Item, error) {
	if err := order.Validate(); err != nil {
		return nil, &store.Error{Op: "select", Err: err}
	}
	dir := "DESC"
	if order.Ascending {
		dir = "ASC"
	}
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s %s, id %s", columns, s.table, order.Column, dir, dir)
	items := []model.Item{}
	if err := s.db.SelectContext(ctx, &items, q); err != nil {
		return nil, s.wrap("select", err)
	}
	return items, nil
}

func (s *Store) Insert(ctx context.Context, row model.NewItem) (model.Item, error) {
	var it model.Item
	if s.driver == DriverPostgres {
		q := fmt.Sprintf("INSERT INTO %s (title, is_complete) VALUES ($1, $2) RETURNING %s", s.table, columns)
		if err := s.db.GetContext(ctx, &it, q, row.Title, row.IsComplete); err != nil {
			return model.Item{}, s.wrap("insert", err)
		}
		return it, nil
	}

	q := s.db.Rebind(fmt.Sprintf("INSERT INTO %s (title, is_complete, created_at) VALUES (?, ?, ?)", s.table))
	res, err := s.db.ExecContext(ctx, q, row.Title, row.IsComplete, s.now().UTC())
	if err != nil {
		return model.Item{}, s.wrap("insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Item{}, s.wrap("insert", err)
	}
	q = s.db.Rebind(fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", columns, s.table))
	if err := s.db.GetContext(ctx, &it, q, id); err != nil {
		return model.Item{}, s.wrap("insert", err)
	}
	return it, nil
}

func (s *Store) Update(ctx context.Context, id int64, patch store.Patch) error {
	if patch.Empty() {
		return nil
	}
	q := s.db.Rebind(fmt.Sprintf("UPDATE %s SET is_complete = ? WHERE id = ?", s.table))
	if _, err := s.db.ExecContext(ctx, q, *patch.IsComplete, id); err != nil {
		return s.wrap("update", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	q := s.db.Rebind(fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.table))
	if _, err := s.db.ExecContext(ctx, q, id); err != nil {
		return s.wrap("delete", err)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)); err != nil {
		return 0, s.wrap("count", err)
	}
	return n, nil
}

// wrap maps driver errors onto store.Error so callers can detect a missing
// table the same way for every backend.
func (s *Store) wrap(op string, err error) error {
	se := &store.Error{Op: op, Err: err}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		se.Code = string(pqErr.Code)
		se.Message = pqErr.Message
		se.Hint = pqErr.Hint
		return se
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && strings.HasPrefix(liteErr.Error(), "no such table") {
		se.Code = "42P01"
		se.Message = liteErr.Error()
	}
	return se
}
