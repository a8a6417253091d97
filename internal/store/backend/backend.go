// Package backend opens the row-store table named by the configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/Makepad-fr/tada-remote/internal/config"
	"github.com/Makepad-fr/tada-remote/internal/store"
	"github.com/Makepad-fr/tada-remote/internal/store/jsonstore"
	"github.com/Makepad-fr/tada-remote/internal/store/postgrest"
	"github.com/Makepad-fr/tada-remote/internal/store/sqlstore"
)

// Options tune Open.
type Options struct {
	// Migrate creates the table for SQL backends. Diagnostics leave it off
	// so a missing table is reported instead of silently created.
	Migrate bool
}

// Open returns the table and a close func for the session.
func Open(ctx context.Context, cfg *config.Config, opt Options) (store.Table, func() error, error) {
	noop := func() error { return nil }
	if err := cfg.Validate(); err != nil {
		return nil, noop, err
	}

	switch cfg.Backend {
	case config.BackendPostgREST:
		c, err := postgrest.New(cfg.URL, cfg.APIKey, cfg.Table)
		if err != nil {
			return nil, noop, err
		}
		return c, noop, nil

	case config.BackendPostgres, config.BackendSQLite:
		driver := sqlstore.DriverPostgres
		if cfg.Backend == config.BackendSQLite {
			driver = sqlstore.DriverSQLite
		}
		s, err := sqlstore.Open(driver, cfg.URL, cfg.Table)
		if err != nil {
			return nil, noop, err
		}
		if opt.Migrate {
			if err := s.Migrate(ctx); err != nil {
				_ = s.Close()
				return nil, noop, err
			}
		}
		return s, s.Close, nil

	case config.BackendJSON:
		s, err := jsonstore.New(cfg.URL)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	}
	return nil, noop, fmt.Errorf("unknown backend %q", cfg.Backend)
}
