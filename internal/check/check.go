// Package check implements the connection diagnostic behind todo-check.
package check

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Makepad-fr/tada-remote/internal/config"
	"github.com/Makepad-fr/tada-remote/internal/store"
)

// Opener opens the table to probe; backend.Open in production.
type Opener func(ctx context.Context, cfg *config.Config) (store.Table, func() error, error)

func found(v string) string {
	if v == "" {
		return "Missing"
	}
	return "Found"
}

// Run reports which credentials are present, then probes the table once
// with a read-only count. It returns the process exit code.
func Run(ctx context.Context, cfg *config.Config, open Opener, out io.Writer, log *slog.Logger) int {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	fmt.Fprintf(out, "Checking %s connection...\n", cfg.Backend)
	fmt.Fprintln(out, "URL:", found(cfg.URL))
	if cfg.KeyRequired() {
		fmt.Fprintln(out, "Key:", found(cfg.APIKey))
	} else {
		fmt.Fprintln(out, "Key: not required")
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(out, "Error: Missing environment variables.")
		log.Error("config", "err", err)
		return 1
	}

	table, closeFn, err := open(ctx, cfg)
	if err != nil {
		fmt.Fprintln(out, "Unexpected error:", err)
		log.Error("open backend", "err", err)
		return 1
	}
	defer closeFn()

	n, err := table.Count(ctx)
	if err != nil {
		log.Error("probe", "err", err)
		fmt.Fprintln(out, "Connection failed:", err)
		// a bare count answering "no rows" also means the table is absent
		if store.IsTableNotFound(err) || store.HasCode(err, store.CodeNoRows) {
			fmt.Fprintf(out, "Hint: The %q table might not exist yet. Please run the SQL schema.\n", cfg.Table)
		}
		return 1
	}
	fmt.Fprintf(out, "Connection successful! The row-store is reachable (%d rows in %q).\n", n, cfg.Table)
	return 0
}
