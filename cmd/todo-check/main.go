package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Makepad-fr/tada-remote/internal/check"
	"github.com/Makepad-fr/tada-remote/internal/config"
	"github.com/Makepad-fr/tada-remote/internal/logging"
	"github.com/Makepad-fr/tada-remote/internal/store"
	"github.com/Makepad-fr/tada-remote/internal/store/backend"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	log, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	// The probe never creates the table; a missing one is what we report.
	open := func(ctx context.Context, c *config.Config) (store.Table, func() error, error) {
		return backend.Open(ctx, c, backend.Options{})
	}
	code := check.Run(context.Background(), cfg, open, os.Stdout, log)
	_ = closeLog()
	os.Exit(code)
}
