package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Makepad-fr/tada-remote/internal/cli"
	"github.com/Makepad-fr/tada-remote/internal/config"
	"github.com/Makepad-fr/tada-remote/internal/logging"
	"github.com/Makepad-fr/tada-remote/internal/store/backend"
	"github.com/Makepad-fr/tada-remote/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Root flags (apply to every subcommand)
	groupPending := flag.Bool("group", false, "group output by pending/done")
	plain := flag.Bool("plain", false, "print the list instead of opening the interactive view")
	theme := flag.String("theme", "", "classic, neon or mono (default $TADA_THEME)")
	color := flag.String("color", "auto", "auto, always or never")
	flag.Parse()

	// Help and typos never need a connection.
	args := flag.Args()
	if code, handled := cli.Usage(args); handled {
		return code
	}
	opt := cli.Options{Group: *groupPending, Plain: *plain}

	cfg, err := config.Load()
	if err != nil {
		ui.Fail(err.Error())
		return 2
	}
	if *theme != "" {
		cfg.Theme = *theme
	}
	ui.SetTheme(cfg.Theme)
	if err := ui.SetColorMode(*color); err != nil {
		ui.Fail(err.Error())
		return 2
	}

	// The interactive view owns the terminal; log there only via a file.
	var fallback io.Writer = os.Stderr
	if cli.Interactive(args, opt) {
		fallback = nil
	}
	log, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile, fallback)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, closeTable, err := backend.Open(ctx, cfg, backend.Options{Migrate: true})
	if err != nil {
		ui.Fail(err.Error())
		ui.Hint("run todo-check to diagnose the connection")
		return 1
	}
	defer closeTable()

	code := cli.Run(ctx, table, log, args, opt)
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	return code
}
