package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Makepad-fr/tada-remote/internal/listsync"
	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/store"
	"github.com/Makepad-fr/tada-remote/internal/tui"
	"github.com/Makepad-fr/tada-remote/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group bool // list grouped by pending/done (plain list only)
	Plain bool // print the list instead of starting the interactive view
}

// Interactive reports whether args start the full-screen list, which must
// not share the terminal with log output.
func Interactive(args []string, opt Options) bool {
	return len(args) > 0 && args[0] == "ls" && !opt.Plain
}

// runInteractive is swapped out in tests.
var runInteractive = tui.Run

var subcommands = map[string]bool{"ls": true, "add": true, "done": true, "rm": true}

// Usage answers the invocations that need no table: no args, help and
// unknown subcommands. handled is false when args name a real subcommand.
func Usage(args []string) (code int, handled bool) {
	if len(args) == 0 {
		PrintHelp()
		return 2, true
	}
	switch cmd := args[0]; {
	case cmd == "help" || cmd == "-h" || cmd == "--help":
		PrintHelp()
		return 0, true
	case !subcommands[cmd]:
		ui.Fail("unknown subcommand: " + cmd)
		fmt.Fprintln(ui.Stderr())
		PrintHelp()
		return 2, true
	}
	return 0, false
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, table store.Table, log *slog.Logger, args []string, opt Options) int {
	if code, handled := Usage(args); handled {
		return code
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "ls":
		if opt.Plain {
			return doList(ctx, newSync(table, log), opt)
		}
		notes := listsync.NewChanNotifier(16)
		if err := runInteractive(ctx, listsync.New(table, notes, log), notes); err != nil {
			ui.Fail("tui: " + err.Error())
			return 1
		}
		return 0

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: todo add <title...>")
			return 2
		}
		return doAdd(ctx, newSync(table, log), strings.Join(a, " "))

	case "done":
		n, code := indexArg("done", a)
		if code != 0 {
			return code
		}
		return doToggle(ctx, newSync(table, log), n)

	case "rm":
		n, code := indexArg("rm", a)
		if code != 0 {
			return code
		}
		return doRemove(ctx, newSync(table, log), n)
	}
	return 2
}

func PrintHelp() {
	fmt.Fprint(ui.Stdout(), `todo - a tiny task list backed by a remote table

Usage:
  todo [-plain] [-group] [-theme name] [-color mode] <subcommand> [args]

Subcommands:
  add <title...>     Add a new item (title can be multiple words)
  ls                 List items (interactive; -plain prints them)
  done <index>       Toggle done for item at 1-based index
  rm <index>         Remove item at 1-based index

Connection (env or .env):
  TADA_URL, TADA_API_KEY   endpoint and key of the row-store
  TADA_BACKEND             postgrest (default), postgres, sqlite, json

Examples:
  todo add "Buy milk"
  todo ls
  todo done 2
  todo rm 3
`)
}

// newSync returns a synchronizer whose notifications print like the rest
// of the CLI output.
func newSync(table store.Table, log *slog.Logger) *listsync.Synchronizer {
	return listsync.New(table, listsync.NotifierFunc(func(n listsync.Notification) {
		if n.Level == listsync.LevelError {
			ui.Fail(n.Message)
			return
		}
		ui.OK(n.Message)
	}), log)
}

func indexArg(cmd string, a []string) (int, int) {
	if len(a) != 1 {
		ui.Fail("usage: todo " + cmd + " <index>")
		return 0, 2
	}
	n, err := strconv.Atoi(a[0])
	if err != nil {
		ui.Fail(cmd + ": not a number: " + a[0])
		return 0, 2
	}
	return n, 0
}

// hintFor adds remediation for errors the user can fix themselves.
func hintFor(err error) {
	if store.IsTableNotFound(err) {
		ui.Hint(`the "todos" table might not exist yet. Run the SQL schema, then todo-check.`)
	}
}

// -------------- subcommand impls ----------------

func doList(ctx context.Context, s *listsync.Synchronizer, opt Options) int {
	if err := s.Load(ctx); err != nil {
		hintFor(err)
		return 1
	}
	items := s.Items()

	// Header + progress
	d, p := stats(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(ui.Current().Title, "Todos"),
		ui.C(ui.Current().Success, ui.Current().SymDone), d,
		ui.C(ui.Current().Pending, ui.Current().SymUnchecked), p,
		ui.C(ui.Current().Accent, "Total"), len(items),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(ui.Current().Muted, ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if opt.Group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, flatLines(items)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Muted, "Tip: add with `todo add \"Buy milk\"`"))
	ui.Panel(lines)
	return 0
}

func doAdd(ctx context.Context, s *listsync.Synchronizer, title string) int {
	if _, err := s.Create(ctx, title); err != nil {
		if errors.Is(err, listsync.ErrEmptyTitle) {
			ui.Fail("add: empty title")
			return 2
		}
		hintFor(err)
		return 1
	}
	return 0
}

// resolve loads the list and maps a 1-based index onto an item.
func resolve(ctx context.Context, s *listsync.Synchronizer, userIndex int) (model.Item, int) {
	if err := s.Load(ctx); err != nil {
		hintFor(err)
		return model.Item{}, 1
	}
	items := s.Items()
	if userIndex < 1 || userIndex > len(items) {
		ui.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(items), userIndex))
		ui.Hint("run `todo ls` to see valid indexes")
		return model.Item{}, 2
	}
	return items[userIndex-1], 0
}

func doToggle(ctx context.Context, s *listsync.Synchronizer, userIndex int) int {
	it, code := resolve(ctx, s, userIndex)
	if code != 0 {
		return code
	}
	if err := s.Toggle(ctx, it.ID, it.IsComplete); err != nil {
		hintFor(err)
		return 1
	}
	if it.IsComplete {
		ui.OK("marked pending")
	} else {
		ui.OK("marked done")
	}
	return 0
}

func doRemove(ctx context.Context, s *listsync.Synchronizer, userIndex int) int {
	it, code := resolve(ctx, s, userIndex)
	if code != 0 {
		return code
	}
	if err := s.Remove(ctx, it.ID); err != nil {
		hintFor(err)
		return 1
	}
	return 0
}

// -------------- rendering helpers --------------

func stats(items []model.Item) (done, pending int) {
	for _, it := range items {
		if it.IsComplete {
			done++
		} else {
			pending++
		}
	}
	return
}

func flatLines(items []model.Item) []string {
	if len(items) == 0 {
		return []string{ui.C(ui.Current().Muted, "No tasks yet. Add one above!")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		out = append(out, itemLine(i+1, it))
	}
	return out
}

func itemLine(userIndex int, it model.Item) string {
	idx := fmt.Sprintf("%2d.", userIndex)
	box := ui.Current().BoxUnchecked
	color := ui.Current().Muted
	if it.IsComplete {
		box, color = ui.Current().BoxChecked, ui.Current().Success
	}
	title := it.Title
	if r := []rune(title); len(r) > 80 {
		title = string(r[:77]) + "..."
	}
	return fmt.Sprintf("%s %s %s", ui.Dim(idx), ui.C(color, box), title)
}

// groupLines keeps each item's index from the full list so done/rm still
// address the right row.
func groupLines(items []model.Item) []string {
	var pend, done []string
	for i, it := range items {
		if it.IsComplete {
			done = append(done, itemLine(i+1, it))
		} else {
			pend = append(pend, itemLine(i+1, it))
		}
	}
	var lines []string
	lines = append(lines, ui.C(ui.Current().Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, pend...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, done...)
	}
	return lines
}
