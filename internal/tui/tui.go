// Package tui is the interactive list. Every key that changes data goes
// through the Synchronizer; the view only re-reads its snapshot.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada-remote/internal/listsync"
	"github.com/Makepad-fr/tada-remote/internal/model"
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct{ model.Item }

func (i listItem) TitleText() string {
	box := boxUnchecked
	if i.IsComplete {
		box = boxChecked
	}
	return fmt.Sprintf("%s %s", box, i.Item.Title)
}

// Implement list.Item interface
func (i listItem) Title() string       { return i.TitleText() }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Item.Title }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)

	boxStyled := mutedStyle.Render(boxUnchecked)
	textStyled := it.Item.Title
	if it.IsComplete {
		boxStyled = successStyle.Render(boxChecked)
		textStyled = doneStyle.Render(it.Item.Title)
	}

	line := fmt.Sprintf("%s %s", boxStyled, textStyled)
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// Messages produced by commands.
type (
	loadedMsg  struct{ err error }
	syncedMsg  struct{ err error }
	createdMsg struct{ err error }
	noteMsg    listsync.Notification
)

type modelTUI struct {
	ctx   context.Context
	sync  *listsync.Synchronizer
	notes listsync.ChanNotifier

	list    list.Model
	spinner spinner.Model
	loaded  bool

	// Inline add
	adding bool
	ti     textinput.Model
	addErr string

	status    listsync.Notification
	hasStatus bool

	width, height int
}

func newModel(ctx context.Context, s *listsync.Synchronizer, notes listsync.ChanNotifier) modelTUI {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	toggleBind := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	reloadBind := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload"))
	extra := func() []key.Binding { return []key.Binding{addBind, toggleBind, delBind, reloadBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Add a new task..."
	ti.CharLimit = 200

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = accentStyle

	m := modelTUI{
		ctx:     ctx,
		sync:    s,
		notes:   notes,
		list:    l,
		spinner: sp,
		ti:      ti,
		width:   80,
		height:  24,
	}
	m.refresh()
	return m
}

// Run starts the interactive list and blocks until the user quits.
func Run(ctx context.Context, s *listsync.Synchronizer, notes listsync.ChanNotifier) error {
	p := tea.NewProgram(newModel(ctx, s, notes), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// ------- commands -------

func (m modelTUI) loadCmd() tea.Cmd {
	return func() tea.Msg { return loadedMsg{err: m.sync.Load(m.ctx)} }
}

func (m modelTUI) createCmd(title string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.sync.Create(m.ctx, title)
		return createdMsg{err: err}
	}
}

func (m modelTUI) toggleCmd(it model.Item) tea.Cmd {
	return func() tea.Msg { return syncedMsg{err: m.sync.Toggle(m.ctx, it.ID, it.IsComplete)} }
}

func (m modelTUI) removeCmd(id int64) tea.Cmd {
	return func() tea.Msg { return syncedMsg{err: m.sync.Remove(m.ctx, id)} }
}

func (m modelTUI) waitForNote() tea.Cmd {
	if m.notes == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case n := <-m.notes:
			return noteMsg(n)
		case <-m.ctx.Done():
			return nil
		}
	}
}

// refresh copies the synchronizer's list into the view.
func (m *modelTUI) refresh() {
	items := m.sync.Items()
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{it})
	}
	m.list.SetItems(li)

	dn, pn := stats(items)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("My Tasks"),
		successStyle.Render("✔"), dn,
		pendingStyle.Render("•"), pn,
		accentStyle.Render("Total"), len(items),
	)
}

func (m modelTUI) selected() (model.Item, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	return li.Item, ok
}

// Update and View implement Bubble Tea's Model on modelTUI
func (m modelTUI) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd(), m.waitForNote())
}

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case noteMsg:
		m.status, m.hasStatus = listsync.Notification(msg), true
		return m, m.waitForNote()

	case loadedMsg:
		m.loaded = true
		m.refresh()
		return m, nil

	case syncedMsg:
		m.refresh()
		return m, nil

	case createdMsg:
		m.refresh()
		// the input is kept on failure so the user can retry
		if msg.err == nil {
			m.adding = false
			m.ti.SetValue("")
			m.ti.Blur()
		}
		return m, nil
	}

	// add mode
	if m.adding {
		var cmd tea.Cmd
		if x, ok := msg.(tea.KeyMsg); ok {
			switch x.String() {
			case "enter":
				title := m.ti.Value()
				if strings.TrimSpace(title) == "" {
					m.addErr = "Title cannot be empty"
					return m, nil
				}
				m.addErr = ""
				return m, m.createCmd(title)
			case "esc":
				m.adding = false
				m.addErr = ""
				m.ti.SetValue("")
				m.ti.Blur()
				return m, nil
			}
		}
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch k.String() {
		case "q", "esc":
			return m, tea.Quit
		case " ":
			if it, ok := m.selected(); ok {
				return m, m.toggleCmd(it)
			}
			return m, nil
		case "d":
			if it, ok := m.selected(); ok {
				return m, m.removeCmd(it.ID)
			}
			return m, nil
		case "r":
			return m, m.loadCmd()
		case "a":
			m.adding = true
			m.addErr = ""
			m.ti.SetValue("")
			return m, m.ti.Focus()
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m modelTUI) View() string {
	listHeight := m.height - 5
	if m.adding {
		listHeight -= 4
	}
	m.list.SetSize(m.width-4, listHeight)

	var content string
	switch {
	case !m.loaded || m.sync.Loading():
		content = m.spinner.View() + " Loading tasks..."
	case len(m.list.Items()) == 0:
		content = m.list.Title + "\n\n" + mutedStyle.Render("No tasks yet. Add one with a!")
	default:
		content = m.list.View()
	}

	if m.adding {
		title := "Add new task"
		if m.addErr != "" {
			title += " — " + errorStyle.Render(m.addErr)
		}
		content += "\n" + frameStyle.Render(title+"\n"+m.ti.View())
	}
	content += "\n" + m.statusLine()
	return frameStyle.Render(content)
}

func (m modelTUI) statusLine() string {
	if !m.hasStatus {
		return helpStyle.Render("a add • space toggle • d delete • r reload • q quit")
	}
	if m.status.Level == listsync.LevelError {
		return errorStyle.Render("✖ " + m.status.Message)
	}
	return successStyle.Render("✔ " + m.status.Message)
}

// small list stats used for the header
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
