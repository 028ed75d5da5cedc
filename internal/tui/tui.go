// Package tui is a terminal front end for the todo API.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todolist/internal/models"
)

const requestTimeout = 5 * time.Second

// Backend is the subset of the API client the UI drives.
type Backend interface {
	List(ctx context.Context) ([]models.Todo, error)
	Create(ctx context.Context, name string) (models.Todo, error)
	Rename(ctx context.Context, id int64, name string) (models.Todo, error)
	Delete(ctx context.Context, id int64) error
}

type mode int

const (
	browsing mode = iota
	adding
	renaming
)

type (
	todosMsg   []models.Todo
	errMsg     struct{ err error }
	changedMsg struct{ status string }
)

// listItem adapts a Todo to bubbles/list.Item
type listItem struct {
	todo models.Todo
}

func (i listItem) FilterValue() string { return i.todo.Name }

// single line rows
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, mutedStyle.Render(fmt.Sprintf("#%d", it.todo.ID)), it.todo.Name)
}

// Model is the Bubble Tea model for the todo list.
type Model struct {
	backend Backend
	list    list.Model
	input   textinput.Model
	mode    mode
	editID  int64
	status  string
	err     error
}

// New returns a model that loads its rows from backend on start.
func New(backend Backend) Model {
	l := list.New(nil, itemDelegate{}, 80, 20)
	l.Title = titleStyle.Render("Todos")
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("todo", "todos")
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.FilterInput.Prompt = "/ "

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	reloadBind := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload"))
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind, delBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind, delBind, reloadBind} }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Cursor.SetMode(cursor.CursorStatic)

	return Model{backend: backend, list: l, input: ti}
}

// Run starts the UI on the alternate screen and blocks until the user quits.
func Run(backend Backend) error {
	_, err := tea.NewProgram(New(backend), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return m.load() }

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		todos, err := m.backend.List(ctx)
		if err != nil {
			return errMsg{err}
		}
		return todosMsg(todos)
	}
}

func (m Model) call(status string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			return errMsg{err}
		}
		return changedMsg{status}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil
	case todosMsg:
		items := make([]list.Item, 0, len(msg))
		for _, t := range msg {
			items = append(items, listItem{todo: t})
		}
		return m, m.list.SetItems(items)
	case errMsg:
		m.err = msg.err
		m.status = ""
		return m, nil
	case changedMsg:
		m.err = nil
		m.status = msg.status
		return m, m.load()
	case tea.KeyMsg:
		if m.mode != browsing {
			return m.updateInput(msg)
		}
		if m.list.FilterState() != list.Filtering {
			if next, cmd, handled := m.updateBrowsing(msg); handled {
				return next, cmd
			}
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit, true
	case "r":
		return m, m.load(), true
	case "a":
		m.mode = adding
		m.err = nil
		m.input.SetValue("")
		m.input.Placeholder = "New todo name..."
		return m, m.input.Focus(), true
	case "e":
		it, ok := m.list.SelectedItem().(listItem)
		if !ok {
			return m, nil, true
		}
		m.mode = renaming
		m.err = nil
		m.editID = it.todo.ID
		m.input.SetValue(it.todo.Name)
		m.input.CursorEnd()
		m.input.Placeholder = "New name..."
		return m, m.input.Focus(), true
	case "d":
		it, ok := m.list.SelectedItem().(listItem)
		if !ok {
			return m, nil, true
		}
		id := it.todo.ID
		return m, m.call(fmt.Sprintf("deleted #%d", id), func(ctx context.Context) error {
			return m.backend.Delete(ctx, id)
		}), true
	}
	return m, nil, false
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = browsing
		m.input.Blur()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.err = errors.New("name cannot be empty")
			return m, nil
		}
		var cmd tea.Cmd
		if m.mode == adding {
			cmd = m.call("added "+name, func(ctx context.Context) error {
				_, err := m.backend.Create(ctx, name)
				return err
			})
		} else {
			id := m.editID
			cmd = m.call(fmt.Sprintf("renamed #%d", id), func(ctx context.Context) error {
				_, err := m.backend.Rename(ctx, id, name)
				return err
			})
		}
		m.mode = browsing
		m.input.Blur()
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	content := m.list.View()
	if m.mode != browsing {
		title := "Add todo"
		if m.mode == renaming {
			title = fmt.Sprintf("Rename #%d", m.editID)
		}
		content += "\n" + panelStyle.Render(accentStyle.Render(title)+"\n"+m.input.View())
	}
	switch {
	case m.err != nil:
		content += "\n" + errorStyle.Render("✖ "+m.err.Error())
	case m.status != "":
		content += "\n" + successStyle.Render("✔ "+m.status)
	}
	return panelStyle.Render(content)
}
