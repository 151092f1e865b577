// Package ui provides the interactive terminal page.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"todo/internal/app"
	"todo/internal/logging"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
)

type focusArea int

const (
	focusForm focusArea = iota
	focusList
)

type loadedMsg struct{ result app.LoadResult }

type createdMsg struct{ result app.CreateResult }

type remoteDeletedMsg struct {
	id  string
	err error
}

// Options configures the terminal page.
type Options struct {
	ClearOnSubmit bool
}

// Model is the Bubble Tea model for the terminal page. Update is the only
// place the composer's list is mutated; store calls run as commands.
type Model struct {
	ctx      context.Context
	cancel   context.CancelFunc
	composer *app.Composer
	form     *Form
	rows     []Row
	cursor   int
	focus    focusArea
	status   string
	log      zerolog.Logger
}

// NewModel returns a model for the composer. Cancelling ctx, or quitting,
// aborts in-flight store calls.
func NewModel(ctx context.Context, composer *app.Composer, logger zerolog.Logger, opts Options) *Model {
	ctx, cancel := context.WithCancel(ctx)
	m := &Model{
		ctx:      ctx,
		cancel:   cancel,
		composer: composer,
		log:      logger.With().Str("component", "tui").Logger(),
	}
	m.form = NewForm(m.add, opts.ClearOnSubmit)
	return m
}

// Run starts the terminal page and blocks until the user quits.
func Run(ctx context.Context, composer *app.Composer, logger zerolog.Logger, opts Options) error {
	if !logging.IsTerminal(os.Stdout) {
		return fmt.Errorf("ui requires a TTY")
	}

	model := NewModel(ctx, composer, logger, opts)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	model.cancel()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init starts the one initial fetch.
func (m *Model) Init() tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return loadedMsg{result: m.composer.Fetch(ctx)}
	}
}

// Update handles key presses and store results.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case loadedMsg:
		err := m.composer.Apply(msg.result)
		m.status = app.UserMessage(err)
		m.rebuildRows()

	case createdMsg:
		err := m.composer.Apply(msg.result)
		m.status = app.UserMessage(err)
		m.rebuildRows()

	case remoteDeletedMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Str("id", msg.id).Msg("remote delete failed")
			m.status = app.UserMessage(msg.err)
		}
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.quit()
	case tea.KeyTab, tea.KeyShiftTab:
		m.toggleFocus()
		return nil
	}

	if m.focus == focusForm {
		if msg.Type == tea.KeyEsc || msg.Type == tea.KeyDown {
			m.focus = focusList
			return nil
		}
		return m.form.Update(msg)
	}

	switch msg.String() {
	case "q", "esc":
		return m.quit()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		} else {
			m.focus = focusForm
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "d", "x", "delete", "backspace":
		if m.cursor < len(m.rows) {
			return m.rows[m.cursor].Activate()
		}
	case "a", "i":
		m.focus = focusForm
	}
	return nil
}

func (m *Model) toggleFocus() {
	if m.focus == focusForm {
		m.focus = focusList
	} else {
		m.focus = focusForm
	}
}

func (m *Model) quit() tea.Cmd {
	m.cancel()
	return tea.Quit
}

// add is the form's submit handler.
func (m *Model) add(text string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return createdMsg{result: m.composer.Create(ctx, text)}
	}
}

// remove is every row's delete handler.
func (m *Model) remove(position int) tea.Cmd {
	removed, remote, err := m.composer.Remove(position, "")
	m.status = app.UserMessage(err)
	m.rebuildRows()
	if err != nil || !remote {
		return nil
	}

	ctx := m.ctx
	return func() tea.Msg {
		return remoteDeletedMsg{id: removed.ID, err: m.composer.DeleteRemote(ctx, removed.ID)}
	}
}

func (m *Model) rebuildRows() {
	tasks := m.composer.Tasks()
	m.rows = make([]Row, len(tasks))
	for i, task := range tasks {
		m.rows[i] = NewRow(task.Name, i, m.remove)
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Rows returns the rendered rows, for tests.
func (m *Model) Rows() []Row {
	return m.rows
}

// Form returns the input form.
func (m *Model) Form() *Form {
	return m.form
}

// Status returns the current status line.
func (m *Model) Status() string {
	return m.status
}

// View renders the page.
func (m *Model) View() string {
	var b strings.Builder

	title := "Tasks"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")

	b.WriteString(m.form.View(m.focus == focusForm) + "\n\n")

	if !m.composer.Loaded() {
		b.WriteString(faintStyle.Render("Loading...") + "\n")
	} else if len(m.rows) == 0 {
		b.WriteString(faintStyle.Render("no tasks") + "\n")
	}
	for i, row := range m.rows {
		b.WriteString(row.View(m.focus == focusList && i == m.cursor) + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + errorStyle.Render(m.status) + "\n")
	}

	b.WriteString("\n" + faintStyle.Render(m.helpLine()) + "\n")
	return b.String()
}

func (m *Model) helpLine() string {
	if m.focus == focusForm {
		return "enter: add  tab: list  ctrl+c: quit"
	}
	return "j/k: move  d: delete  a: add  q: quit"
}
