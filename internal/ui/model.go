package ui

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gitsuggest/internal/logger"
	"gitsuggest/internal/ui/services/suggest"
	"gitsuggest/internal/ui/views"
)

// Model is the Bubble Tea model of the search widget. It translates key
// and mouse input into the suggest service's events and renders its state.
type Model struct {
	suggest *suggest.Service
	log     logger.Logger

	input    textinput.Model
	spinner  spinner.Model
	help     help.Model
	keys     KeyMap
	renderer *views.Renderer
	helpText *HelpRenderer

	width          int
	height         int
	focused        bool
	cursor         int // highlighted suggestion, -1 for none
	viewportOffset int
	inPagerMode    bool // tracks if we're currently in pager mode
	testMode       bool

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates the widget around a suggest service
func NewModel(service *suggest.Service) *Model {
	ti := textinput.New()
	ti.Placeholder = "Search users and repositories"
	ti.Prompt = "› "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		suggest:  service,
		log:      logger.Named("ui"),
		input:    ti,
		spinner:  sp,
		help:     help.New(),
		keys:     DefaultKeyMap(),
		renderer: views.NewRenderer(),
		helpText: NewHelpRenderer(service.Settings().MinLength),
		focused:  true,
		cursor:   -1,
	}
	m.keys.SetFocused(true)
	m.spinner.Style = m.renderer.Styles().StatusLoading
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// SetTestMode makes the view print a readiness marker for terminal tests
func (m *Model) SetTestMode(enabled bool) {
	m.testMode = enabled
}

// Close cancels any fetch still in flight
func (m *Model) Close() {
	m.suggest.Close()
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 8
		m.ensureCursorVisible()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case suggest.FetchCompletedMsg:
		if m.suggest.HandleFetchCompleted(msg) {
			m.clampCursor()
		}
		return m, nil

	case suggest.ClearDueMsg:
		if m.suggest.HandleClearDue(msg) {
			m.cursor = -1
			m.viewportOffset = 0
		}
		return m, nil

	case spinner.TickMsg:
		if m.inPagerMode || !m.suggest.State().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case helpPagerMsg:
		if msg.err != nil {
			// Pager failed: log only; do not surface in the widget
			m.log.Error(context.Background(), "help pager failed", logger.Error(msg.err))
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		if m.suggest.State().Loading {
			return m, m.spinner.Tick
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit), key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Choose):
		if item, ok := m.highlighted(); ok {
			return m, m.choose(item)
		}
		if !m.focused {
			return m, m.focus()
		}
		return m, nil

	case key.Matches(msg, m.keys.Blur):
		return m, m.blur()

	case key.Matches(msg, m.keys.Focus):
		return m, m.focus()

	case key.Matches(msg, m.keys.Help):
		return m, m.showHelpPager()
	}

	if !m.focused {
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.textChanged(m.input.Value()))
}

// handleMouse maps a left click on a suggestion row to blur-then-select
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	idx := views.ItemAt(msg.Y, m.viewState())
	if idx < 0 {
		return nil
	}
	items := m.suggest.State().Items
	return m.choose(items[idx].Value)
}

func (m *Model) textChanged(text string) tea.Cmd {
	m.cursor = -1
	m.viewportOffset = 0
	cmd := m.suggest.TextChanged(text)
	if cmd == nil {
		return nil
	}
	return tea.Batch(cmd, m.spinner.Tick)
}

// blur leaves the input and schedules the deferred clear
func (m *Model) blur() tea.Cmd {
	if !m.focused {
		return nil
	}
	m.focused = false
	m.keys.SetFocused(false)
	m.input.Blur()
	return m.suggest.Blurred(m.input.Value())
}

func (m *Model) focus() tea.Cmd {
	if m.focused {
		return nil
	}
	m.focused = true
	m.keys.SetFocused(true)
	return m.input.Focus()
}

// choose applies a suggestion. A focused input is blurred first, the way a
// click outside the input would, and the selection then cancels the
// deferred clear that blur scheduled.
func (m *Model) choose(value string) tea.Cmd {
	cmd := m.blur()
	m.suggest.Selected(value)
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.cursor = -1
	m.viewportOffset = 0
	return cmd
}

func (m *Model) highlighted() (string, bool) {
	items := m.suggest.State().Items
	if m.cursor < 0 || m.cursor >= len(items) {
		return "", false
	}
	return items[m.cursor].Value, true
}

func (m *Model) moveCursor(delta int) {
	n := len(m.suggest.State().Items)
	if n == 0 {
		m.cursor = -1
		return
	}
	switch {
	case m.cursor < 0 && delta > 0:
		m.cursor = 0
	case m.cursor < 0:
		m.cursor = n - 1
	default:
		m.cursor += delta
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	m.ensureCursorVisible()
}

func (m *Model) clampCursor() {
	n := len(m.suggest.State().Items)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.viewportOffset > 0 && m.viewportOffset >= n {
		m.viewportOffset = 0
	}
	m.ensureCursorVisible()
}

func (m *Model) ensureCursorVisible() {
	if m.cursor < 0 {
		return
	}
	height := views.ListHeight(m.height)
	if m.cursor < m.viewportOffset {
		m.viewportOffset = m.cursor
	} else if m.cursor >= m.viewportOffset+height {
		m.viewportOffset = m.cursor - height + 1
	}
}

// showHelpPager runs the ov pager with the help text, pausing rendering
func (m *Model) showHelpPager() tea.Cmd {
	content := m.helpText.RenderHelpContent()
	program := m.program
	if program == nil {
		return func() tea.Msg { return helpPagerMsg{err: ErrNoProgram} }
	}
	return func() tea.Msg {
		program.Send(pauseRenderingMsg{})
		err := NewHelpOps(program).ShowHelpInPager(content)
		program.Send(resumeRenderingMsg{})
		return helpPagerMsg{err: err}
	}
}

func (m *Model) hint() string {
	minLength := m.suggest.Settings().MinLength
	if !m.focused || utf8.RuneCountInString(m.input.Value()) >= minLength {
		return ""
	}
	return fmt.Sprintf("Type at least %d characters to search", minLength)
}

func (m *Model) viewState() views.ViewState {
	return views.ViewState{
		Width:          m.width,
		Height:         m.height,
		Input:          m.input.View(),
		Search:         m.suggest.State(),
		Focused:        m.focused,
		Cursor:         m.cursor,
		ViewportOffset: m.viewportOffset,
		ViewportHeight: views.ListHeight(m.height),
		Spinner:        m.spinner.View(),
		Hint:           m.hint(),
		HelpView:       m.help.View(m.keys),
		Ready:          m.testMode,
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	return m.renderer.Render(m.viewState())
}

// Value returns the text the input shows
func (m *Model) Value() string {
	return m.input.Value()
}

// Focused reports whether the input has focus
func (m *Model) Focused() bool {
	return m.focused
}
