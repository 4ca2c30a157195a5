package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// ErrNoProgram is returned when the pager is requested before SetProgram
var ErrNoProgram = errors.New("program not set")

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	minLength int
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer(minLength int) *HelpRenderer {
	return &HelpRenderer{minLength: minLength}
}

// RenderHelpContent generates help content with colors for the pager
func (r *HelpRenderer) RenderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	noteStyle := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))

	var help strings.Builder

	help.WriteString(titleStyle.Render("gitsuggest Help"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Searching"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s       %s\n", keyStyle.Render("type"), descStyle.Render("Search users and repositories")))
	help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("esc/tab"), descStyle.Render("Leave the input (the list clears shortly after)")))
	help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("tab, /, i"), descStyle.Render("Back to the input")))
	help.WriteString(noteStyle.Render(fmt.Sprintf("  Searches start at %d characters; users and repositories are merged by name", r.minLength)))
	help.WriteString("\n\n")

	help.WriteString(sectionStyle.Render("Suggestions"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("↑/↓, ctrl+p/n"), descStyle.Render("Move between suggestions")))
	help.WriteString(fmt.Sprintf("  %s          %s\n", keyStyle.Render("enter"), descStyle.Render("Choose the highlighted suggestion")))
	help.WriteString(fmt.Sprintf("  %s          %s\n", keyStyle.Render("click"), descStyle.Render("Choose a suggestion with the mouse")))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s          %s\n", keyStyle.Render("?"), descStyle.Render("Show this help (outside the input)")))
	help.WriteString(fmt.Sprintf("  %s          %s\n", keyStyle.Render("q"), descStyle.Render("Quit (outside the input)")))
	help.WriteString(fmt.Sprintf("  %s     %s", keyStyle.Render("ctrl+c"), descStyle.Render("Quit")))

	return help.String()
}

// HelpOps shows help in a pager
type HelpOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewHelpOps creates a new help operations instance
func NewHelpOps(program *tea.Program) *HelpOps {
	return &HelpOps{
		program: program,
	}
}

// ShowHelpInPager shows help content using ov pager
func (h *HelpOps) ShowHelpInPager(helpContent string) error {
	if h.program == nil {
		return ErrNoProgram
	}

	// Release terminal control to run ov
	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal() // Ignore error as we're in defer context
	}()

	root, err := oviewer.NewRoot(strings.NewReader(helpContent))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
