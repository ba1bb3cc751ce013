package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	userStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6e7681"))
	marvinLabel  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00c6ff"))
	marvinStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e6edf3"))
	actionStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#ffd700"))
	statusStyle  = lipgloss.NewStyle().Faint(true)
	bannerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00c6ff")).Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#00c6ff"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
	proModeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff00ff"))
)

// terminal renders the conversation and UI actions on a terminal.
type terminal struct {
	mu       sync.Mutex
	w        io.Writer
	echoUser bool
}

func (t *terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, format, args...)
}

func (t *terminal) ShowUser(text string) {
	if t.echoUser {
		t.printf("%s %s\n", userStyle.Render("you ›"), text)
	}
}

func (t *terminal) ShowResponse(text string) {
	t.printf("%s %s\n", marvinLabel.Render("marvin ›"), marvinStyle.Render(text))
}

func (t *terminal) ShowStatus(text string) {
	t.printf("%s\n", statusStyle.Render(text))
}

func (t *terminal) ShowError(err error) {
	t.printf("%s\n", errorStyle.Render(err.Error()))
}

// OpenURL prints the link; a terminal has no page to navigate.
func (t *terminal) OpenURL(_ context.Context, url string) error {
	t.printf("%s %s\n", actionStyle.Render("↗ open"), url)
	return nil
}

func (t *terminal) Hide(context.Context) error {
	t.printf("%s\n", actionStyle.Render("(marvin is hidden)"))
	return nil
}
