// Package ui renders CLI output. Styling is applied only when stdout is
// a terminal; piped output stays plain.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles holds the lipgloss styles used by CLI commands.
type Styles struct {
	Title   lipgloss.Style
	Brand   lipgloss.Style
	Name    lipgloss.Style
	Score   lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
}

// NewStyles builds the style set. When plain is true (not a TTY, or
// NO_COLOR requested) every style is a no-op.
func NewStyles(plain bool) Styles {
	if plain {
		s := lipgloss.NewStyle()
		return Styles{Title: s, Brand: s, Name: s, Score: s, Muted: s, Error: s, Success: s}
	}
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		Brand:   lipgloss.NewStyle().Bold(true),
		Name:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Score:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

// IsTerminal reports whether stdout is an interactive terminal.
func IsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// DefaultStyles picks styled or plain output based on the terminal and
// the NO_COLOR convention.
func DefaultStyles() Styles {
	plain := !IsTerminal() || os.Getenv("NO_COLOR") != ""
	return NewStyles(plain)
}
