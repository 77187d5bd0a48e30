// Package ui holds the interactive bits of the command line.
package ui

import (
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jimschubert/answer/colors"
)

// Decision is the answer given to a confirmation prompt
type Decision int

const (
	// Undecided indicates the user has not answered yet
	Undecided Decision = iota

	// Accepted indicates the user answered yes
	Accepted

	// Denied indicates the user answered no or aborted
	Denied
)

func (d Decision) String() string {
	return [...]string{"undecided", "accepted", "denied"}[d]
}

// IsAccepted reports whether the user answered yes
func (d Decision) IsAccepted() bool {
	return d == Accepted
}

var (
	prefixStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(colors.PromptPrefix))
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Placeholder))
)

// ConfirmModel is a single-key y/N prompt. Any key other than y or n is
// ignored; enter, esc and ctrl+c deny.
type ConfirmModel struct {
	Prompt string

	selected Decision
	done     bool
}

// NewConfirm creates a prompt that defaults to Denied
func NewConfirm(prompt string) *ConfirmModel {
	return &ConfirmModel{Prompt: prompt}
}

// Selected returns the decision made so far
func (m *ConfirmModel) Selected() Decision {
	return m.selected
}

// Init satisfies the tea.Model interface
func (m *ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update satisfies the tea.Model interface
func (m *ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
		return m.decide(Denied)
	}

	switch strings.ToLower(key.String()) {
	case "y":
		return m.decide(Accepted)
	case "n":
		return m.decide(Denied)
	}
	return m, nil
}

func (m *ConfirmModel) decide(d Decision) (tea.Model, tea.Cmd) {
	m.selected = d
	m.done = true
	return m, tea.Quit
}

// View satisfies the tea.Model interface
func (m *ConfirmModel) View() string {
	var b strings.Builder
	b.WriteString(prefixStyle.Render("?"))
	b.WriteString(" ")
	b.WriteString(m.Prompt)
	b.WriteString(" ")
	if m.done {
		if m.selected.IsAccepted() {
			b.WriteString("yes")
		} else {
			b.WriteString("no")
		}
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(placeholderStyle.Render("y/N"))
	return b.String()
}

// Confirm asks prompt on the terminal and reports whether the user accepted
func Confirm(in io.Reader, out io.Writer, prompt string) bool {
	m := NewConfirm(prompt)
	p := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out))
	if _, err := p.Run(); err != nil {
		slog.Error("confirm failed", "error", err)
		return false
	}
	return m.Selected().IsAccepted()
}
