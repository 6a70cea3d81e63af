package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jakoblorz/go-codestart/internal/tui"
)

// RadioOption represents a single radio option
type RadioOption struct {
	Value       string
	Label       string
	Description string
}

// RadioModel is a radio button component embedded in a larger model. It
// reports completion through IsDone instead of quitting the program.
type RadioModel struct {
	options   []RadioOption
	cursor    int
	selected  int
	done      bool
	cancelled bool
}

// NewRadio creates a new radio button component with the option whose
// value equals current preselected
func NewRadio(options []RadioOption, current string) RadioModel {
	m := RadioModel{
		options:  options,
		selected: -1,
	}
	for i, o := range options {
		if o.Value == current {
			m.cursor = i
			m.selected = i
		}
	}
	return m
}

// Init initializes the component
func (m RadioModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m RadioModel) Update(msg tea.Msg) (RadioModel, tea.Cmd) {
	if m.done {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case "enter", " ":
			if len(m.options) > 0 {
				m.selected = m.cursor
			}
			m.done = true
		case "q", "esc":
			m.cancelled = true
			m.done = true
		}
	}
	return m, nil
}

// View renders the component
func (m RadioModel) View() string {
	var b strings.Builder

	for i, option := range m.options {
		cursor := " "
		if m.cursor == i {
			cursor = tui.SelectedStyle.Render("›")
		}

		radio := tui.UncheckedStyle.Render("( )")
		if m.selected == i {
			radio = tui.CheckedStyle.Render("(•)")
		}

		labelStyle := lipgloss.NewStyle()
		if m.cursor == i {
			labelStyle = tui.SelectedStyle
		}

		label := labelStyle.Render(option.Label)
		if option.Description != "" {
			label += "  " + tui.DescStyle.Render(option.Description)
		}

		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, radio, label))
	}

	return b.String()
}

// GetSelected returns the selected option value
func (m RadioModel) GetSelected() string {
	if m.selected >= 0 && m.selected < len(m.options) {
		return m.options[m.selected].Value
	}
	return ""
}

// IsDone returns whether the user finished selecting
func (m RadioModel) IsDone() bool {
	return m.done
}

// IsCancelled returns whether the user left without choosing
func (m RadioModel) IsCancelled() bool {
	return m.cancelled
}
