package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/jakoblorz/go-codestart/internal/tui"
)

// ExtensionList is a scrolling list of extensions with selection marks.
// Selection state lives in the project definition; the list only renders
// it and tracks the cursor.
type ExtensionList struct {
	items  []models.Extension
	tags   map[string]models.Tag
	cursor int
	offset int
	height int
}

// NewExtensionList creates a list showing height rows at a time
func NewExtensionList(height int) ExtensionList {
	if height < 1 {
		height = 10
	}
	return ExtensionList{height: height, tags: map[string]models.Tag{}}
}

// SetItems replaces the listed extensions, keeping the cursor on the same
// extension when it is still listed
func (m *ExtensionList) SetItems(items []models.Extension) {
	var current string
	if e, ok := m.Current(); ok {
		current = e.ID
	}

	m.items = items
	m.cursor = 0
	for i, e := range items {
		if e.ID == current {
			m.cursor = i
			break
		}
	}
	m.clampOffset()
}

// SetTags sets the tag definitions used to color tags
func (m *ExtensionList) SetTags(tags []models.Tag) {
	m.tags = make(map[string]models.Tag, len(tags))
	for _, t := range tags {
		m.tags[t.Name] = t
	}
}

// SetHeight changes the number of visible rows
func (m *ExtensionList) SetHeight(height int) {
	if height < 1 {
		height = 1
	}
	m.height = height
	m.clampOffset()
}

// Up moves the cursor up
func (m *ExtensionList) Up() {
	if m.cursor > 0 {
		m.cursor--
	}
	m.clampOffset()
}

// Down moves the cursor down
func (m *ExtensionList) Down() {
	if m.cursor < len(m.items)-1 {
		m.cursor++
	}
	m.clampOffset()
}

func (m *ExtensionList) clampOffset() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// Current returns the extension under the cursor
func (m ExtensionList) Current() (models.Extension, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return models.Extension{}, false
	}
	return m.items[m.cursor], true
}

// Len returns the number of listed extensions
func (m ExtensionList) Len() int {
	return len(m.items)
}

// View renders the visible rows; selected reports whether an id is part
// of the project
func (m ExtensionList) View(selected func(id string) bool) string {
	var b strings.Builder

	end := m.offset + m.height
	if end > len(m.items) {
		end = len(m.items)
	}

	for i := m.offset; i < end; i++ {
		ext := m.items[i]

		cursor := " "
		if m.cursor == i {
			cursor = tui.SelectedStyle.Render("›")
		}

		checkbox := tui.UncheckedStyle.Render("[ ]")
		if selected(ext.ID) {
			checkbox = tui.CheckedStyle.Render("[✓]")
		}

		itemStyle := lipgloss.NewStyle()
		if m.cursor == i {
			itemStyle = tui.SelectedStyle
		}

		line := fmt.Sprintf("%s %s %s", cursor, checkbox, itemStyle.Render(ext.Name))
		line += " " + tui.SubtleStyle.Render("["+ext.ID+"]")
		for _, tag := range ext.Tags {
			def, ok := m.tags[tag]
			if ok && def.Hide {
				continue
			}
			line += " " + tui.TagStyle(def.Color).Render(tag)
		}
		b.WriteString(line + "\n")

		if m.cursor == i && ext.Description != "" {
			b.WriteString("      " + tui.DescStyle.Render(ext.Description) + "\n")
		}
	}

	if len(m.items) > m.height {
		b.WriteString(tui.SubtleStyle.Render(fmt.Sprintf("  %d-%d of %d", m.offset+1, end, len(m.items))) + "\n")
	}

	return b.String()
}
