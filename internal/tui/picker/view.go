package picker

import (
	"fmt"
	"strings"

	"github.com/jakoblorz/go-codestart/internal/api"
	"github.com/jakoblorz/go-codestart/internal/tui"
)

// View renders the picker
func (m Model) View() string {
	switch m.mode {
	case modeStreams:
		return tui.TitleStyle.Render("Pick a stream") + "\n" + m.radio.View()
	case modeTarget:
		return tui.TitleStyle.Render("Generate "+m.project.ArtifactID) + "\n" + m.radio.View()
	case modeConfirmReset:
		return m.confirm.View()
	case modeInfo, modePresets:
		if m.form != nil {
			return m.form.View()
		}
	}

	var b strings.Builder

	b.WriteString(m.header() + "\n\n")
	b.WriteString(m.input.View() + "\n\n")

	switch {
	case m.loading && !m.deps.Session.Loaded():
		b.WriteString(tui.SubtleStyle.Render("Loading extensions...") + "\n")
	case m.list.Len() == 0 && m.deps.Session.Loaded():
		b.WriteString(tui.SubtleStyle.Render("No extension matches the search.") + "\n")
	default:
		b.WriteString(m.list.View(m.project.Extensions.Contains))
	}

	b.WriteString("\n" + m.summary() + "\n")

	if notice := m.missingNotice(); notice != "" {
		b.WriteString(notice + "\n")
	}
	if m.notice != "" {
		b.WriteString(tui.WarningStyle.Render(m.notice) + "\n")
	}
	if m.err != nil {
		b.WriteString(tui.ErrorStyle.Render("✗ "+m.err.Error()) + "\n")
	}

	b.WriteString(tui.HelpStyle.Render(m.keys.shortHelp()))
	return b.String()
}

func (m Model) header() string {
	stream := "loading"
	if platform := m.deps.Session.Platform(); platform != nil {
		s, _ := api.ProjectStream(platform, m.project.StreamKey)
		stream = api.StreamID(s.Key)
	}

	gav := fmt.Sprintf("%s:%s:%s", m.project.GroupID, m.project.ArtifactID, m.project.Version)
	line := tui.HeaderStyle.Render(stream) + " " + tui.SelectedStyle.Render(gav) +
		" " + tui.SubtleStyle.Render(m.project.BuildTool.Label())
	if m.project.PlatformOnly {
		line += " " + tui.SubtleStyle.Render("(platform only)")
	}
	return line
}

func (m Model) summary() string {
	count := len(m.project.Extensions)
	line := tui.SuccessStyle.Render(fmt.Sprintf("%d selected", count))
	if m.loading && m.deps.Session.Loaded() {
		line += " " + tui.SubtleStyle.Render("(refreshing)")
	}
	if m.deps.URL != nil {
		if u := m.deps.URL.Current(); u != "" {
			line += "\n" + tui.SubtleStyle.Render(u)
		}
	}
	return line
}

func (m Model) missingNotice() string {
	if len(m.missing) == 0 {
		return ""
	}

	parts := make([]string, 0, len(m.missing))
	for _, id := range m.missing {
		part := id
		if s := m.suggestions[id]; len(s) > 0 {
			part += " (did you mean " + strings.Join(s, ", ") + "?)"
		}
		parts = append(parts, part)
	}
	return tui.WarningStyle.Render("⚠ Not available in this catalog: " + strings.Join(parts, "; "))
}
