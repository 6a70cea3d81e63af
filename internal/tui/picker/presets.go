package picker

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	huh "github.com/charmbracelet/huh"
	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/jakoblorz/go-codestart/internal/tui"
)

// presetMultiSelect is a multi select where submitting with nothing
// selected picks the hovered preset
type presetMultiSelect struct {
	*huh.MultiSelect[string]
	keymap *huh.KeyMap
}

func newPresetMultiSelect(selected *[]string) *presetMultiSelect {
	return &presetMultiSelect{
		MultiSelect: huh.NewMultiSelect[string]().Value(selected),
	}
}

func (p *presetMultiSelect) Options(options ...huh.Option[string]) *presetMultiSelect {
	p.MultiSelect.Options(options...)
	return p
}

func (p *presetMultiSelect) WithKeyMap(k *huh.KeyMap) huh.Field {
	p.keymap = k
	p.MultiSelect.WithKeyMap(k)
	return p
}

func (p *presetMultiSelect) KeyBinds() []key.Binding {
	binds := p.MultiSelect.KeyBinds()
	if p.keymap == nil || p.selectedCount() > 0 {
		return binds
	}

	submitKeys := p.keymap.MultiSelect.Submit.Keys()
	for i := range binds {
		if len(submitKeys) > 0 && sameKeys(binds[i].Keys(), submitKeys) {
			binds[i].SetHelp(submitKeys[0], "apply hovered")
			break
		}
	}
	return binds
}

func (p *presetMultiSelect) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok && p.keymap != nil &&
		key.Matches(keyMsg, p.keymap.MultiSelect.Submit) && p.selectedCount() == 0 {
		if _, hovered := p.MultiSelect.Hovered(); hovered {
			model, cmd := p.MultiSelect.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			p.MultiSelect = model.(*huh.MultiSelect[string])
			cmds = append(cmds, cmd)
		}
	}

	model, cmd := p.MultiSelect.Update(msg)
	p.MultiSelect = model.(*huh.MultiSelect[string])
	cmds = append(cmds, cmd)
	return p, tea.Batch(cmds...)
}

func (p *presetMultiSelect) selectedCount() int {
	value, ok := p.MultiSelect.GetValue().([]string)
	if !ok {
		return 0
	}
	return len(value)
}

func sameKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func presetLabel(p models.Preset) string {
	label := p.Title
	if p.Icon != "" {
		label = p.Icon + " " + label
	}
	label = fmt.Sprintf("%s (%d extensions)", label, len(p.Extensions))
	if p.Local {
		label += " · local"
	}
	return label
}

func newPresetForm(presets []models.Preset, chosen *[]string) *huh.Form {
	opts := make([]huh.Option[string], 0, len(presets))
	for _, p := range presets {
		opts = append(opts, huh.NewOption(presetLabel(p), p.Key))
	}

	keyMap := formKeyMap()
	keyMap.MultiSelect.Toggle = key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle"))

	form := huh.NewForm(
		huh.NewGroup(
			newPresetMultiSelect(chosen).
				Options(opts...),
		).
			Title("Presets").
			Description("Selected presets add their extensions to the project"),
	).
		WithTheme(tui.NewHuhTheme()).
		WithShowHelp(true).
		WithKeyMap(keyMap)

	return embed(form)
}
