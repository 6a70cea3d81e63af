package picker

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	huh "github.com/charmbracelet/huh"
	"github.com/jakoblorz/go-codestart/internal/api"
	"github.com/jakoblorz/go-codestart/internal/catalog"
	"github.com/jakoblorz/go-codestart/internal/logger"
	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/jakoblorz/go-codestart/internal/presets"
	"github.com/jakoblorz/go-codestart/internal/project"
	"github.com/jakoblorz/go-codestart/internal/search"
	"github.com/jakoblorz/go-codestart/internal/storage"
	"github.com/jakoblorz/go-codestart/internal/tui/components"
)

const fetchTimeout = 30 * time.Second

// mode is the screen the picker currently shows
type mode int

const (
	modeBrowse mode = iota
	modeStreams
	modeTarget
	modeInfo
	modePresets
	modeConfirmReset
)

// Action is what the user asked for when leaving the picker
type Action int

const (
	ActionQuit Action = iota
	ActionGenerate
)

// Deps are the collaborators of the picker
type Deps struct {
	API     api.Client
	Session *catalog.Session
	Sync    *project.Synchronizer
	URL     *project.URLSink
	Store   storage.Store
	Log     *logger.Logger

	// LocalPresets are merged with the presets of every fetched platform
	LocalPresets []models.Preset
}

// platformLoadedMsg carries the result of a platform fetch
type platformLoadedMsg struct {
	token     uint64
	streamKey string
	platform  *models.Platform
	err       error
}

// Model is the bubbletea model of the interactive extension picker
type Model struct {
	deps Deps
	keys keyMap
	mode mode

	project *models.ProjectDefinition
	presets []models.Preset

	input   textinput.Model
	list    components.ExtensionList
	radio   components.RadioModel
	confirm components.ConfirmModel
	form    *huh.Form
	info    *infoValues
	chosen  *[]string

	missing     []string
	suggestions map[string][]string
	notice      string
	loading     bool
	err         error

	action Action
	target models.Target

	width  int
	height int
}

// New creates a picker starting from initial with filter typed into the
// search box
func New(deps Deps, initial *models.ProjectDefinition, filter string) Model {
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	if initial == nil {
		initial = models.NewDefaultProject()
	}

	input := textinput.New()
	input.Placeholder = "Search extensions, e.g. rest, category:data, status:preview"
	input.Prompt = "› "
	input.SetValue(filter)
	input.Focus()

	if deps.URL != nil {
		deps.URL.Set(initial)
	}

	return Model{
		deps:        deps,
		keys:        defaultKeyMap(),
		project:     initial.Clone(),
		input:       input,
		list:        components.NewExtensionList(12),
		suggestions: map[string][]string{},
		loading:     true,
	}
}

// Init starts the first catalog fetch
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetch())
}

// Project returns the current project definition
func (m Model) Project() *models.ProjectDefinition {
	return m.project.Clone()
}

// Action returns what the user asked for on exit
func (m Model) Action() Action {
	return m.action
}

// Target returns the generation target chosen by the user
func (m Model) Target() models.Target {
	return m.target
}

// Missing returns the requested extensions the current catalog lacks
func (m Model) Missing() []string {
	return m.missing
}

// fetch starts loading the platform of the current project stream. Only
// the most recent fetch is allowed to install its result.
func (m *Model) fetch() tea.Cmd {
	token := m.deps.Session.BeginFetch()
	streamKey := m.project.StreamKey
	platformOnly := m.project.PlatformOnly
	client := m.deps.API
	m.loading = true

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		platform, err := client.FetchPlatform(ctx, streamKey, platformOnly)
		return platformLoadedMsg{token: token, streamKey: streamKey, platform: platform, err: err}
	}
}

// setProject replaces the project and schedules its sync
func (m *Model) setProject(p *models.ProjectDefinition) tea.Cmd {
	m.project = p
	if m.deps.Sync == nil {
		return nil
	}
	return m.deps.Sync.Edit(p)
}

func (m *Model) edit(edits ...project.Edit) tea.Cmd {
	return m.setProject(project.Apply(m.project, edits...))
}

func (m *Model) refresh() {
	m.list.SetItems(search.SearchText(m.input.Value(), m.deps.Session.Index()))
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case project.FlushMsg, project.SyncedMsg:
		if m.deps.Sync == nil {
			return m, nil
		}
		return m, m.deps.Sync.Update(msg)

	case platformLoadedMsg:
		return m.onPlatformLoaded(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetHeight(msg.Height - 14)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.action = ActionQuit
			return m, tea.Quit
		}
	}

	switch m.mode {
	case modeStreams:
		return m.updateStreams(msg)
	case modeTarget:
		return m.updateTarget(msg)
	case modeInfo:
		return m.updateInfo(msg)
	case modePresets:
		return m.updatePresets(msg)
	case modeConfirmReset:
		return m.updateConfirmReset(msg)
	}
	return m.updateBrowse(msg)
}

var errEmptyCatalog = errors.New("the service returned no catalog")

func (m Model) onPlatformLoaded(msg platformLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil && msg.platform == nil {
		msg.err = errEmptyCatalog
	}
	if msg.err != nil {
		if !m.deps.Session.IsCurrent(msg.token) {
			return m, nil
		}
		m.loading = false
		m.err = fmt.Errorf("failed to load the extension catalog: %w", msg.err)
		m.deps.Log.Error("platform fetch failed", "stream", msg.streamKey, "error", msg.err)
		return m, nil
	}

	result, err := m.deps.Session.Accept(msg.token, msg.streamKey, msg.platform, m.project.Extensions)
	if errors.Is(err, catalog.ErrStaleFetch) {
		m.deps.Log.Debug("discarding stale platform", "stream", msg.streamKey)
		return m, nil
	}

	m.loading = false
	m.err = nil
	m.notice = ""
	m.list.SetTags(msg.platform.Tags)
	m.presets = presets.Merge(msg.platform.Presets, m.deps.LocalPresets)

	if m.project.StreamKey != "" {
		if _, found := api.ProjectStream(msg.platform, m.project.StreamKey); !found {
			m.notice = fmt.Sprintf("Stream %s is not available, using the recommended stream.", m.project.StreamKey)
		}
	}

	m.setMissing(result.Missing)
	m.refresh()

	var cmd tea.Cmd
	if !models.NewExtensionSet(result.IDs()...).Equal(m.project.Extensions) {
		cmd = m.edit(project.WithExtensions(result.IDs()...))
	} else if m.deps.URL != nil {
		// shortcuts depend on the catalog
		m.deps.URL.Set(m.project)
	}
	return m, cmd
}

func (m *Model) setMissing(missing []string) {
	m.missing = missing
	m.suggestions = make(map[string][]string, len(missing))
	idx := m.deps.Session.Index()
	for _, id := range missing {
		for _, ext := range idx.Suggest(id, 3) {
			m.suggestions[id] = append(m.suggestions[id], catalog.Shortcut(ext.ID))
		}
	}
}

func (m Model) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.list.Up()
		return m, nil

	case key.Matches(keyMsg, m.keys.Down):
		m.list.Down()
		return m, nil

	case key.Matches(keyMsg, m.keys.Toggle):
		ext, ok := m.list.Current()
		if !ok {
			return m, nil
		}
		return m, m.edit(project.ToggleExtension(ext.ID))

	case key.Matches(keyMsg, m.keys.Clear):
		if m.input.Value() == "" {
			m.action = ActionQuit
			return m, tea.Quit
		}
		m.input.SetValue("")
		m.refresh()
		return m, nil

	case key.Matches(keyMsg, m.keys.Generate):
		if errs := project.Validate(m.project); len(errs) > 0 {
			m.err = fmt.Errorf("cannot generate, %s", errs[0].Error())
			return m, nil
		}
		m.err = nil
		m.mode = modeTarget
		m.radio = components.NewRadio([]components.RadioOption{
			{Value: string(models.TargetDownload), Label: "Download", Description: "save the project zip"},
			{Value: string(models.TargetGenerate), Label: "Link", Description: "print download and share URLs"},
			{Value: string(models.TargetGitHub), Label: "GitHub", Description: "push to a new repository"},
		}, string(models.TargetDownload))
		return m, nil

	case key.Matches(keyMsg, m.keys.Streams):
		platform := m.deps.Session.Platform()
		if platform == nil || len(platform.Streams) == 0 {
			return m, nil
		}
		current, _ := api.ProjectStream(platform, m.project.StreamKey)
		m.mode = modeStreams
		m.radio = components.NewRadio(streamOptions(platform.Streams), current.Key)
		return m, nil

	case key.Matches(keyMsg, m.keys.Info):
		m.info = newInfoValues(m.project)
		m.form = newInfoForm(m.info, m.javaVersions())
		m.mode = modeInfo
		return m, m.form.Init()

	case key.Matches(keyMsg, m.keys.Presets):
		if len(m.presets) == 0 {
			m.notice = "No presets available."
			return m, nil
		}
		chosen := []string{}
		m.chosen = &chosen
		m.form = newPresetForm(m.presets, m.chosen)
		m.mode = modePresets
		return m, m.form.Init()

	case key.Matches(keyMsg, m.keys.PlatformOnly):
		cmd := m.edit(project.WithPlatformOnly(!m.project.PlatformOnly))
		fetchCmd := m.fetch()
		return m, tea.Batch(cmd, fetchCmd)

	case key.Matches(keyMsg, m.keys.Reset):
		m.mode = modeConfirmReset
		m.confirm = components.NewConfirm("Reset the project to its defaults and forget the saved one?")
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refresh()
	}
	return m, cmd
}

func streamOptions(streams []models.Stream) []components.RadioOption {
	opts := make([]components.RadioOption, 0, len(streams))
	for _, s := range streams {
		desc := "platform " + s.PlatformVersion
		if s.Recommended {
			desc += ", recommended"
		}
		if s.Status != "" && s.Status != "FINAL" {
			desc += ", " + s.Status
		}
		opts = append(opts, components.RadioOption{Value: s.Key, Label: api.StreamID(s.Key), Description: desc})
	}
	return opts
}

func (m Model) javaVersions() []int {
	platform := m.deps.Session.Platform()
	if platform == nil {
		return nil
	}
	stream, _ := api.ProjectStream(platform, m.project.StreamKey)
	return stream.JavaCompatibility.Versions
}

func (m Model) updateStreams(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.radio, cmd = m.radio.Update(msg)
	if !m.radio.IsDone() {
		return m, cmd
	}

	m.mode = modeBrowse
	selected := m.radio.GetSelected()
	if m.radio.IsCancelled() || selected == "" {
		return m, nil
	}

	platform := m.deps.Session.Platform()
	if current, _ := api.ProjectStream(platform, m.project.StreamKey); current.Key == selected {
		return m, nil
	}
	if rec, ok := api.RecommendedStream(platform); ok && rec.Key == selected {
		// the recommended stream stays implicit so shared links follow it
		selected = ""
	}
	editCmd := m.edit(project.WithStream(selected))
	fetchCmd := m.fetch()
	return m, tea.Batch(editCmd, fetchCmd)
}

func (m Model) updateTarget(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.radio, cmd = m.radio.Update(msg)
	if !m.radio.IsDone() {
		return m, cmd
	}

	m.mode = modeBrowse
	if m.radio.IsCancelled() {
		return m, nil
	}
	target, err := models.ParseTarget(m.radio.GetSelected())
	if err != nil {
		m.err = err
		return m, nil
	}
	m.target = target
	m.action = ActionGenerate
	return m, tea.Quit
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}
	return m, cmd
}

func (m Model) updateInfo(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.updateForm(msg)
	switch m.form.State {
	case huh.StateCompleted:
		m.mode = modeBrowse
		m.form = nil
		return m, tea.Batch(cmd, m.edit(m.info.edits()...))
	case huh.StateAborted:
		m.mode = modeBrowse
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m Model) updatePresets(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.updateForm(msg)
	switch m.form.State {
	case huh.StateCompleted:
		m.mode = modeBrowse
		m.form = nil
		return m, tea.Batch(cmd, m.applyPresets(*m.chosen))
	case huh.StateAborted:
		m.mode = modeBrowse
		m.form = nil
		return m, nil
	}
	return m, cmd
}

// applyPresets adds the extensions of the chosen presets to the selection
func (m *Model) applyPresets(keys []string) tea.Cmd {
	var requested []string
	for _, k := range keys {
		if p, ok := presets.Find(m.presets, k); ok {
			requested = append(requested, p.Extensions...)
		}
	}
	if len(requested) == 0 {
		return nil
	}

	result := m.deps.Session.Index().Map(requested)
	m.setMissing(result.Missing)

	ids := slices.Concat([]string(m.project.Extensions), result.IDs())
	return m.edit(project.WithExtensions(ids...))
}

func (m Model) updateConfirmReset(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.confirm, cmd = m.confirm.Update(msg)
	if !m.confirm.IsDone() {
		return m, cmd
	}

	m.mode = modeBrowse
	if !m.confirm.IsConfirmed() {
		return m, nil
	}

	previous := m.project
	var fresh *models.ProjectDefinition
	if m.deps.Store != nil {
		p, err := project.Reset(m.deps.Store)
		if err != nil {
			m.err = err
			return m, nil
		}
		fresh = p
	} else {
		fresh = models.NewDefaultProject()
	}

	if m.deps.Sync != nil {
		m.deps.Sync.Discard()
	}
	m.missing = nil
	m.suggestions = map[string][]string{}
	m.project = fresh
	if m.deps.URL != nil {
		m.deps.URL.Set(fresh)
	}

	if previous.StreamKey != fresh.StreamKey || previous.PlatformOnly != fresh.PlatformOnly {
		fetchCmd := m.fetch()
		return m, fetchCmd
	}
	return m, nil
}
