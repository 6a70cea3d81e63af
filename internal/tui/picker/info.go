package picker

import (
	"errors"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	huh "github.com/charmbracelet/huh"
	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/jakoblorz/go-codestart/internal/project"
	"github.com/jakoblorz/go-codestart/internal/tui"
)

// infoValues are the form-bound copies of the project metadata
type infoValues struct {
	base        *models.ProjectDefinition
	groupID     string
	artifactID  string
	version     string
	buildTool   string
	javaVersion string
	noCode      bool
}

func newInfoValues(p *models.ProjectDefinition) *infoValues {
	return &infoValues{
		base:        p,
		groupID:     p.GroupID,
		artifactID:  p.ArtifactID,
		version:     p.Version,
		buildTool:   string(p.BuildTool),
		javaVersion: p.JavaVersion,
		noCode:      p.NoCode,
	}
}

func (v *infoValues) edits() []project.Edit {
	return []project.Edit{
		project.WithGroupID(v.groupID),
		project.WithArtifactID(v.artifactID),
		project.WithVersion(v.version),
		project.WithBuildTool(models.BuildTool(v.buildTool)),
		project.WithJavaVersion(v.javaVersion),
		project.WithNoCode(v.noCode),
	}
}

// validateField checks a single field by validating the project with that
// field replaced
func validateField(base *models.ProjectDefinition, field string, edit project.Edit) error {
	for _, fe := range project.Validate(project.Apply(base, edit)) {
		if fe.Field == field {
			return errors.New(fe.Message)
		}
	}
	return nil
}

func formKeyMap() *huh.KeyMap {
	keyMap := huh.NewDefaultKeyMap()
	keyMap.Quit = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
	return keyMap
}

// embed prepares a form to run inside the picker rather than as its own
// program
func embed(form *huh.Form) *huh.Form {
	form.SubmitCmd = nil
	form.CancelCmd = nil
	return form
}

func newInfoForm(v *infoValues, javaVersions []int) *huh.Form {
	buildTools := make([]huh.Option[string], 0, len(models.BuildTools()))
	for _, bt := range models.BuildTools() {
		buildTools = append(buildTools, huh.NewOption(bt.Label(), string(bt)))
	}

	var java huh.Field
	if len(javaVersions) > 0 {
		opts := []huh.Option[string]{huh.NewOption("stream default", "")}
		for _, jv := range javaVersions {
			s := strconv.Itoa(jv)
			opts = append(opts, huh.NewOption(s, s))
		}
		java = huh.NewSelect[string]().
			Title("Java version").
			Options(opts...).
			Value(&v.javaVersion)
	} else {
		java = huh.NewInput().
			Title("Java version").
			Description("Leave empty for the stream default").
			Value(&v.javaVersion).
			Validate(func(s string) error {
				return validateField(v.base, "javaVersion", project.WithJavaVersion(s))
			})
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Group").
				Value(&v.groupID).
				Validate(func(s string) error {
					return validateField(v.base, "groupId", project.WithGroupID(s))
				}),
			huh.NewInput().
				Title("Artifact").
				Value(&v.artifactID).
				Validate(func(s string) error {
					return validateField(v.base, "artifactId", project.WithArtifactID(s))
				}),
			huh.NewInput().
				Title("Version").
				Value(&v.version).
				Validate(func(s string) error {
					return validateField(v.base, "version", project.WithVersion(s))
				}),
			huh.NewSelect[string]().
				Title("Build tool").
				Options(buildTools...).
				Value(&v.buildTool),
			java,
			huh.NewConfirm().
				Title("Starter code").
				Description("Include example code for the selected extensions").
				Affirmative("No code").
				Negative("With code").
				Value(&v.noCode),
		),
	).
		WithTheme(tui.NewHuhTheme()).
		WithShowHelp(true).
		WithKeyMap(formKeyMap())

	return embed(form)
}
