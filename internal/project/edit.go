package project

import (
	"strings"

	"github.com/jakoblorz/go-codestart/internal/models"
)

// Edit changes one aspect of a project definition.
type Edit func(p *models.ProjectDefinition)

// Apply returns a copy of p with edits applied; p itself is not modified.
func Apply(p *models.ProjectDefinition, edits ...Edit) *models.ProjectDefinition {
	next := p.Clone()
	for _, edit := range edits {
		edit(next)
	}
	return next
}

func WithGroupID(v string) Edit {
	return func(p *models.ProjectDefinition) { p.GroupID = strings.TrimSpace(v) }
}

func WithArtifactID(v string) Edit {
	return func(p *models.ProjectDefinition) { p.ArtifactID = strings.TrimSpace(v) }
}

func WithVersion(v string) Edit {
	return func(p *models.ProjectDefinition) { p.Version = strings.TrimSpace(v) }
}

func WithBuildTool(bt models.BuildTool) Edit {
	return func(p *models.ProjectDefinition) { p.BuildTool = bt }
}

func WithJavaVersion(v string) Edit {
	return func(p *models.ProjectDefinition) { p.JavaVersion = strings.TrimSpace(v) }
}

func WithNoCode(noCode bool) Edit {
	return func(p *models.ProjectDefinition) { p.NoCode = noCode }
}

func WithStream(key string) Edit {
	return func(p *models.ProjectDefinition) { p.StreamKey = key }
}

func WithPlatformOnly(platformOnly bool) Edit {
	return func(p *models.ProjectDefinition) { p.PlatformOnly = platformOnly }
}

// WithExtensions replaces the selection.
func WithExtensions(ids ...string) Edit {
	return func(p *models.ProjectDefinition) { p.Extensions = models.NewExtensionSet(ids...) }
}

// ToggleExtension selects id, or deselects it when already selected.
func ToggleExtension(id string) Edit {
	return func(p *models.ProjectDefinition) {
		if p.Extensions.Contains(id) {
			p.Extensions = p.Extensions.Without(id)
			return
		}
		p.Extensions = p.Extensions.With(id)
	}
}

// WithoutGitHub drops a consumed GitHub intent.
func WithoutGitHub() Edit {
	return func(p *models.ProjectDefinition) { p.GitHub = nil }
}
