package models

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// BuildTool selects the build system of the generated project
type BuildTool string

const (
	BuildToolMaven           BuildTool = "MAVEN"
	BuildToolGradle          BuildTool = "GRADLE"
	BuildToolGradleKotlinDSL BuildTool = "GRADLE_KOTLIN_DSL"
)

// IsValid checks if the build tool is valid
func (b BuildTool) IsValid() bool {
	switch b {
	case BuildToolMaven, BuildToolGradle, BuildToolGradleKotlinDSL:
		return true
	default:
		return false
	}
}

// String returns the string representation of BuildTool
func (b BuildTool) String() string {
	return string(b)
}

// Label returns a human readable name.
func (b BuildTool) Label() string {
	switch b {
	case BuildToolGradle:
		return "Gradle"
	case BuildToolGradleKotlinDSL:
		return "Gradle with Kotlin DSL"
	default:
		return "Maven"
	}
}

// ParseBuildTool parses a string into a BuildTool, ignoring case
func ParseBuildTool(s string) (BuildTool, error) {
	bt := BuildTool(strings.ToUpper(strings.TrimSpace(s)))
	if !bt.IsValid() {
		return "", fmt.Errorf("invalid build tool: %s (must be MAVEN, GRADLE, or GRADLE_KOTLIN_DSL)", s)
	}
	return bt, nil
}

// BuildTools lists every supported build tool in display order.
func BuildTools() []BuildTool {
	return []BuildTool{BuildToolMaven, BuildToolGradle, BuildToolGradleKotlinDSL}
}

// Target is where a generated project ends up
type Target string

const (
	// TargetDownload fetches the archive to a local file
	TargetDownload Target = "DOWNLOAD"

	// TargetGenerate only produces the download and share URLs
	TargetGenerate Target = "GENERATE"

	// TargetGitHub pushes the generated project to a new GitHub repository
	TargetGitHub Target = "GITHUB"
)

// IsValid checks if the target is valid
func (t Target) IsValid() bool {
	switch t {
	case TargetDownload, TargetGenerate, TargetGitHub:
		return true
	default:
		return false
	}
}

// String returns the string representation of Target
func (t Target) String() string {
	return string(t)
}

// ParseTarget parses a string into a Target, ignoring case
func ParseTarget(s string) (Target, error) {
	t := Target(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid target: %s (must be DOWNLOAD, GENERATE, or GITHUB)", s)
	}
	return t, nil
}

// ExtensionSet is an unordered set of extension ids. Display order comes
// from the catalog, so two sets are equal regardless of insertion order.
type ExtensionSet []string

// NewExtensionSet builds a set from ids, dropping blanks and duplicates.
func NewExtensionSet(ids ...string) ExtensionSet {
	set := make(ExtensionSet, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		set = append(set, id)
	}
	return set
}

// Contains reports whether id is in the set.
func (s ExtensionSet) Contains(id string) bool {
	return slices.Contains(s, id)
}

// With returns a copy of the set including id.
func (s ExtensionSet) With(id string) ExtensionSet {
	return NewExtensionSet(append(slices.Clone(s), id)...)
}

// Without returns a copy of the set excluding id.
func (s ExtensionSet) Without(id string) ExtensionSet {
	out := make(ExtensionSet, 0, len(s))
	for _, existing := range s {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// Sorted returns the ids in lexical order.
func (s ExtensionSet) Sorted() []string {
	out := slices.Clone([]string(s))
	sort.Strings(out)
	return out
}

// Equal compares two sets ignoring order.
func (s ExtensionSet) Equal(other ExtensionSet) bool {
	a := NewExtensionSet(s...).Sorted()
	b := NewExtensionSet(other...).Sorted()
	return slices.Equal(a, b)
}

// GitHubIntent carries the OAuth round trip of a pending GitHub push.
type GitHubIntent struct {
	Code  string `json:"code,omitempty"`
	State string `json:"state,omitempty"`
}

// ProjectDefinition is the full description of a project to generate.
type ProjectDefinition struct {
	GroupID      string        `json:"groupId"`
	ArtifactID   string        `json:"artifactId"`
	Version      string        `json:"version"`
	ClassName    string        `json:"className,omitempty"`
	Path         string        `json:"path,omitempty"`
	BuildTool    BuildTool     `json:"buildTool"`
	JavaVersion  string        `json:"javaVersion,omitempty"`
	NoCode       bool          `json:"noCode"`
	Extensions   ExtensionSet  `json:"extensions"`
	StreamKey    string        `json:"streamKey,omitempty"`
	PlatformOnly bool          `json:"platformOnly,omitempty"`
	GitHub       *GitHubIntent `json:"github,omitempty"`
}

const (
	DefaultGroupID    = "org.acme"
	DefaultArtifactID = "code-with-quarkus"
	DefaultVersion    = "1.0.0-SNAPSHOT"
	DefaultBuildTool  = BuildToolMaven
)

// NewDefaultProject returns the project every session starts from.
func NewDefaultProject() *ProjectDefinition {
	return &ProjectDefinition{
		GroupID:    DefaultGroupID,
		ArtifactID: DefaultArtifactID,
		Version:    DefaultVersion,
		BuildTool:  DefaultBuildTool,
		Extensions: ExtensionSet{},
	}
}

// Clone returns a deep copy.
func (p *ProjectDefinition) Clone() *ProjectDefinition {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Extensions = slices.Clone(p.Extensions)
	if clone.Extensions == nil {
		clone.Extensions = ExtensionSet{}
	}
	if p.GitHub != nil {
		gh := *p.GitHub
		clone.GitHub = &gh
	}
	return &clone
}

// Equal compares two definitions field by field; extension order is ignored.
func (p *ProjectDefinition) Equal(other *ProjectDefinition) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.GroupID != other.GroupID ||
		p.ArtifactID != other.ArtifactID ||
		p.Version != other.Version ||
		p.ClassName != other.ClassName ||
		p.Path != other.Path ||
		p.BuildTool != other.BuildTool ||
		p.JavaVersion != other.JavaVersion ||
		p.NoCode != other.NoCode ||
		p.StreamKey != other.StreamKey ||
		p.PlatformOnly != other.PlatformOnly {
		return false
	}
	if (p.GitHub == nil) != (other.GitHub == nil) {
		return false
	}
	if p.GitHub != nil && *p.GitHub != *other.GitHub {
		return false
	}
	return p.Extensions.Equal(other.Extensions)
}
