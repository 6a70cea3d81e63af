package project

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/jakoblorz/go-codestart/internal/catalog"
	"github.com/jakoblorz/go-codestart/internal/models"
)

// Query keys of the shareable project URL.
const (
	KeyGroupID      = "g"
	KeyArtifactID   = "a"
	KeyVersion      = "v"
	KeyBuildTool    = "b"
	KeyJavaVersion  = "j"
	KeyNoCode       = "nc"
	KeyExtensions   = "e"
	KeyStream       = "S"
	KeyStreamLong   = "streamKey"
	KeyPlatformOnly = "po"
	KeyClassName    = "c"
	KeyPath         = "p"
	KeyGitHub       = "github"
	KeyCode         = "code"
	KeyState        = "state"
	KeyClientName   = "cn"
	KeyFilter       = "extension-search"
)

var projectKeys = []string{
	KeyGroupID, KeyArtifactID, KeyVersion, KeyBuildTool, KeyJavaVersion, KeyNoCode,
	KeyExtensions, KeyStream, KeyStreamLong, KeyPlatformOnly, KeyClassName, KeyPath, KeyGitHub,
}

// HasProjectParams reports whether values carry any project field.
func HasProjectParams(values url.Values) bool {
	for _, k := range projectKeys {
		if _, ok := values[k]; ok {
			return true
		}
	}
	return false
}

// ParseQuery parses a raw query string, tolerating a leading '?' or a full
// URL. Malformed pairs are skipped; whatever parsed is returned.
func ParseQuery(raw string) url.Values {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, "?"); i >= 0 {
		raw = raw[i+1:]
	}
	if i := strings.Index(raw, "#"); i >= 0 {
		raw = raw[:i]
	}
	values, _ := url.ParseQuery(raw)
	return values
}

func first(values url.Values, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := values[k]; ok && len(v) > 0 {
			return strings.TrimSpace(v[0]), true
		}
	}
	return "", false
}

// FromQuery reads a project from URL parameters. Each field that is
// missing or malformed falls back to its default on its own.
func FromQuery(values url.Values) *models.ProjectDefinition {
	p := models.NewDefaultProject()

	if v, ok := first(values, KeyGroupID); ok && ValidGroupID(v) {
		p.GroupID = v
	}
	if v, ok := first(values, KeyArtifactID); ok && ValidArtifactID(v) {
		p.ArtifactID = v
	}
	if v, ok := first(values, KeyVersion); ok && ValidVersion(v) {
		p.Version = v
	}
	if v, ok := first(values, KeyBuildTool); ok {
		if bt, err := models.ParseBuildTool(v); err == nil {
			p.BuildTool = bt
		}
	}
	if v, ok := first(values, KeyJavaVersion); ok && ValidJavaVersion(v) {
		p.JavaVersion = v
	}
	if v, ok := first(values, KeyNoCode); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			p.NoCode = b
		}
	}
	if v, ok := first(values, KeyClassName); ok && ValidClassName(v) {
		p.ClassName = v
	}
	if v, ok := first(values, KeyPath); ok && ValidPath(v) {
		p.Path = v
	}
	if v, ok := first(values, KeyStream, KeyStreamLong); ok {
		p.StreamKey = v
	}
	if v, ok := first(values, KeyPlatformOnly); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			p.PlatformOnly = b
		}
	}

	var ids []string
	for _, raw := range values[KeyExtensions] {
		ids = append(ids, strings.Split(raw, ",")...)
	}
	p.Extensions = models.NewExtensionSet(ids...)

	if v, ok := first(values, KeyGitHub); ok {
		if enabled, err := strconv.ParseBool(v); err == nil && enabled {
			code, _ := first(values, KeyCode)
			state, _ := first(values, KeyState)
			p.GitHub = &models.GitHubIntent{Code: code, State: state}
		}
	}

	return p
}

// ToQuery encodes the non-default fields of p. Extension ids are written
// as stored, so FromQuery(ToQuery(p)) equals p.
func ToQuery(p *models.ProjectDefinition) url.Values {
	return encode(p, func(id string) string { return id })
}

// ShareQuery is ToQuery with extension ids shortened to their shortcut
// wherever idx resolves the shortcut back to the same entry. A nil index
// leaves ids untouched.
func ShareQuery(p *models.ProjectDefinition, idx *catalog.Index) url.Values {
	return encode(p, func(id string) string {
		short := catalog.Shortcut(id)
		if entry, ok := idx.Resolve(short); ok && entry.Extension.ID == id {
			return short
		}
		return id
	})
}

func encode(p *models.ProjectDefinition, extID func(string) string) url.Values {
	values := url.Values{}
	def := models.NewDefaultProject()

	setIf := func(key, v, defValue string) {
		if v != "" && v != defValue {
			values.Set(key, v)
		}
	}
	setIf(KeyGroupID, p.GroupID, def.GroupID)
	setIf(KeyArtifactID, p.ArtifactID, def.ArtifactID)
	setIf(KeyVersion, p.Version, def.Version)
	setIf(KeyBuildTool, p.BuildTool.String(), def.BuildTool.String())
	setIf(KeyJavaVersion, p.JavaVersion, "")
	setIf(KeyClassName, p.ClassName, "")
	setIf(KeyPath, p.Path, "")
	setIf(KeyStream, p.StreamKey, "")
	if p.NoCode {
		values.Set(KeyNoCode, "true")
	}
	if p.PlatformOnly {
		values.Set(KeyPlatformOnly, "true")
	}

	for _, id := range p.Extensions.Sorted() {
		values.Add(KeyExtensions, extID(id))
	}

	if p.GitHub != nil {
		values.Set(KeyGitHub, "true")
		setIf(KeyCode, p.GitHub.Code, "")
		setIf(KeyState, p.GitHub.State, "")
	}

	return values
}

// URL joins a base URL and the share query of p.
func URL(base string, p *models.ProjectDefinition, idx *catalog.Index) string {
	q := ShareQuery(p, idx).Encode()
	base = strings.TrimRight(base, "/") + "/"
	if q == "" {
		return base
	}
	return base + "?" + q
}
