package presets

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/jakoblorz/go-codestart/internal/catalog"
	"github.com/jakoblorz/go-codestart/internal/filesystem"
	"github.com/jakoblorz/go-codestart/internal/logger"
	"github.com/jakoblorz/go-codestart/internal/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"gopkg.in/yaml.v3"
)

// matter is the frontmatter of a preset file
type matter struct {
	Title      string   `yaml:"title"`
	Icon       string   `yaml:"icon,omitempty"`
	Extensions []string `yaml:"extensions"`
}

// Manager reads and writes the user's local presets, one markdown file
// per preset
type Manager struct {
	fs  filesystem.FileSystem
	dir string
	log *logger.Logger
}

// NewManager creates a preset manager for dir
func NewManager(fs filesystem.FileSystem, dir string, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNop()
	}
	return &Manager{
		fs:  fs,
		dir: dir,
		log: log,
	}
}

// Dir returns the preset directory
func (m *Manager) Dir() string {
	return m.dir
}

// ReadAll reads every preset file, sorted by key. Files that fail to parse
// are logged and skipped.
func (m *Manager) ReadAll() ([]models.Preset, error) {
	if !m.fs.Exists(m.dir) {
		return []models.Preset{}, nil
	}

	entries, err := m.fs.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset directory: %w", err)
	}

	presets := []models.Preset{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		preset, err := m.Read(filepath.Join(m.dir, entry.Name()))
		if err != nil {
			m.log.Warn("skipping preset", "file", entry.Name(), "error", err)
			continue
		}
		presets = append(presets, preset)
	}

	sort.Slice(presets, func(i, j int) bool { return presets[i].Key < presets[j].Key })
	return presets, nil
}

// Read reads a single preset file
func (m *Manager) Read(filePath string) (models.Preset, error) {
	data, err := m.fs.ReadFile(filePath)
	if err != nil {
		return models.Preset{}, fmt.Errorf("failed to read file: %w", err)
	}

	return Parse(filePath, data)
}

// Parse parses preset data; the key is the file name without extension
func Parse(filePath string, data []byte) (models.Preset, error) {
	var fm matter
	rest, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return models.Preset{}, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	ids := models.NewExtensionSet(fm.Extensions...)
	if len(ids) == 0 {
		return models.Preset{}, fmt.Errorf("no extensions found in preset frontmatter")
	}

	key := strings.TrimSuffix(filepath.Base(filePath), ".md")
	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = key
	}

	return models.Preset{
		Key:         key,
		Title:       title,
		Icon:        fm.Icon,
		Description: strings.TrimSpace(string(rest)),
		Extensions:  []string(ids),
		Local:       true,
	}, nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// KeyFor derives a file-safe key from a title
func KeyFor(title string) (string, error) {
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug != "" {
		return slug, nil
	}
	id, err := gonanoid.Generate("abcdefghijklmnopqrstuvwxyz0123456789", 8)
	if err != nil {
		return "", fmt.Errorf("failed to generate preset key: %w", err)
	}
	return "preset-" + id, nil
}

// Write stores p as <dir>/<key>.md, deriving the key from the title when
// p has none. The written preset is returned.
func (m *Manager) Write(p models.Preset) (models.Preset, error) {
	if p.Key == "" {
		key, err := KeyFor(p.Title)
		if err != nil {
			return models.Preset{}, err
		}
		p.Key = key
	}
	if len(p.Extensions) == 0 {
		return models.Preset{}, fmt.Errorf("preset %s has no extensions", p.Key)
	}

	if !m.fs.Exists(m.dir) {
		if err := m.fs.MkdirAll(m.dir, 0755); err != nil {
			return models.Preset{}, fmt.Errorf("failed to create preset directory: %w", err)
		}
	}

	header, err := yaml.Marshal(matter{Title: p.Title, Icon: p.Icon, Extensions: models.NewExtensionSet(p.Extensions...).Sorted()})
	if err != nil {
		return models.Preset{}, fmt.Errorf("failed to encode preset: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	if p.Description != "" {
		buf.WriteString(p.Description)
		buf.WriteString("\n")
	}

	filePath := filepath.Join(m.dir, p.Key+".md")
	if err := m.fs.WriteFile(filePath, buf.Bytes(), 0644); err != nil {
		return models.Preset{}, fmt.Errorf("failed to write preset file: %w", err)
	}

	p.Local = true
	return p, nil
}

// Delete removes the preset with key
func (m *Manager) Delete(key string) error {
	if err := m.fs.Remove(filepath.Join(m.dir, key+".md")); err != nil {
		return fmt.Errorf("failed to delete preset %s: %w", key, err)
	}
	return nil
}

// Merge lists the service presets followed by the local ones. A local
// preset replaces a service preset with the same key, in place.
func Merge(service, local []models.Preset) []models.Preset {
	localByKey := make(map[string]models.Preset, len(local))
	for _, p := range local {
		localByKey[p.Key] = p
	}

	merged := make([]models.Preset, 0, len(service)+len(local))
	used := make(map[string]bool)
	for _, p := range service {
		if lp, ok := localByKey[p.Key]; ok {
			merged = append(merged, lp)
			used[p.Key] = true
			continue
		}
		merged = append(merged, p)
	}
	for _, p := range local {
		if !used[p.Key] {
			merged = append(merged, p)
		}
	}
	return merged
}

// Resolved is a preset with its extensions mapped onto a catalog
type Resolved struct {
	models.Preset
	Mapping models.MappingResult
}

// Resolve maps every preset's extensions through the catalog index
func Resolve(presets []models.Preset, idx *catalog.Index) []Resolved {
	resolved := make([]Resolved, len(presets))
	for i, p := range presets {
		resolved[i] = Resolved{Preset: p, Mapping: idx.Map(p.Extensions)}
	}
	return resolved
}

// Find returns the preset with key
func Find(presets []models.Preset, key string) (models.Preset, bool) {
	for _, p := range presets {
		if p.Key == key {
			return p, true
		}
	}
	return models.Preset{}, false
}
