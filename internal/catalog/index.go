package catalog

import (
	"slices"
	"sort"
	"strings"

	"github.com/jakoblorz/go-codestart/internal/models"
)

// IndexedEntry is an extension with its searchable fields precomputed.
// All string fields except Shortcut are lowercase.
type IndexedEntry struct {
	Extension models.Extension

	// Shortcut is the id with group and product prefix removed, case preserved
	Shortcut      string
	LowerShortcut string

	Name        string
	ShortName   string
	Category    string
	CategoryID  string
	Description string
	GroupID     string
	ArtifactID  string
	Keywords    []string

	// Tags holds every full tag plus the value segment of namespaced tags
	Tags []string

	// TagValues maps a tag namespace to its values, e.g. status -> [preview]
	TagValues map[string][]string

	keywordSet map[string]struct{}
}

// HasKeyword reports whether kw equals one of the entry's keywords.
func (e *IndexedEntry) HasKeyword(kw string) bool {
	_, ok := e.keywordSet[kw]
	return ok
}

// Values returns the lowercase values of a canonical field. Single valued
// fields yield at most one element; an empty result means the entry has no
// value for the field.
func (e *IndexedEntry) Values(field string) []string {
	switch field {
	case FieldName:
		return nonEmpty(e.Name)
	case FieldDescription:
		return nonEmpty(e.Description)
	case FieldGroupID:
		return nonEmpty(e.GroupID)
	case FieldArtifactID:
		return nonEmpty(e.ArtifactID)
	case FieldShortName:
		return nonEmpty(e.ShortName)
	case FieldKeywords:
		return e.Keywords
	case FieldTags:
		return e.Tags
	case FieldPlatform:
		if e.Extension.Platform {
			return []string{"yes"}
		}
		return []string{"no"}
	case FieldCategory:
		return nonEmpty(e.CategoryID)
	default:
		return e.TagValues[field]
	}
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

// CategoryID turns a display category into its filter id.
func CategoryID(category string) string {
	return strings.Join(strings.Fields(strings.ToLower(category)), "-")
}

func newIndexedEntry(ext models.Extension) *IndexedEntry {
	entry := &IndexedEntry{
		Extension:   ext,
		Shortcut:    Shortcut(ext.ID),
		Name:        strings.ToLower(ext.Name),
		ShortName:   strings.ToLower(ext.ShortName),
		Category:    strings.ToLower(ext.Category),
		CategoryID:  CategoryID(ext.Category),
		Description: strings.ToLower(ext.Description),
		TagValues:   make(map[string][]string),
		keywordSet:  make(map[string]struct{}, len(ext.Keywords)),
	}
	entry.LowerShortcut = strings.ToLower(entry.Shortcut)

	if group, artifact, ok := strings.Cut(ext.ID, ":"); ok {
		entry.GroupID = strings.ToLower(group)
		entry.ArtifactID = strings.ToLower(artifact)
	} else {
		entry.ArtifactID = strings.ToLower(ext.ID)
	}

	for _, kw := range ext.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, dup := entry.keywordSet[kw]; dup {
			continue
		}
		entry.keywordSet[kw] = struct{}{}
		entry.Keywords = append(entry.Keywords, kw)
	}

	seen := make(map[string]struct{})
	addTag := func(tag string) {
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		entry.Tags = append(entry.Tags, tag)
	}
	for _, tag := range ext.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		addTag(tag)
		if ns, value, ok := strings.Cut(tag, ":"); ok && ns != "" && value != "" {
			addTag(value)
			entry.TagValues[ns] = append(entry.TagValues[ns], value)
		}
	}

	return entry
}

// Index is an immutable, ordered view of a catalog.
type Index struct {
	entries    []*IndexedEntry
	byID       map[string]*IndexedEntry
	byShortcut map[string]*IndexedEntry
	byShortID  map[string]*IndexedEntry
	fields     FieldSet
	namespaces []string
}

// NewIndex builds the index. Entries are deduplicated by id (first wins)
// and sorted by order, then id.
func NewIndex(extensions []models.Extension) *Index {
	idx := &Index{
		byID:       make(map[string]*IndexedEntry, len(extensions)),
		byShortcut: make(map[string]*IndexedEntry, len(extensions)),
		byShortID:  make(map[string]*IndexedEntry),
	}

	for _, ext := range extensions {
		if ext.ID == "" {
			continue
		}
		if _, dup := idx.byID[ext.ID]; dup {
			continue
		}
		entry := newIndexedEntry(ext)
		idx.byID[ext.ID] = entry
		idx.entries = append(idx.entries, entry)
	}

	sort.SliceStable(idx.entries, func(i, j int) bool {
		a, b := idx.entries[i].Extension, idx.entries[j].Extension
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})

	namespaces := make(map[string]struct{})
	for _, entry := range idx.entries {
		if _, taken := idx.byShortcut[entry.Shortcut]; !taken {
			idx.byShortcut[entry.Shortcut] = entry
		}
		if sid := entry.Extension.ShortID; sid != "" {
			if _, taken := idx.byShortID[sid]; !taken {
				idx.byShortID[sid] = entry
			}
		}
		for ns := range entry.TagValues {
			namespaces[ns] = struct{}{}
		}
	}

	for ns := range namespaces {
		idx.namespaces = append(idx.namespaces, ns)
	}
	sort.Strings(idx.namespaces)
	idx.fields = NewFieldSet(append(slices.Clone(DefaultTagNamespaces), idx.namespaces...)...)

	return idx
}

// Len returns the number of entries. A nil index is empty.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.entries)
}

// Entries returns the indexed entries in catalog order.
func (i *Index) Entries() []*IndexedEntry {
	if i == nil {
		return nil
	}
	return i.entries
}

// Extensions returns the catalog entries in catalog order.
func (i *Index) Extensions() []models.Extension {
	out := make([]models.Extension, 0, i.Len())
	for _, entry := range i.Entries() {
		out = append(out, entry.Extension)
	}
	return out
}

// ByID looks an entry up by its exact catalog id.
func (i *Index) ByID(id string) (*IndexedEntry, bool) {
	if i == nil {
		return nil, false
	}
	entry, ok := i.byID[id]
	return entry, ok
}

// ByShortcut returns the first entry in catalog order with the shortcut.
func (i *Index) ByShortcut(shortcut string) (*IndexedEntry, bool) {
	if i == nil {
		return nil, false
	}
	entry, ok := i.byShortcut[shortcut]
	return entry, ok
}

// ByShortID looks an entry up by its legacy short id.
func (i *Index) ByShortID(shortID string) (*IndexedEntry, bool) {
	if i == nil {
		return nil, false
	}
	entry, ok := i.byShortID[shortID]
	return entry, ok
}

// Fields returns the built-in fields plus every tag namespace in the catalog.
func (i *Index) Fields() FieldSet {
	if i == nil {
		return DefaultFieldSet()
	}
	return i.fields
}

// FieldKeys returns the sorted keys of Fields.
func (i *Index) FieldKeys() []string {
	return i.Fields().Keys()
}

// TagNamespaces returns the tag namespaces seen in the catalog, sorted.
func (i *Index) TagNamespaces() []string {
	if i == nil {
		return nil
	}
	return i.namespaces
}
