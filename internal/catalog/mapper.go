package catalog

import (
	"strings"

	"github.com/jakoblorz/go-codestart/internal/models"
)

// MapExtensions resolves requested ids against a catalog. See Index.Map.
func MapExtensions(extensions []models.Extension, requested []string) models.MappingResult {
	return NewIndex(extensions).Map(requested)
}

// Resolve finds the entry a requested id refers to. An exact catalog id wins,
// then an entry whose shortcut equals id (a bare "quarkus-" artifact prefix
// is tolerated), then a legacy short id. A group:artifact coordinate only
// ever matches exactly.
func (i *Index) Resolve(id string) (*IndexedEntry, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	if entry, ok := i.ByID(id); ok {
		return entry, true
	}
	if strings.Contains(id, ":") {
		return nil, false
	}
	if entry, ok := i.ByShortcut(id); ok {
		return entry, true
	}
	if short, ok := strings.CutPrefix(id, "quarkus-"); ok {
		if entry, ok := i.ByShortcut(short); ok {
			return entry, true
		}
	}
	return i.ByShortID(id)
}

// Map resolves every requested id. Mapped entries are deduplicated and in
// catalog order; missing ids keep their input order without duplicates.
// Blank ids are ignored. Mapping the ids of a previous result again yields
// the same result.
func (i *Index) Map(requested []string) models.MappingResult {
	result := models.MappingResult{
		Mapped:  []models.Extension{},
		Missing: []string{},
	}

	hits := make(map[string]struct{})
	missing := make(map[string]struct{})
	for _, id := range requested {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		entry, ok := i.Resolve(id)
		if !ok {
			if _, dup := missing[id]; !dup {
				missing[id] = struct{}{}
				result.Missing = append(result.Missing, id)
			}
			continue
		}
		hits[entry.Extension.ID] = struct{}{}
	}

	for _, entry := range i.Entries() {
		if _, ok := hits[entry.Extension.ID]; ok {
			result.Mapped = append(result.Mapped, entry.Extension)
		}
	}

	return result
}
