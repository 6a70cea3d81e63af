package catalog

import (
	"strings"

	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/sahilm/fuzzy"
)

type shortcutSource []*IndexedEntry

func (s shortcutSource) String(i int) string { return s[i].LowerShortcut }
func (s shortcutSource) Len() int            { return len(s) }

// Suggest returns up to limit catalog entries whose shortcut fuzzily
// matches the shortcut of a missing id, best match first.
func (i *Index) Suggest(id string, limit int) []models.Extension {
	if i.Len() == 0 || limit <= 0 {
		return nil
	}
	pattern := strings.ToLower(Shortcut(id))
	if pattern == "" {
		return nil
	}

	matches := fuzzy.FindFrom(pattern, shortcutSource(i.entries))
	out := make([]models.Extension, 0, min(limit, len(matches)))
	for _, match := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, i.entries[match.Index].Extension)
	}
	return out
}
