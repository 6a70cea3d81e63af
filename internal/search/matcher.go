package search

import (
	"sort"
	"strings"

	"github.com/jakoblorz/go-codestart/internal/catalog"
	"github.com/jakoblorz/go-codestart/internal/models"
)

// SearchText parses filter against the index's fields and runs it.
func SearchText(filter string, idx *catalog.Index) []models.Extension {
	return Search(ParseWithFields(filter, idx.Fields()), idx)
}

// Search returns the entries matching every clause. A query made of a
// single term is ranked; anything else keeps catalog order.
func Search(clauses []Clause, idx *catalog.Index) []models.Extension {
	if len(clauses) == 1 && clauses[0].Kind == ClauseTerm {
		return rankTerm(clauses[0].Value, idx.Entries())
	}

	out := []models.Extension{}
	for _, entry := range idx.Entries() {
		if Matches(entry, clauses) {
			out = append(out, entry.Extension)
		}
	}
	return out
}

// Matches reports whether entry satisfies every clause.
func Matches(entry *catalog.IndexedEntry, clauses []Clause) bool {
	for _, c := range clauses {
		if !matchClause(entry, c) {
			return false
		}
	}
	return true
}

func matchClause(entry *catalog.IndexedEntry, c Clause) bool {
	switch c.Kind {
	case ClauseFieldEquals:
		return matchEquals(entry, c)
	case ClauseFieldIn:
		return matchIn(entry, c)
	default:
		return matchTerm(entry, strings.ToLower(strings.TrimSpace(c.Value)))
	}
}

func matchTerm(entry *catalog.IndexedEntry, term string) bool {
	if term == "" {
		return true
	}
	if strings.HasPrefix(entry.LowerShortcut, term) ||
		strings.HasPrefix(entry.ShortName, term) ||
		strings.HasPrefix(entry.ArtifactID, term) {
		return true
	}
	if strings.Contains(entry.Name, term) ||
		strings.Contains(entry.Category, term) ||
		strings.Contains(entry.Description, term) {
		return true
	}
	for _, kw := range entry.Keywords {
		if strings.Contains(kw, term) {
			return true
		}
	}
	return false
}

func normalizeValue(field, value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if field == catalog.FieldCategory && value != AnyValue {
		return catalog.CategoryID(value)
	}
	return value
}

func matchEquals(entry *catalog.IndexedEntry, c Clause) bool {
	matched := false
outer:
	for _, field := range c.Fields {
		values := entry.Values(field)
		for _, want := range c.Values {
			want = normalizeValue(field, want)
			if want == AnyValue {
				if len(values) > 0 {
					matched = true
					break outer
				}
				continue
			}
			for _, have := range values {
				if have == want {
					matched = true
					break outer
				}
			}
		}
	}
	return matched != c.Negated
}

func matchIn(entry *catalog.IndexedEntry, c Clause) bool {
	for _, word := range strings.Fields(strings.ToLower(c.Value)) {
		if !containsInFields(entry, c.Fields, word) {
			return false
		}
	}
	return true
}

func containsInFields(entry *catalog.IndexedEntry, fields []string, word string) bool {
	for _, field := range fields {
		for _, have := range entry.Values(field) {
			if strings.Contains(have, word) {
				return true
			}
		}
	}
	return false
}

// Rank tiers for a single term, best first.
const (
	rankShortNameExact = iota
	rankShortcutExact
	rankPrefix
	rankKeywordExact
	rankNamePrefix
	rankOther
)

func termRank(entry *catalog.IndexedEntry, term string) int {
	switch {
	case entry.ShortName == term:
		return rankShortNameExact
	case entry.LowerShortcut == term:
		return rankShortcutExact
	case strings.HasPrefix(entry.ShortName, term), strings.HasPrefix(entry.LowerShortcut, term):
		return rankPrefix
	case entry.HasKeyword(term):
		return rankKeywordExact
	case strings.HasPrefix(entry.Name, term):
		return rankNamePrefix
	default:
		return rankOther
	}
}

func rankTerm(value string, entries []*catalog.IndexedEntry) []models.Extension {
	term := strings.ToLower(strings.TrimSpace(value))
	if term == "" {
		out := make([]models.Extension, 0, len(entries))
		for _, entry := range entries {
			out = append(out, entry.Extension)
		}
		return out
	}

	type ranked struct {
		entry *catalog.IndexedEntry
		rank  int
	}
	var hits []ranked
	for _, entry := range entries {
		if matchTerm(entry, term) {
			hits = append(hits, ranked{entry: entry, rank: termRank(entry, term)})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].rank != hits[j].rank {
			return hits[i].rank < hits[j].rank
		}
		a, b := hits[i].entry.Extension, hits[j].entry.Extension
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})

	out := make([]models.Extension, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.entry.Extension)
	}
	return out
}
