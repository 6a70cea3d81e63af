package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/jakoblorz/go-codestart/internal/catalog"
)

// FacetValue is one selectable value of a facet.
type FacetValue struct {
	Value  string `json:"value"`
	Count  int    `json:"count"`
	Active bool   `json:"active"`
}

// Facet groups the values of one filterable field.
type Facet struct {
	Key string `json:"key"`

	// Radio facets accept a single value at a time
	Radio bool `json:"radio,omitempty"`

	// Optional facets describe support levels that most entries lack
	Optional bool `json:"optional,omitempty"`

	// Any is set when the query filters on key:*
	Any bool `json:"any,omitempty"`

	// Excluded is set when the query filters on -key
	Excluded bool `json:"excluded,omitempty"`

	Values []FacetValue `json:"values"`
}

func isRadio(key string) bool {
	return key == catalog.FieldCategory || key == catalog.FieldPlatform
}

func isOptional(key string) bool {
	return key == "support" || strings.HasSuffix(key, "-support")
}

// Facets lists category, platform and every tag namespace of the catalog
// (origin excluded), with value counts and the state selected by clauses.
func Facets(clauses []Clause, idx *catalog.Index) []Facet {
	keys := []string{catalog.FieldCategory, catalog.FieldPlatform}
	for _, ns := range idx.TagNamespaces() {
		if ns == "origin" {
			continue
		}
		keys = append(keys, ns)
	}

	facets := make([]Facet, 0, len(keys))
	for _, key := range keys {
		counts := make(map[string]int)
		for _, entry := range idx.Entries() {
			for _, v := range entry.Values(key) {
				counts[v]++
			}
		}

		facet := Facet{Key: key, Radio: isRadio(key), Optional: isOptional(key)}
		active := make(map[string]bool)
		for _, c := range clauses {
			if c.Kind != ClauseFieldEquals || len(c.Fields) != 1 || c.Fields[0] != key {
				continue
			}
			for _, v := range c.Values {
				v = normalizeValue(key, v)
				switch {
				case v == AnyValue && c.Negated:
					facet.Excluded = true
				case v == AnyValue:
					facet.Any = true
				case !c.Negated:
					active[v] = true
				}
			}
		}

		values := make([]string, 0, len(counts))
		for v := range counts {
			values = append(values, v)
		}
		sort.Strings(values)
		for _, v := range values {
			facet.Values = append(facet.Values, FacetValue{
				Value:  v,
				Count:  counts[v],
				Active: facet.Any || active[v],
			})
		}
		facets = append(facets, facet)
	}

	return facets
}

type fieldSpan struct {
	tok   token
	field fieldToken
}

// spansFor finds the field tokens of query that refer to key.
func spansFor(query, key string) []fieldSpan {
	key = catalog.CanonicalField(key)
	var spans []fieldSpan
	for _, tok := range tokenize(query) {
		if tok.sep {
			continue
		}
		ft, ok := splitFieldToken(tok.text)
		if !ok || catalog.CanonicalField(ft.key) != key {
			continue
		}
		spans = append(spans, fieldSpan{tok: tok, field: ft})
	}
	return spans
}

func replaceSpan(query string, tok token, with string) string {
	end := tok.start + len(tok.text)
	return query[:tok.start] + with + query[end:]
}

// tidy collapses whitespace between clauses and trims the ends. Text
// inside double quotes is kept as is.
func tidy(query string) string {
	var b strings.Builder
	inQuote, pendingSpace := false, false
	for _, r := range query {
		switch {
		case inQuote:
			b.WriteRune(r)
			if r == '"' {
				inQuote = false
			}
			continue
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		if r == '"' {
			inQuote = true
		}
		b.WriteRune(r)
	}
	return b.String()
}

func renderValues(key string, values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, quoteIfNeeded(v))
	}
	return key + ":" + strings.Join(quoted, ",")
}

// AddFacetValue returns query with value added to the key filter. Radio
// facets replace their current value; others extend their value list.
func AddFacetValue(query, key, value string) string {
	key = catalog.CanonicalField(key)
	value = strings.TrimSpace(value)
	if value == "" {
		return query
	}

	for _, span := range spansFor(query, key) {
		if span.field.negated {
			continue
		}
		values := splitList(span.field.values)
		if isRadio(key) || (len(values) == 1 && values[0] == AnyValue) {
			return tidy(replaceSpan(query, span.tok, renderValues(key, []string{value})))
		}
		for _, v := range values {
			if strings.EqualFold(v, value) {
				return query
			}
		}
		return tidy(replaceSpan(query, span.tok, renderValues(key, append(values, value))))
	}

	return tidy(query + " " + renderValues(key, []string{value}))
}

// RemoveFacetValue returns query without value in the key filter,
// dropping the filter when no value is left.
func RemoveFacetValue(query, key, value string) string {
	key = catalog.CanonicalField(key)
	spans := spansFor(query, key)
	for i := len(spans) - 1; i >= 0; i-- {
		span := spans[i]
		if span.field.negated {
			continue
		}
		var kept []string
		for _, v := range splitList(span.field.values) {
			if !strings.EqualFold(v, value) {
				kept = append(kept, v)
			}
		}
		with := ""
		if len(kept) > 0 {
			with = renderValues(key, kept)
		}
		query = replaceSpan(query, span.tok, with)
	}
	return tidy(query)
}

// ClearFacet removes every filter on key, negated ones included.
func ClearFacet(query, key string) string {
	spans := spansFor(query, key)
	for i := len(spans) - 1; i >= 0; i-- {
		query = replaceSpan(query, spans[i].tok, "")
	}
	return tidy(query)
}

// ExcludeFacet replaces the key filters with -key.
func ExcludeFacet(query, key string) string {
	key = catalog.CanonicalField(key)
	query = ClearFacet(query, key)
	return tidy(query + " -" + key)
}
