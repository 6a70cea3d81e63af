package catalog

import (
	"sort"
	"strings"
)

// Canonical keys of the built-in searchable fields.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldGroupID     = "group-id"
	FieldArtifactID  = "artifact-id"
	FieldShortName   = "shortname"
	FieldKeywords    = "keywords"
	FieldTags        = "tags"
	FieldPlatform    = "platform"
	FieldCategory    = "category"
)

var fieldAliases = map[string]string{
	"name":        FieldName,
	"description": FieldDescription,
	"desc":        FieldDescription,
	"group":       FieldGroupID,
	"groupid":     FieldGroupID,
	"group-id":    FieldGroupID,
	"artifact":    FieldArtifactID,
	"artifactid":  FieldArtifactID,
	"artifact-id": FieldArtifactID,
	"shortname":   FieldShortName,
	"short-name":  FieldShortName,
	"keywords":    FieldKeywords,
	"keyword":     FieldKeywords,
	"tags":        FieldTags,
	"tag":         FieldTags,
	"platform":    FieldPlatform,
	"p":           FieldPlatform,
	"category":    FieldCategory,
	"cat":         FieldCategory,
}

// DefaultTagNamespaces are recognized even when the catalog is not known yet.
var DefaultTagNamespaces = []string{"status", "with", "origin", "support"}

// CanonicalField resolves an alias to its canonical key. Tag namespaces and
// unknown keys are returned lowercased.
func CanonicalField(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if canonical, ok := fieldAliases[key]; ok {
		return canonical
	}
	return key
}

// IsBuiltinField reports whether key (or its alias) is a built-in field.
func IsBuiltinField(key string) bool {
	_, ok := fieldAliases[strings.ToLower(strings.TrimSpace(key))]
	return ok
}

// FieldSet is the set of field keys a query may filter on.
type FieldSet map[string]struct{}

// NewFieldSet returns the built-in fields plus the given tag namespaces.
func NewFieldSet(namespaces ...string) FieldSet {
	set := make(FieldSet, len(fieldAliases)+len(namespaces))
	for _, canonical := range fieldAliases {
		set[canonical] = struct{}{}
	}
	for _, ns := range namespaces {
		ns = strings.ToLower(strings.TrimSpace(ns))
		if ns != "" {
			set[ns] = struct{}{}
		}
	}
	return set
}

// DefaultFieldSet is used when no catalog is available.
func DefaultFieldSet() FieldSet {
	return NewFieldSet(DefaultTagNamespaces...)
}

// Has reports whether key, after alias resolution, is a known field.
// Any "*-support" namespace is always accepted.
func (s FieldSet) Has(key string) bool {
	canonical := CanonicalField(key)
	if canonical == "" {
		return false
	}
	if _, ok := s[canonical]; ok {
		return true
	}
	return strings.HasSuffix(canonical, "-support")
}

// Keys returns the sorted field keys.
func (s FieldSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
