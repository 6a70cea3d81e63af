package models

// Extension is a single catalog item offered by the code generation service.
type Extension struct {
	// ID is the fully qualified "group:artifact" coordinate
	ID string `json:"id"`

	// ShortID is the compact identifier older catalogs used in shareable URLs
	ShortID string `json:"shortId,omitempty"`

	Version     string   `json:"version,omitempty"`
	Name        string   `json:"name"`
	ShortName   string   `json:"shortName,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Keywords    []string `json:"keywords,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Guide       string   `json:"guide,omitempty"`
	Bom         string   `json:"bom,omitempty"`

	// Order is the catalog position, lower values first
	Order int `json:"order"`

	// Platform reports whether the extension ships with the platform BOM
	Platform bool `json:"platform"`

	// Default extensions are part of every generated project
	Default bool `json:"default"`
}

// MappingResult is the outcome of resolving requested extension ids
// against a catalog.
type MappingResult struct {
	// Mapped holds the resolved entries in catalog order
	Mapped []Extension `json:"mapped"`

	// Missing holds the requested ids that did not resolve, in input order
	Missing []string `json:"missing"`
}

// IDs returns the catalog ids of the mapped entries.
func (r MappingResult) IDs() []string {
	ids := make([]string, 0, len(r.Mapped))
	for _, ext := range r.Mapped {
		ids = append(ids, ext.ID)
	}
	return ids
}

// HasMissing reports whether any requested id could not be resolved.
func (r MappingResult) HasMissing() bool {
	return len(r.Missing) > 0
}
