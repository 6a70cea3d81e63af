package api

import "github.com/jakoblorz/go-codestart/internal/models"

// DefaultTags describes the tags the service uses when it sends no
// definitions of its own.
func DefaultTags() []models.Tag {
	return []models.Tag{
		{
			Name:        "status:preview",
			Color:       "#4695eb",
			Description: "This is work in progress. API or configuration properties might change as the extension matures.",
		},
		{
			Name:        "status:experimental",
			Color:       "#ff004a",
			Description: "Early feedback is requested to mature the idea. There is no guarantee of stability nor long term presence in the platform.",
		},
		{
			Name:        "status:deprecated",
			Color:       "#707070",
			Description: "This extension has been deprecated. It is likely to be replaced or removed in a future version.",
		},
		{
			Name:        "with:starter-code",
			Color:       "#be9100",
			Description: "This extension provides starter code.",
		},
		{Name: "status:stable", Hide: true},
		{Name: "origin:platform", Hide: true},
		{Name: "origin:other", Hide: true},
	}
}

// TagDef returns the definition of tag, if any.
func TagDef(tags []models.Tag, tag string) (models.Tag, bool) {
	for _, t := range tags {
		if t.Name == tag {
			return t, true
		}
	}
	return models.Tag{}, false
}
