package models

// Stream is a versioned line of the platform catalog.
type Stream struct {
	Key                string            `json:"key"`
	QuarkusCoreVersion string            `json:"quarkusCoreVersion"`
	PlatformVersion    string            `json:"platformVersion"`
	Recommended        bool              `json:"recommended"`
	Status             string            `json:"status"`
	LTS                bool              `json:"lts"`
	JavaCompatibility  JavaCompatibility `json:"javaCompatibility"`
}

// JavaCompatibility lists the java versions a stream supports.
type JavaCompatibility struct {
	Versions    []int `json:"versions"`
	Recommended int   `json:"recommended"`
}

// Tag describes how an extension tag is displayed.
type Tag struct {
	Name        string `json:"name"`
	Href        string `json:"href,omitempty"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Hide        bool   `json:"hide,omitempty"`
}

// Preset is a curated set of extensions.
type Preset struct {
	Key         string   `json:"key"`
	Title       string   `json:"title"`
	Icon        string   `json:"icon,omitempty"`
	Description string   `json:"description,omitempty"`
	Extensions  []string `json:"extensions"`

	// Local presets are read from the user's preset directory
	Local bool `json:"local,omitempty"`
}

// Platform is everything fetched for one stream.
type Platform struct {
	Extensions []Extension `json:"extensions"`
	Streams    []Stream    `json:"streams"`
	Presets    []Preset    `json:"presets"`
	Tags       []Tag       `json:"tags"`
}

// Config is the public configuration of the code generation service.
type Config struct {
	Environment            string   `json:"environment"`
	QuarkusPlatformVersion string   `json:"quarkusPlatformVersion"`
	QuarkusDevtoolsVersion string   `json:"quarkusDevtoolsVersion,omitempty"`
	GitCommitID            string   `json:"gitCommitId"`
	GitHubClientID         string   `json:"gitHubClientId,omitempty"`
	SentryDSN              string   `json:"sentryDSN,omitempty"`
	SegmentWriteKey        string   `json:"segmentWriteKey,omitempty"`
	Features               []string `json:"features"`
}

// HasFeature reports whether the service enabled the named feature flag.
func (c *Config) HasFeature(name string) bool {
	if c == nil {
		return false
	}
	for _, f := range c.Features {
		if f == name {
			return true
		}
	}
	return false
}
