package api

import (
	"sort"
	"strings"

	"github.com/jakoblorz/go-codestart/internal/models"
	"golang.org/x/mod/semver"
)

// ErrorStream stands in when a platform has no usable stream.
var ErrorStream = models.Stream{Key: "error:error", PlatformVersion: "error", QuarkusCoreVersion: "error", Status: "ERROR"}

func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	// "3.8.2.Final" style versions carry a qualifier semver rejects
	parts := strings.SplitN(v, ".", 4)
	if len(parts) == 4 {
		v = strings.Join(parts[:3], ".") + "-" + parts[3]
	}
	return semver.Canonical("v" + v)
}

// SortStreams orders streams newest platform version first. Streams
// with unparsable versions go last, by key.
func SortStreams(streams []models.Stream) {
	sort.SliceStable(streams, func(i, j int) bool {
		a, b := canonicalVersion(streams[i].PlatformVersion), canonicalVersion(streams[j].PlatformVersion)
		if c := semver.Compare(a, b); c != 0 {
			return c > 0
		}
		return streams[i].Key < streams[j].Key
	})
}

// RecommendedStream returns the stream flagged recommended, else the first.
func RecommendedStream(p *models.Platform) (models.Stream, bool) {
	if p == nil || len(p.Streams) == 0 {
		return ErrorStream, false
	}
	for _, s := range p.Streams {
		if s.Recommended {
			return s, true
		}
	}
	return p.Streams[0], true
}

// NormalizeStreamKey qualifies a bare stream id with the platform key of
// the recommended stream: "3.8" becomes "io.quarkus.platform:3.8".
func NormalizeStreamKey(p *models.Platform, key string) string {
	if key == "" || strings.Contains(key, ":") {
		return key
	}
	rec, ok := RecommendedStream(p)
	if !ok {
		return key
	}
	platformKey, _, found := strings.Cut(rec.Key, ":")
	if !found {
		return key
	}
	return platformKey + ":" + key
}

// ProjectStream resolves the stream a project asks for. It falls back to
// the recommended stream when key is empty or unknown; found reports
// whether key itself matched.
func ProjectStream(p *models.Platform, key string) (stream models.Stream, found bool) {
	if key != "" && p != nil {
		normalized := NormalizeStreamKey(p, key)
		for _, s := range p.Streams {
			if s.Key == normalized {
				return s, true
			}
		}
	}
	rec, _ := RecommendedStream(p)
	return rec, false
}

// StreamID is the part of a stream key after the platform prefix.
func StreamID(key string) string {
	if _, id, ok := strings.Cut(key, ":"); ok {
		return id
	}
	return key
}
