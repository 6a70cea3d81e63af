package catalog

import (
	"errors"
	"sync"

	"github.com/jakoblorz/go-codestart/internal/models"
)

// ErrStaleFetch is returned when a fetch result arrives after a newer
// fetch was started.
var ErrStaleFetch = errors.New("catalog fetch superseded by a newer request")

// Session holds the catalog the user is currently working against. Each
// platform fetch is tagged with an epoch so that only the most recently
// started fetch can install its catalog.
type Session struct {
	mu        sync.RWMutex
	epoch     uint64
	streamKey string
	platform  *models.Platform
	index     *Index
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{index: NewIndex(nil)}
}

// BeginFetch starts a new fetch epoch and returns its token. Any result
// carrying an older token is discarded by Accept.
func (s *Session) BeginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	return s.epoch
}

// IsCurrent reports whether token belongs to the latest fetch. Failed
// fetches use it to decide whether their error is still relevant.
func (s *Session) IsCurrent(token uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return token == s.epoch
}

// Accept installs platform as the current catalog if token is still the
// latest epoch, and re-maps the selected ids against it in the same step.
func (s *Session) Accept(token uint64, streamKey string, platform *models.Platform, selected []string) (models.MappingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.epoch {
		return models.MappingResult{}, ErrStaleFetch
	}

	var extensions []models.Extension
	if platform != nil {
		extensions = platform.Extensions
	}

	s.streamKey = streamKey
	s.platform = platform
	s.index = NewIndex(extensions)

	return s.index.Map(selected), nil
}

// Index returns the current catalog index (never nil).
func (s *Session) Index() *Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Platform returns the current platform, or nil before the first fetch.
func (s *Session) Platform() *models.Platform {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.platform
}

// StreamKey returns the stream the current catalog belongs to.
func (s *Session) StreamKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.streamKey
}

// Loaded reports whether a catalog has been accepted.
func (s *Session) Loaded() bool {
	return s.Platform() != nil
}
