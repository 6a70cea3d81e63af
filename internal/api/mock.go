package api

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/jakoblorz/go-codestart/internal/models"
)

// MockClient implements Client for testing
type MockClient struct {
	mu        sync.RWMutex
	platforms map[string]*models.Platform // key: stream key, "" for recommended
	config    *models.Config
	archive   []byte
	calls     []string

	// Hooks for testing error scenarios
	FetchPlatformError error
	FetchConfigError   error
	DownloadError      error

	// BaseURL prefixes DownloadURL
	BaseURL    string
	ClientName string
}

// NewMockClient creates a new MockClient
func NewMockClient() *MockClient {
	return &MockClient{
		platforms:  make(map[string]*models.Platform),
		config:     &models.Config{Environment: "test"},
		BaseURL:    "https://code.example.com",
		ClientName: "codestart",
	}
}

// SetPlatform registers the platform returned for streamKey. An empty key
// is the recommended stream.
func (m *MockClient) SetPlatform(streamKey string, p *models.Platform) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.platforms[streamKey] = p
}

// SetConfig sets the service config
func (m *MockClient) SetConfig(cfg *models.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = cfg
}

// SetArchive sets the bytes Download returns
func (m *MockClient) SetArchive(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.archive = data
}

// Calls returns the recorded calls (helper for testing)
func (m *MockClient) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.calls...)
}

func (m *MockClient) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *MockClient) FetchPlatform(ctx context.Context, streamKey string, platformOnly bool) (*models.Platform, error) {
	m.record(fmt.Sprintf("platform %s %t", streamKey, platformOnly))
	if m.FetchPlatformError != nil {
		return nil, m.FetchPlatformError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.platforms[streamKey]
	if !ok {
		return nil, &StatusError{URL: "/api/extensions/stream/" + streamKey, StatusCode: 404}
	}
	if !platformOnly {
		return p, nil
	}

	filtered := *p
	filtered.Extensions = nil
	for _, e := range p.Extensions {
		if e.Platform {
			filtered.Extensions = append(filtered.Extensions, e)
		}
	}
	return &filtered, nil
}

func (m *MockClient) FetchConfig(ctx context.Context) (*models.Config, error) {
	m.record("config")
	if m.FetchConfigError != nil {
		return nil, m.FetchConfigError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config, nil
}

func (m *MockClient) DownloadURL(query url.Values) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("cn", m.ClientName)
	return m.BaseURL + "/d?" + q.Encode()
}

func (m *MockClient) Download(ctx context.Context, query url.Values) ([]byte, error) {
	m.record("download " + query.Encode())
	if m.DownloadError != nil {
		return nil, m.DownloadError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.archive == nil {
		return nil, fmt.Errorf("no archive configured")
	}
	return m.archive, nil
}
