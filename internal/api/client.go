package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jakoblorz/go-codestart/internal/logger"
	"github.com/jakoblorz/go-codestart/internal/models"
)

// Client talks to the code generation service.
type Client interface {
	// FetchPlatform returns the catalog, streams and presets of a stream.
	// An empty streamKey selects the recommended stream.
	FetchPlatform(ctx context.Context, streamKey string, platformOnly bool) (*models.Platform, error)
	FetchConfig(ctx context.Context) (*models.Config, error)

	// Download fetches the project archive described by query
	Download(ctx context.Context, query url.Values) ([]byte, error)

	// DownloadURL is the address Download fetches
	DownloadURL(query url.Values) string
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// HTTPClient implements Client over HTTP. Platforms are cached per
// (stream, platformOnly) and the config once, for the life of the client.
type HTTPClient struct {
	baseURL    string
	clientName string
	http       *http.Client
	log        *logger.Logger

	mu        sync.Mutex
	platforms map[string]*models.Platform
	config    *models.Config
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *HTTPClient) { c.log = log }
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL, clientName string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		clientName: clientName,
		http:       &http.Client{Timeout: 30 * time.Second},
		log:        logger.NewNop(),
		platforms:  make(map[string]*models.Platform),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func platformCacheKey(streamKey string, platformOnly bool) string {
	if streamKey == "" {
		streamKey = "recommended"
	}
	return streamKey + "-" + strconv.FormatBool(platformOnly)
}

func (c *HTTPClient) FetchPlatform(ctx context.Context, streamKey string, platformOnly bool) (*models.Platform, error) {
	key := platformCacheKey(streamKey, platformOnly)

	c.mu.Lock()
	cached, ok := c.platforms[key]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	extPath := "/api/extensions"
	presetPath := "/api/presets"
	if streamKey != "" {
		extPath += "/stream/" + url.PathEscape(streamKey)
		presetPath += "/stream/" + url.PathEscape(streamKey)
	}
	extPath += "?platformOnly=" + strconv.FormatBool(platformOnly)

	platform := &models.Platform{Tags: DefaultTags()}
	if err := c.getJSON(ctx, extPath, &platform.Extensions); err != nil {
		return nil, fmt.Errorf("failed to fetch the extension list: %w", err)
	}
	if err := c.getJSON(ctx, "/api/streams", &platform.Streams); err != nil {
		return nil, fmt.Errorf("failed to fetch the stream list: %w", err)
	}
	if err := c.getJSON(ctx, presetPath, &platform.Presets); err != nil {
		// Older services have no presets endpoint.
		c.log.Warn("failed to fetch presets", "stream", streamKey, "error", err)
		platform.Presets = nil
	}
	SortStreams(platform.Streams)

	c.log.Debug("fetched platform", "stream", streamKey, "platformOnly", platformOnly,
		"extensions", len(platform.Extensions), "streams", len(platform.Streams))

	c.mu.Lock()
	c.platforms[key] = platform
	c.mu.Unlock()

	return platform, nil
}

func (c *HTTPClient) FetchConfig(ctx context.Context) (*models.Config, error) {
	c.mu.Lock()
	cached := c.config
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	var cfg models.Config
	if err := c.getJSON(ctx, "/api/config", &cfg); err != nil {
		return nil, fmt.Errorf("failed to fetch the service config: %w", err)
	}

	c.mu.Lock()
	c.config = &cfg
	c.mu.Unlock()

	return &cfg, nil
}

func (c *HTTPClient) DownloadURL(query url.Values) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("cn", c.clientName)
	return c.baseURL + "/d?" + q.Encode()
}

func (c *HTTPClient) Download(ctx context.Context, query url.Values) ([]byte, error) {
	resp, err := c.do(ctx, c.DownloadURL(query))
	if err != nil {
		return nil, fmt.Errorf("failed to download project: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read project archive: %w", err)
	}
	return data, nil
}

func (c *HTTPClient) do(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Client-Name", c.clientName)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.do(ctx, c.baseURL+path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
