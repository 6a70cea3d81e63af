package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jakoblorz/go-codestart/internal/filesystem"
	"github.com/jakoblorz/go-codestart/internal/storage"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL       = "https://code.quarkus.io"
	DefaultClientName   = "codestart"
	DefaultSyncInterval = 500 * time.Millisecond
	appDirName          = "codestart"
)

// Config is the user configuration, read from config.yaml and overridden
// by environment variables and flags.
type Config struct {
	APIURL       string        `yaml:"api_url"`
	ClientName   string        `yaml:"client_name"`
	Store        storage.Kind  `yaml:"store"`
	LogMode      string        `yaml:"log_mode"`
	SyncInterval time.Duration `yaml:"sync_interval"`
	GitHub       GitHubConfig  `yaml:"github"`

	// Dir is the application directory holding config, state, logs and presets
	Dir string `yaml:"-"`
}

// GitHubConfig holds the OAuth app used to push generated projects.
type GitHubConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) *Config {
	return &Config{
		APIURL:       DefaultAPIURL,
		ClientName:   DefaultClientName,
		Store:        storage.KindFile,
		LogMode:      "prod",
		SyncInterval: DefaultSyncInterval,
		Dir:          dir,
	}
}

// Dir returns the application directory below the user config dir.
func Dir(fsys filesystem.FileSystem) (string, error) {
	base, err := fsys.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// Load reads path (or <dir>/config.yaml when path is empty) on top of the
// defaults and applies environment overrides. A missing file is fine.
func Load(fsys filesystem.FileSystem, path string) (*Config, error) {
	dir, err := Dir(fsys)
	if err != nil {
		return nil, err
	}
	cfg := Default(dir)

	if path == "" {
		path = filepath.Join(dir, "config.yaml")
	}

	data, err := fsys.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	set("CODESTART_API_URL", &c.APIURL)
	set("CODESTART_LOG_MODE", &c.LogMode)
	set("GITHUB_CLIENT_ID", &c.GitHub.ClientID)
	set("GITHUB_CLIENT_SECRET", &c.GitHub.ClientSecret)

	var store string
	set("CODESTART_STORE", &store)
	if store != "" {
		c.Store = storage.Kind(strings.ToLower(store))
	}
}

// Validate checks values that would otherwise fail much later.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("invalid api_url %q: must be an http(s) URL", c.APIURL)
	}
	if !c.Store.IsValid() {
		return fmt.Errorf("invalid store %q (must be file, sqlite, or memory)", c.Store)
	}
	if c.SyncInterval <= 0 {
		c.SyncInterval = DefaultSyncInterval
	}
	if c.ClientName == "" {
		c.ClientName = DefaultClientName
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	return nil
}

// StateDir holds the persisted store.
func (c *Config) StateDir() string {
	return c.Dir
}

// PresetsDir holds local preset files.
func (c *Config) PresetsDir() string {
	return filepath.Join(c.Dir, "presets")
}

// LogPath is where the interactive picker logs to.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, "codestart.log")
}
