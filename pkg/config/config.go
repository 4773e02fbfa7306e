// Package config handles loading and saving hgv configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/hgv/config.yaml
//   - Data:    ~/.local/share/hgv/ (cached datasets)
//   - State:   ~/.local/state/hgv/ (view state cache)
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// UIConfig holds UI preference settings.
type UIConfig struct {
	DefaultView    string `yaml:"default_view,omitempty"` // similarity, hubcluster, bipartite, tiers, people
	HideMainstream bool   `yaml:"hide_mainstream,omitempty"`
	Theme          string `yaml:"theme,omitempty"`
}

// AvatarConfig points at the external avatar services. The proxy builds an
// image URL from an account handle; the placeholder serves the fallback
// when a load fails.
type AvatarConfig struct {
	ProxyURL       string `yaml:"proxy_url,omitempty"`
	PlaceholderURL string `yaml:"placeholder_url,omitempty"`
}

// URL builds the profile image URL for an account handle, or "" when no
// proxy is configured.
func (a AvatarConfig) URL(handle string) string {
	if a.ProxyURL == "" || handle == "" {
		return ""
	}
	return a.ProxyURL + url.PathEscape(handle)
}

// PlaceholderFor builds the generated-initials image URL used for accounts
// without profile imagery.
func (a AvatarConfig) PlaceholderFor(name string) string {
	if a.PlaceholderURL == "" || name == "" {
		return ""
	}
	return a.PlaceholderURL + "?name=" + url.QueryEscape(name)
}

// Config is the top-level configuration for hgv.
type Config struct {
	DataDir string       `yaml:"data_dir,omitempty"`
	Watch   *bool        `yaml:"watch,omitempty"` // nil means enabled
	UI      UIConfig     `yaml:"ui,omitempty"`
	Avatar  AvatarConfig `yaml:"avatar,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			DefaultView: "similarity",
		},
		Avatar: AvatarConfig{
			ProxyURL:       "https://unavatar.io/twitter/",
			PlaceholderURL: "https://ui-avatars.com/api/",
		},
	}
}

// WatchEnabled reports whether live dataset reload is on (the default).
func (c Config) WatchEnabled() bool {
	return c.Watch == nil || *c.Watch
}

// ConfigDir returns the XDG config directory for hgv.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "hgv")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hgv")
}

// DataDir returns the XDG data directory for hgv.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "hgv")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "hgv")
}

// StateDir returns the XDG state directory for hgv.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "hgv")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "hgv")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.DataDir = expandHome(cfg.DataDir)
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
