package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// BuildAPIKey is injected at build time:
//
//	go build -ldflags "-X github.com/devbush/yt2transcript/internal/config.BuildAPIKey=..."
//
// Anyone holding the binary can read it back out.
var BuildAPIKey string

// Environment variables consulted for the API key, in order
const (
	EnvAPIKey      = "SEARCH_API_KEY"
	EnvAPIKeyAlias = "VITE_SEARCH_API_KEY"
)

// DefaultBaseURL is the SearchAPI YouTube transcript endpoint
const DefaultBaseURL = "https://www.searchapi.io/api/v1/youtube/transcript"

// Allowed values for the enumerated settings
var (
	Formats    = []string{"text", "json", "srt"}
	Clipboards = []string{"auto", "system", "osc52"}
	Transports = []string{"standard", "browser"}
)

// Config represents the application configuration
type Config struct {
	API      APIConfig      `yaml:"api"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Serve    ServeConfig    `yaml:"serve"`
}

// APIConfig holds the transcript endpoint settings
type APIConfig struct {
	Key     string `yaml:"key,omitempty"`
	BaseURL string `yaml:"base_url"`
	Origin  string `yaml:"origin,omitempty"`
}

// DefaultsConfig holds default values
type DefaultsConfig struct {
	Format    string `yaml:"format"`
	Clipboard string `yaml:"clipboard"`
	Transport string `yaml:"transport"`
}

// ServeConfig holds settings for the web form
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
		},
		Defaults: DefaultsConfig{
			Format:    "text",
			Clipboard: "auto",
			Transport: "standard",
		},
		Serve: ServeConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

// AppDir returns the application directory (~/.yt2transcript)
func AppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".yt2transcript"
	}
	return filepath.Join(home, ".yt2transcript")
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(AppDir(), "config.yaml")
}

// LogPath returns the log file used by the interactive form
func LogPath() string {
	return filepath.Join(AppDir(), "debug.log")
}

// EnsureDirs creates all required directories
func EnsureDirs(fs afero.Fs) error {
	if err := fs.MkdirAll(AppDir(), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", AppDir(), err)
	}
	return nil
}

// Load reads config from file, returns default if not exists
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// LoadDefault loads config from default path
func LoadDefault() (*Config, error) {
	return Load(afero.NewOsFs(), ConfigPath())
}

// Save writes config to file. The file may hold the API key, so it is
// only readable by the owner.
func (c *Config) Save(fs afero.Fs, path string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := afero.WriteFile(fs, path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveDefault saves config to default path
func (c *Config) SaveDefault() error {
	return c.Save(afero.NewOsFs(), ConfigPath())
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := validateBaseURL(c.API.BaseURL); err != nil {
		result = multierror.Append(result, err)
	}
	if !oneOf(c.Defaults.Format, Formats) {
		result = multierror.Append(result, fmt.Errorf("defaults.format: %q is not one of %s", c.Defaults.Format, strings.Join(Formats, ", ")))
	}
	if !oneOf(c.Defaults.Clipboard, Clipboards) {
		result = multierror.Append(result, fmt.Errorf("defaults.clipboard: %q is not one of %s", c.Defaults.Clipboard, strings.Join(Clipboards, ", ")))
	}
	if !oneOf(c.Defaults.Transport, Transports) {
		result = multierror.Append(result, fmt.Errorf("defaults.transport: %q is not one of %s", c.Defaults.Transport, strings.Join(Transports, ", ")))
	}
	if c.Serve.Addr == "" {
		result = multierror.Append(result, fmt.Errorf("serve.addr: must not be empty"))
	}

	return result.ErrorOrNil()
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url: %q must be an absolute http(s) URL", raw)
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// Keys lists the settings accepted by Set
var Keys = []string{
	"api.key",
	"api.base_url",
	"api.origin",
	"defaults.format",
	"defaults.clipboard",
	"defaults.transport",
	"serve.addr",
}

// Set updates a single setting by its dotted key
func (c *Config) Set(key, value string) error {
	switch key {
	case "api.key":
		c.API.Key = value
	case "api.base_url":
		c.API.BaseURL = value
	case "api.origin":
		c.API.Origin = value
	case "defaults.format":
		c.Defaults.Format = value
	case "defaults.clipboard":
		c.Defaults.Clipboard = value
	case "defaults.transport":
		c.Defaults.Transport = value
	case "serve.addr":
		c.Serve.Addr = value
	default:
		return fmt.Errorf("unknown config key: %s (valid keys: %s)", key, strings.Join(Keys, ", "))
	}
	return c.Validate()
}

// Redacted returns a copy safe to print
func (c *Config) Redacted() *Config {
	out := *c
	out.API.Key = RedactKey(c.API.Key)
	return &out
}

// RedactKey hides all but the last four characters of a secret
func RedactKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// KeySource names where the API key was found
type KeySource string

const (
	KeySourceFlag   KeySource = "flag"
	KeySourceEnv    KeySource = "environment"
	KeySourceFile   KeySource = "config file"
	KeySourceBuild  KeySource = "build"
	KeySourceAbsent KeySource = ""
)

// ResolveAPIKey picks the API key: flag, then environment, then config
// file, then the build-time default.
func (c *Config) ResolveAPIKey(flagValue string, getenv func(string) string) (string, KeySource) {
	if flagValue != "" {
		return flagValue, KeySourceFlag
	}
	for _, name := range []string{EnvAPIKey, EnvAPIKeyAlias} {
		if v := getenv(name); v != "" {
			return v, KeySourceEnv
		}
	}
	if c.API.Key != "" {
		return c.API.Key, KeySourceFile
	}
	if BuildAPIKey != "" {
		return BuildAPIKey, KeySourceBuild
	}
	return "", KeySourceAbsent
}
