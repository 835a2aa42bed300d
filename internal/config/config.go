// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for docchat.
//
// Configuration lives in ~/.docchat/config.toml, with built-in defaults
// and environment variable overrides.
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/docchat-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete docchat configuration.
type Config struct {
	// APIURL is the base URL of the DocChat backend.
	APIURL string `toml:"api_url"`

	// WSURL is the duplex chat endpoint. Empty means derived from APIURL
	// (http→ws, https→wss) with the /ws/chat path.
	WSURL string `toml:"ws_url"`

	Timeouts  TimeoutConfig   `toml:"timeouts"`
	Reconnect ReconnectConfig `toml:"reconnect"`
	Upload    UploadConfig    `toml:"upload"`
}

// TimeoutConfig tunes the HTTP client.
type TimeoutConfig struct {
	// RequestSecs bounds one request/response round trip.
	RequestSecs int `toml:"request_secs"`
	// StreamIdleSecs bounds the wait for the next streamed record.
	StreamIdleSecs int `toml:"stream_idle_secs"`
}

// ReconnectConfig tunes the duplex channel's retry behavior.
type ReconnectConfig struct {
	MaxAttempts   int `toml:"max_attempts"`
	BaseDelaySecs int `toml:"base_delay_secs"`
	MaxDelaySecs  int `toml:"max_delay_secs"`
}

// UploadConfig tunes upload validation.
type UploadConfig struct {
	// AllowedExtensions overrides the built-in document allow-list.
	AllowedExtensions []string `toml:"allowed_extensions"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIURL: "http://127.0.0.1:8888",
		Timeouts: TimeoutConfig{
			RequestSecs:    30,
			StreamIdleSecs: 10,
		},
		Reconnect: ReconnectConfig{
			MaxAttempts:   5,
			BaseDelaySecs: 1,
			MaxDelaySecs:  10,
		},
		Upload: UploadConfig{
			AllowedExtensions: []string{".pdf", ".doc", ".docx"},
		},
	}
}

// fillDefaults replaces zero values with the built-in defaults, so a
// partial config file still yields a usable configuration.
func (c *Config) fillDefaults() {
	def := Default()
	if c.APIURL == "" {
		c.APIURL = def.APIURL
	}
	if c.Timeouts.RequestSecs <= 0 {
		c.Timeouts.RequestSecs = def.Timeouts.RequestSecs
	}
	if c.Timeouts.StreamIdleSecs <= 0 {
		c.Timeouts.StreamIdleSecs = def.Timeouts.StreamIdleSecs
	}
	if c.Reconnect.MaxAttempts <= 0 {
		c.Reconnect.MaxAttempts = def.Reconnect.MaxAttempts
	}
	if c.Reconnect.BaseDelaySecs <= 0 {
		c.Reconnect.BaseDelaySecs = def.Reconnect.BaseDelaySecs
	}
	if c.Reconnect.MaxDelaySecs <= 0 {
		c.Reconnect.MaxDelaySecs = def.Reconnect.MaxDelaySecs
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		c.Upload.AllowedExtensions = def.Upload.AllowedExtensions
	}
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// RequestTimeout returns the HTTP round-trip timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeouts.RequestSecs) * time.Second
}

// StreamIdleTimeout returns the streamed-read idle timeout.
func (c *Config) StreamIdleTimeout() time.Duration {
	return time.Duration(c.Timeouts.StreamIdleSecs) * time.Second
}

// ChatSocketURL returns the duplex endpoint, deriving it from APIURL
// when not configured explicitly.
func (c *Config) ChatSocketURL() string {
	if c.WSURL != "" {
		return c.WSURL
	}
	ws := c.APIURL
	switch {
	case strings.HasPrefix(ws, "https://"):
		ws = "wss://" + strings.TrimPrefix(ws, "https://")
	case strings.HasPrefix(ws, "http://"):
		ws = "ws://" + strings.TrimPrefix(ws, "http://")
	}
	return strings.TrimSuffix(ws, "/") + "/ws/chat"
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the docchat configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".docchat"), nil
}

// ConfigPath returns the TOML config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, falling back to defaults when it does not
// exist, then applies environment overrides and validates.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from an explicit file path. A missing
// file yields the defaults, not an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies environment variables over the loaded
// values. DOCCHAT_API_URL and DOCCHAT_WS_URL take precedence over the
// config file.
func (c *Config) ApplyEnvOverrides() {
	if api := os.Getenv("DOCCHAT_API_URL"); api != "" {
		c.APIURL = api
	}
	if ws := os.Getenv("DOCCHAT_WS_URL"); ws != "" {
		c.WSURL = ws
	}
}

// Save writes the configuration to the default path.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration as TOML. The write is atomic and
// the file is owner-only: the config directory sits next to stored
// tokens.
func SaveToPath(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# docchat configuration file")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for values that would break at
// first use.
func (c *Config) Validate() error {
	if err := validateURL("api_url", c.APIURL, "http", "https"); err != nil {
		return err
	}
	if c.WSURL != "" {
		if err := validateURL("ws_url", c.WSURL, "ws", "wss"); err != nil {
			return err
		}
	}
	if c.Timeouts.RequestSecs <= 0 {
		return fmt.Errorf("timeouts.request_secs must be positive")
	}
	if c.Reconnect.BaseDelaySecs > c.Reconnect.MaxDelaySecs {
		return fmt.Errorf("reconnect.base_delay_secs exceeds reconnect.max_delay_secs")
	}
	for _, ext := range c.Upload.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("upload.allowed_extensions entries must start with a dot: %q", ext)
		}
	}
	return nil
}

func validateURL(field, raw string, schemes ...string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s has no host: %q", field, raw)
	}
	for _, scheme := range schemes {
		if parsed.Scheme == scheme {
			return nil
		}
	}
	return fmt.Errorf("%s must use one of %v, got %q", field, schemes, parsed.Scheme)
}
