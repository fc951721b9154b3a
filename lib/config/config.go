// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the master configuration for a Pakdepot deployment.
type Config struct {
	// Environment identifies the deployment type (development,
	// staging, production).
	Environment Environment `yaml:"environment"`

	// Paths configures directory locations.
	Paths PathsConfig `yaml:"paths"`

	// Content configures the asset tree and the manifest build.
	Content ContentConfig `yaml:"content"`

	// Server configures the HTTP listener and the control socket.
	Server ServerConfig `yaml:"server"`

	// Cache configures the in-memory asset cache.
	Cache CacheConfig `yaml:"cache"`

	// Site configures the optional landing page.
	Site SiteConfig `yaml:"site"`

	// BuildLog configures the build history ledger.
	BuildLog BuildLogConfig `yaml:"buildlog"`

	// Per-environment overrides, applied after the base config is
	// loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per
// environment.
type ConfigOverrides struct {
	Paths    *PathsConfig    `yaml:"paths,omitempty"`
	Content  *ContentConfig  `yaml:"content,omitempty"`
	Server   *ServerConfig   `yaml:"server,omitempty"`
	Cache    *CacheConfig    `yaml:"cache,omitempty"`
	Site     *SiteConfig     `yaml:"site,omitempty"`
	BuildLog *BuildLogConfig `yaml:"buildlog,omitempty"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// State is the base directory for runtime state: the build
	// ledger, and in development the control socket.
	State string `yaml:"state"`
}

// ContentConfig configures the asset tree and the manifest build.
type ContentConfig struct {
	// Root is the directory holding the distributable assets.
	// Required; the server refuses to start without it.
	Root string `yaml:"root"`

	// Extensions lists the file extensions treated as assets,
	// including the leading dot. Default: [".pk3"].
	Extensions []string `yaml:"extensions"`

	// Concurrency is the number of files hashed in parallel during a
	// manifest build. Zero selects the builder's default.
	Concurrency int `yaml:"concurrency"`

	// RescanInterval enables periodic rebuilds of the manifest when
	// set to a Go duration string ("15m", "1h"). Empty disables
	// rescanning; the manifest then changes only at startup or on a
	// control-socket rebuild.
	RescanInterval string `yaml:"rescan_interval"`
}

// ServerConfig configures the HTTP listener and the control socket.
type ServerConfig struct {
	// Listen is the HTTP listen address. Default: ":27970".
	Listen string `yaml:"listen"`

	// SocketPath is the Unix socket path for control commands.
	// Default: /run/pakdepot/control.sock. In development with no
	// explicit override, the socket moves under paths.state so an
	// unprivileged server can create it.
	SocketPath string `yaml:"socket_path"`
}

// CacheConfig configures the in-memory asset cache.
type CacheConfig struct {
	// Enabled turns the cache on. Default: true.
	Enabled bool `yaml:"enabled"`

	// MaxBytes is the total stored-byte budget. Default: 64 MiB.
	MaxBytes int64 `yaml:"max_bytes"`

	// MaxEntryBytes is the per-asset admission cap. Default: 4 MiB.
	MaxEntryBytes int64 `yaml:"max_entry_bytes"`
}

// defaultSocketPath is the control socket location for system
// deployments. Development deployments relocate it under paths.state.
const defaultSocketPath = "/run/pakdepot/control.sock"

// SiteConfig configures the optional landing page.
type SiteConfig struct {
	// File is the path to the site definition (JSONC). Empty disables
	// the landing page; the root URL then returns 404.
	File string `yaml:"file"`
}

// BuildLogConfig configures the build history ledger.
type BuildLogConfig struct {
	// Path is the SQLite database file for build history. Default:
	// ${PAKDEPOT_STATE}/buildlog.db. Setting it to the empty string
	// disables the ledger.
	Path string `yaml:"path"`
}

// Default returns the default configuration. These defaults are used
// as a base before loading the config file. They exist primarily to
// ensure all fields have sensible zero-values, not as a fallback —
// the config file is required.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultState := filepath.Join(homeDir, ".cache", "pakdepot")

	return &Config{
		Environment: Development,
		Paths: PathsConfig{
			State: defaultState,
		},
		Content: ContentConfig{
			Extensions: []string{".pk3"},
		},
		Server: ServerConfig{
			Listen:     ":27970",
			SocketPath: defaultSocketPath,
		},
		Cache: CacheConfig{
			Enabled:       true,
			MaxBytes:      64 << 20,
			MaxEntryBytes: 4 << 20,
		},
		BuildLog: BuildLogConfig{
			Path: "${PAKDEPOT_STATE}/buildlog.db",
		},
	}
}

// Load loads configuration from the PAKDEPOT_CONFIG environment
// variable.
//
// This is the only way to load configuration without an explicit
// path. There are no fallbacks or defaults — if PAKDEPOT_CONFIG is
// not set, this fails. This ensures deterministic, auditable
// configuration with no hidden overrides.
func Load() (*Config, error) {
	configPath := os.Getenv("PAKDEPOT_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("PAKDEPOT_CONFIG environment variable not set; " +
			"set it to the path of your pakdepot.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment
// variables do not override config values. The only expansion
// performed is ${HOME} and similar path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// applyEnvironmentOverrides applies the environment-specific
// overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
		// Development default: an unprivileged server cannot create
		// /run/pakdepot, so unless the operator chose a socket path
		// themselves, it moves under the state directory.
		if c.Server.SocketPath == defaultSocketPath {
			c.Server.SocketPath = "${PAKDEPOT_STATE}/control.sock"
		}
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}

	if overrides == nil {
		return
	}

	if overrides.Paths != nil {
		if overrides.Paths.State != "" {
			c.Paths.State = overrides.Paths.State
		}
	}

	if overrides.Content != nil {
		if overrides.Content.Root != "" {
			c.Content.Root = overrides.Content.Root
		}
		if len(overrides.Content.Extensions) > 0 {
			c.Content.Extensions = overrides.Content.Extensions
		}
		if overrides.Content.Concurrency != 0 {
			c.Content.Concurrency = overrides.Content.Concurrency
		}
		if overrides.Content.RescanInterval != "" {
			c.Content.RescanInterval = overrides.Content.RescanInterval
		}
	}

	if overrides.Server != nil {
		if overrides.Server.Listen != "" {
			c.Server.Listen = overrides.Server.Listen
		}
		if overrides.Server.SocketPath != "" {
			c.Server.SocketPath = overrides.Server.SocketPath
		}
	}

	if overrides.Cache != nil {
		// Enabled is a bool, so it is always applied from overrides.
		c.Cache.Enabled = overrides.Cache.Enabled
		if overrides.Cache.MaxBytes != 0 {
			c.Cache.MaxBytes = overrides.Cache.MaxBytes
		}
		if overrides.Cache.MaxEntryBytes != 0 {
			c.Cache.MaxEntryBytes = overrides.Cache.MaxEntryBytes
		}
	}

	if overrides.Site != nil {
		if overrides.Site.File != "" {
			c.Site.File = overrides.Site.File
		}
	}

	if overrides.BuildLog != nil {
		if overrides.BuildLog.Path != "" {
			c.BuildLog.Path = overrides.BuildLog.Path
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"PAKDEPOT_STATE": c.Paths.State,
		"HOME":           os.Getenv("HOME"),
	}

	c.Paths.State = expandVars(c.Paths.State, vars)
	vars["PAKDEPOT_STATE"] = c.Paths.State // Update for dependent paths.

	c.Content.Root = expandVars(c.Content.Root, vars)
	c.Server.SocketPath = expandVars(c.Server.SocketPath, vars)
	c.Site.File = expandVars(c.Site.File, vars)
	c.BuildLog.Path = expandVars(c.BuildLog.Path, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported at once rather than one per run.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Content.Root == "" {
		errs = append(errs, fmt.Errorf("content.root is required"))
	}
	if len(c.Content.Extensions) == 0 {
		errs = append(errs, fmt.Errorf("content.extensions must not be empty"))
	}
	for _, ext := range c.Content.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("content.extensions entry %q must start with a dot", ext))
		}
	}
	if c.Content.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("content.concurrency must not be negative"))
	}
	if c.Content.RescanInterval != "" {
		interval, err := time.ParseDuration(c.Content.RescanInterval)
		if err != nil {
			errs = append(errs, fmt.Errorf("content.rescan_interval: %w", err))
		} else if interval <= 0 {
			errs = append(errs, fmt.Errorf("content.rescan_interval must be positive, got %s", interval))
		}
	}

	if c.Server.Listen == "" {
		errs = append(errs, fmt.Errorf("server.listen is required"))
	}
	if c.Server.SocketPath == "" {
		errs = append(errs, fmt.Errorf("server.socket_path is required"))
	}

	if c.Cache.Enabled {
		if c.Cache.MaxBytes <= 0 {
			errs = append(errs, fmt.Errorf("cache.max_bytes must be positive when the cache is enabled"))
		}
		if c.Cache.MaxEntryBytes <= 0 {
			errs = append(errs, fmt.Errorf("cache.max_entry_bytes must be positive when the cache is enabled"))
		}
		if c.Cache.MaxEntryBytes > c.Cache.MaxBytes {
			errs = append(errs, fmt.Errorf("cache.max_entry_bytes (%d) must not exceed cache.max_bytes (%d)",
				c.Cache.MaxEntryBytes, c.Cache.MaxBytes))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// RescanEvery returns the parsed rescan interval and whether periodic
// rescanning is enabled. Call Validate first; a malformed interval is
// reported there and treated as disabled here.
func (c ContentConfig) RescanEvery() (time.Duration, bool) {
	if c.RescanInterval == "" {
		return 0, false
	}
	interval, err := time.ParseDuration(c.RescanInterval)
	if err != nil || interval <= 0 {
		return 0, false
	}
	return interval, true
}

// EnsurePaths creates the configured state directories if they don't
// exist. The content root is deliberately not created: a missing
// asset tree is a deployment error, not something to paper over with
// an empty directory.
func (c *Config) EnsurePaths() error {
	paths := []string{
		c.Paths.State,
		filepath.Dir(c.Server.SocketPath),
	}
	if c.BuildLog.Path != "" {
		paths = append(paths, filepath.Dir(c.BuildLog.Path))
	}

	for _, path := range paths {
		if path == "" || path == "." {
			continue
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}

	return nil
}
