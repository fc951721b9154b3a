// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != Development {
		t.Errorf("expected environment=development, got %s", cfg.Environment)
	}

	if cfg.Server.Listen != ":27970" {
		t.Errorf("expected listen=:27970, got %s", cfg.Server.Listen)
	}

	if cfg.Server.SocketPath != "/run/pakdepot/control.sock" {
		t.Errorf("expected socket_path=/run/pakdepot/control.sock, got %s", cfg.Server.SocketPath)
	}

	if !cfg.Cache.Enabled {
		t.Error("expected cache enabled by default")
	}

	if len(cfg.Content.Extensions) != 1 || cfg.Content.Extensions[0] != ".pk3" {
		t.Errorf("expected extensions=[.pk3], got %v", cfg.Content.Extensions)
	}
}

func TestLoad_RequiresPakdepotConfig(t *testing.T) {
	// Save and restore PAKDEPOT_CONFIG.
	origConfig := os.Getenv("PAKDEPOT_CONFIG")
	defer os.Setenv("PAKDEPOT_CONFIG", origConfig)

	// Unset PAKDEPOT_CONFIG - Load() should fail.
	os.Unsetenv("PAKDEPOT_CONFIG")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when PAKDEPOT_CONFIG not set, got nil")
	}

	expectedMsg := "PAKDEPOT_CONFIG environment variable not set"
	if err.Error()[:len(expectedMsg)] != expectedMsg {
		t.Errorf("expected error message to start with %q, got %q", expectedMsg, err.Error())
	}
}

func TestLoad_WithPakdepotConfig(t *testing.T) {
	// Save and restore PAKDEPOT_CONFIG.
	origConfig := os.Getenv("PAKDEPOT_CONFIG")
	defer os.Setenv("PAKDEPOT_CONFIG", origConfig)

	// Create temp config file.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pakdepot.yaml")

	configContent := `
environment: staging
content:
  root: /srv/assets
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	// Set PAKDEPOT_CONFIG and load.
	os.Setenv("PAKDEPOT_CONFIG", configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Environment != Staging {
		t.Errorf("expected environment=staging, got %s", cfg.Environment)
	}

	if cfg.Content.Root != "/srv/assets" {
		t.Errorf("expected root=/srv/assets, got %s", cfg.Content.Root)
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pakdepot.yaml")

	configContent := `
environment: staging

content:
  root: /srv/assets
  extensions: [".pk3", ".pak"]
  concurrency: 8
  rescan_interval: 15m

server:
  listen: ":8080"
  socket_path: /custom/control.sock

cache:
  enabled: true
  max_bytes: 134217728

site:
  file: /etc/pakdepot/site.jsonc
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Environment != Staging {
		t.Errorf("expected environment=staging, got %s", cfg.Environment)
	}

	if cfg.Content.Root != "/srv/assets" {
		t.Errorf("expected root=/srv/assets, got %s", cfg.Content.Root)
	}

	if len(cfg.Content.Extensions) != 2 || cfg.Content.Extensions[1] != ".pak" {
		t.Errorf("expected extensions=[.pk3 .pak], got %v", cfg.Content.Extensions)
	}

	if cfg.Content.Concurrency != 8 {
		t.Errorf("expected concurrency=8, got %d", cfg.Content.Concurrency)
	}

	if cfg.Server.Listen != ":8080" {
		t.Errorf("expected listen=:8080, got %s", cfg.Server.Listen)
	}

	if cfg.Server.SocketPath != "/custom/control.sock" {
		t.Errorf("expected socket_path=/custom/control.sock, got %s", cfg.Server.SocketPath)
	}

	if cfg.Cache.MaxBytes != 134217728 {
		t.Errorf("expected max_bytes=134217728, got %d", cfg.Cache.MaxBytes)
	}

	// Unset fields keep their defaults.
	if cfg.Cache.MaxEntryBytes != 4<<20 {
		t.Errorf("expected default max_entry_bytes, got %d", cfg.Cache.MaxEntryBytes)
	}

	if cfg.Site.File != "/etc/pakdepot/site.jsonc" {
		t.Errorf("expected site file, got %s", cfg.Site.File)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pakdepot.yaml")

	configContent := `
environment: production

content:
  root: /srv/assets

cache:
  enabled: true

production:
  content:
    root: /srv/assets-prod
  server:
    listen: ":80"
  cache:
    enabled: false
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	// Production overrides should be applied.
	if cfg.Content.Root != "/srv/assets-prod" {
		t.Errorf("expected root=/srv/assets-prod, got %s", cfg.Content.Root)
	}

	if cfg.Server.Listen != ":80" {
		t.Errorf("expected listen=:80, got %s", cfg.Server.Listen)
	}

	if cfg.Cache.Enabled {
		t.Error("expected cache disabled from production override")
	}
}

func TestDevelopmentSocketPathDefault(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pakdepot.yaml")

	configContent := `
environment: development
paths:
  state: /tmp/pakdepot-state
content:
  root: /srv/assets
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	// With no explicit socket path in development, the socket moves
	// under the state directory.
	if cfg.Server.SocketPath != "/tmp/pakdepot-state/control.sock" {
		t.Errorf("expected socket under state dir, got %s", cfg.Server.SocketPath)
	}
}

func TestDevelopmentExplicitSocketPathWins(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pakdepot.yaml")

	configContent := `
environment: development
content:
  root: /srv/assets
server:
  socket_path: /chosen/control.sock
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Server.SocketPath != "/chosen/control.sock" {
		t.Errorf("explicit socket_path should win in development, got %s", cfg.Server.SocketPath)
	}
}

func TestEnvVarsDoNotOverride(t *testing.T) {
	// Verify that environment variables do NOT override config file
	// values. The config file is the single source of truth.

	origRoot := os.Getenv("PAKDEPOT_ROOT")
	origListen := os.Getenv("PAKDEPOT_LISTEN")
	defer func() {
		os.Setenv("PAKDEPOT_ROOT", origRoot)
		os.Setenv("PAKDEPOT_LISTEN", origListen)
	}()

	os.Setenv("PAKDEPOT_ROOT", "/env/root")
	os.Setenv("PAKDEPOT_LISTEN", ":9999")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pakdepot.yaml")

	configContent := `
environment: development
content:
  root: /file/root
server:
  listen: ":27970"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Content.Root != "/file/root" {
		t.Errorf("expected root=/file/root from file, got %s (env vars should not override)", cfg.Content.Root)
	}

	if cfg.Server.Listen != ":27970" {
		t.Errorf("expected listen=:27970 from file, got %s (env vars should not override)", cfg.Server.Listen)
	}
}

func TestExpandVars(t *testing.T) {
	tests := []struct {
		input    string
		vars     map[string]string
		expected string
	}{
		{
			input:    "${HOME}/pakdepot",
			vars:     map[string]string{"HOME": "/home/user"},
			expected: "/home/user/pakdepot",
		},
		{
			input:    "${MISSING:-default}",
			vars:     map[string]string{},
			expected: "default",
		},
		{
			input:    "${PRESENT:-default}",
			vars:     map[string]string{"PRESENT": "value"},
			expected: "value",
		},
		{
			input:    "${A}/${B}",
			vars:     map[string]string{"A": "first", "B": "second"},
			expected: "first/second",
		},
		{
			input:    "no variables here",
			vars:     map[string]string{},
			expected: "no variables here",
		},
	}

	for _, tt := range tests {
		result := expandVars(tt.input, tt.vars)
		if result != tt.expected {
			t.Errorf("expandVars(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestStateVarExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pakdepot.yaml")

	configContent := `
environment: production
paths:
  state: /var/lib/pakdepot
content:
  root: /srv/assets
buildlog:
  path: ${PAKDEPOT_STATE}/history.db
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.BuildLog.Path != "/var/lib/pakdepot/history.db" {
		t.Errorf("expected buildlog path under state dir, got %s", cfg.BuildLog.Path)
	}
}

func TestValidate(t *testing.T) {
	// validBase returns a config that passes validation; each case
	// breaks exactly one thing.
	validBase := func() *Config {
		cfg := Default()
		cfg.Content.Root = "/srv/assets"
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "invalid environment",
			modify: func(c *Config) {
				c.Environment = "invalid"
			},
			wantErr: true,
		},
		{
			name: "missing content root",
			modify: func(c *Config) {
				c.Content.Root = ""
			},
			wantErr: true,
		},
		{
			name: "empty extensions",
			modify: func(c *Config) {
				c.Content.Extensions = nil
			},
			wantErr: true,
		},
		{
			name: "extension without dot",
			modify: func(c *Config) {
				c.Content.Extensions = []string{"pk3"}
			},
			wantErr: true,
		},
		{
			name: "negative concurrency",
			modify: func(c *Config) {
				c.Content.Concurrency = -1
			},
			wantErr: true,
		},
		{
			name: "malformed rescan interval",
			modify: func(c *Config) {
				c.Content.RescanInterval = "every hour"
			},
			wantErr: true,
		},
		{
			name: "negative rescan interval",
			modify: func(c *Config) {
				c.Content.RescanInterval = "-5m"
			},
			wantErr: true,
		},
		{
			name: "empty listen",
			modify: func(c *Config) {
				c.Server.Listen = ""
			},
			wantErr: true,
		},
		{
			name: "empty socket path",
			modify: func(c *Config) {
				c.Server.SocketPath = ""
			},
			wantErr: true,
		},
		{
			name: "cache entry cap above budget",
			modify: func(c *Config) {
				c.Cache.MaxBytes = 1 << 20
				c.Cache.MaxEntryBytes = 2 << 20
			},
			wantErr: true,
		},
		{
			name: "cache disabled ignores cache limits",
			modify: func(c *Config) {
				c.Cache.Enabled = false
				c.Cache.MaxBytes = 0
			},
			wantErr: false,
		},
		{
			name: "empty buildlog path disables the ledger",
			modify: func(c *Config) {
				c.BuildLog.Path = ""
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBase()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRescanEvery(t *testing.T) {
	content := ContentConfig{RescanInterval: "15m"}
	interval, enabled := content.RescanEvery()
	if !enabled {
		t.Fatal("expected rescan enabled")
	}
	if interval != 15*time.Minute {
		t.Errorf("interval = %v, want 15m", interval)
	}

	content = ContentConfig{}
	if _, enabled := content.RescanEvery(); enabled {
		t.Error("expected rescan disabled for empty interval")
	}
}

func TestEnsurePaths(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := Default()
	cfg.Paths.State = filepath.Join(tmpDir, "state")
	cfg.BuildLog.Path = filepath.Join(tmpDir, "state", "db", "buildlog.db")
	cfg.Server.SocketPath = filepath.Join(tmpDir, "run", "control.sock")

	if err := cfg.EnsurePaths(); err != nil {
		t.Fatalf("EnsurePaths failed: %v", err)
	}

	for _, path := range []string{
		cfg.Paths.State,
		filepath.Join(tmpDir, "state", "db"),
		filepath.Join(tmpDir, "run"),
	} {
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("path %s not created: %v", path, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("path %s is not a directory", path)
		}
	}
}
