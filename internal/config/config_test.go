// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DefaultModel != "bitnet-2b" {
		t.Errorf("DefaultModel = %q, want bitnet-2b", cfg.DefaultModel)
	}
	if cfg.Node.URL != "http://127.0.0.1:3000" {
		t.Errorf("Node.URL = %q", cfg.Node.URL)
	}
	if cfg.Node.InferTimeoutSecs != 120 {
		t.Errorf("Node.InferTimeoutSecs = %d, want 120", cfg.Node.InferTimeoutSecs)
	}
	if cfg.Demo.Enabled {
		t.Error("Demo.Enabled should default to false")
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled should default to true")
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("UI.Theme = %q, want dark", cfg.UI.Theme)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestSaveLoadTOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.DefaultModel = "llama3-8b-1.58"
	cfg.Demo.Enabled = true
	cfg.Demo.Seed = 42
	cfg.UI.Theme = "light"

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file perm = %o, want 0600", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if loaded.DefaultModel != "llama3-8b-1.58" {
		t.Errorf("DefaultModel = %q", loaded.DefaultModel)
	}
	if !loaded.Demo.Enabled || loaded.Demo.Seed != 42 {
		t.Errorf("Demo = %+v, want enabled with seed 42", loaded.Demo)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("UI.Theme = %q, want light", loaded.UI.Theme)
	}
}

func TestSaveLoadJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Node.URL = "http://127.0.0.1:3100"

	if err := SaveJSON(cfg, path); err != nil {
		t.Fatalf("SaveJSON() error: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if loaded.Node.URL != "http://127.0.0.1:3100" {
		t.Errorf("Node.URL = %q", loaded.Node.URL)
	}
}

func TestPartialFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	partial := "default_model = \"bitnet-large\"\n"
	if err := os.WriteFile(path, []byte(partial), 0600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.DefaultModel != "bitnet-large" {
		t.Errorf("DefaultModel = %q, want bitnet-large", cfg.DefaultModel)
	}
	if cfg.Node.URL != "http://127.0.0.1:3000" {
		t.Errorf("Node.URL not defaulted, got %q", cfg.Node.URL)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level not defaulted, got %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad url", func(c *Config) { c.Node.URL = "not a url" }, "node.url"},
		{"negative timeout", func(c *Config) { c.Node.InferTimeoutSecs = -1 }, "node.infer_timeout_secs"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad theme", func(c *Config) { c.UI.Theme = "solarized" }, "ui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not mention %s", err, tt.field)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ARIA_MODEL", "bitnet-large")
	t.Setenv("ARIA_NODE_URL", "http://127.0.0.1:4000")
	t.Setenv("ARIA_DEMO", "true")
	t.Setenv("ARIA_DEMO_SEED", "7")
	t.Setenv("ARIA_LOG_LEVEL", "DEBUG")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.DefaultModel != "bitnet-large" {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	if cfg.Node.URL != "http://127.0.0.1:4000" {
		t.Errorf("Node.URL = %q", cfg.Node.URL)
	}
	if !cfg.Demo.Enabled {
		t.Error("Demo.Enabled not overridden")
	}
	if cfg.Demo.Seed != 7 {
		t.Errorf("Demo.Seed = %d, want 7", cfg.Demo.Seed)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestGetSetDotNotation(t *testing.T) {
	cfg := Default()

	got, err := cfg.Get("node.url")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != "http://127.0.0.1:3000" {
		t.Errorf("Get(node.url) = %v", got)
	}

	if err := cfg.Set("ui.theme", "light"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("UI.Theme = %q after Set", cfg.UI.Theme)
	}

	if err := cfg.Set("node.infer_timeout_secs", "300"); err != nil {
		t.Fatalf("Set() string-to-int error: %v", err)
	}
	if cfg.Node.InferTimeoutSecs != 300 {
		t.Errorf("InferTimeoutSecs = %d, want 300", cfg.Node.InferTimeoutSecs)
	}

	if _, err := cfg.Get("no.such.key"); err == nil {
		t.Error("Get() unknown key should error")
	}
	if err := cfg.Set("node.nope", 1); err == nil {
		t.Error("Set() unknown key should error")
	}
}

func TestLoadFixesInsecurePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("default_model = \"bitnet-2b\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	if _, err := LoadFromPath(path); err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("perm = %o after load, want 0600", perm)
	}
}
