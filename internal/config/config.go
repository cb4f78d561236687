// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for aria-tui.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.aria/config.toml
//   - ~/.aria/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/aria-protocol/aria-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete aria-tui configuration.
type Config struct {
	// General settings
	Version      string `toml:"version" json:"version"`
	DefaultModel string `toml:"default_model" json:"default_model"`

	// Node (local ARIA backend) configuration
	Node NodeConfig `toml:"node" json:"node"`

	// Demo mode configuration
	Demo DemoConfig `toml:"demo" json:"demo"`

	// Chat history persistence configuration
	History HistoryConfig `toml:"history" json:"history"`

	// Logging configuration
	Logging LoggingConfig `toml:"logging" json:"logging"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// NodeConfig contains the connection settings for the local ARIA node.
type NodeConfig struct {
	// URL is the base URL of the node's HTTP API
	URL string `toml:"url" json:"url"`
	// StatusTimeoutSecs is the timeout for status and catalog requests
	StatusTimeoutSecs int `toml:"status_timeout_secs" json:"status_timeout_secs"`
	// InferTimeoutSecs is the timeout for chat completion requests.
	// BitNet on CPU can take a while for long prompts, so this is generous.
	InferTimeoutSecs int `toml:"infer_timeout_secs" json:"infer_timeout_secs"`
	// StatusPollSecs is the minimum interval between live status fetches;
	// requests inside the window are served from the cached snapshot
	StatusPollSecs int `toml:"status_poll_secs" json:"status_poll_secs"`
}

// DemoConfig controls the simulated backend used when no node is wanted.
type DemoConfig struct {
	// Enabled forces the simulated backend regardless of node availability
	Enabled bool `toml:"enabled" json:"enabled"`
	// Seed fixes the simulated backend's random source when non-zero.
	// Useful for reproducible demos and screenshots.
	Seed int64 `toml:"seed" json:"seed"`
}

// HistoryConfig controls conversation persistence.
type HistoryConfig struct {
	// Enabled turns chat history persistence on or off
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path is the SQLite database path (empty = ~/.aria/history.db)
	Path string `toml:"path" json:"path"`
	// AutosaveSecs is the interval between background snapshots (0 = save on exit only)
	AutosaveSecs int `toml:"autosave_secs" json:"autosave_secs"`
	// MaxConversations caps how many conversations are kept; the oldest are
	// pruned at startup (0 = unlimited)
	MaxConversations int `toml:"max_conversations" json:"max_conversations"`
}

// LoggingConfig controls the session log file.
type LoggingConfig struct {
	// Level is the minimum level to log: "debug", "info", "warn", "error"
	Level string `toml:"level" json:"level"`
	// Path is the log file path (empty = ~/.aria/aria-tui.log)
	Path string `toml:"path" json:"path"`
	// MaxSizeMB is the size at which the log file rotates
	MaxSizeMB int `toml:"max_size_mb" json:"max_size_mb"`
	// MaxBackups is the number of rotated files to keep
	MaxBackups int `toml:"max_backups" json:"max_backups"`
	// MaxAgeDays is the maximum age of rotated files
	MaxAgeDays int `toml:"max_age_days" json:"max_age_days"`
}

// UIConfig contains UI-related configuration.
type UIConfig struct {
	// Theme is the color theme ("dark" or "light")
	Theme string `toml:"theme" json:"theme"`
	// ShowEnergyBar displays per-message energy statistics in the status bar
	ShowEnergyBar bool `toml:"show_energy_bar" json:"show_energy_bar"`
	// RenderMarkdown enables markdown rendering of assistant responses
	RenderMarkdown bool `toml:"render_markdown" json:"render_markdown"`
	// SidebarVisible shows the conversation sidebar on startup
	SidebarVisible bool `toml:"sidebar_visible" json:"sidebar_visible"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Version:      "1",
		DefaultModel: "bitnet-2b",
		Node: NodeConfig{
			URL:               "http://127.0.0.1:3000",
			StatusTimeoutSecs: 10,
			InferTimeoutSecs:  120,
			StatusPollSecs:    1,
		},
		Demo: DemoConfig{
			Enabled: false,
			Seed:    0,
		},
		History: HistoryConfig{
			Enabled:          true,
			Path:             "",
			AutosaveSecs:     30,
			MaxConversations: 200,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Path:       "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
		UI: UIConfig{
			Theme:          "dark",
			ShowEnergyBar:  true,
			RenderMarkdown: true,
			SidebarVisible: true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the aria configuration directory (~/.aria).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".aria"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// Config files should be 0600 (owner read/write only).
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// A .env file in the working directory and environment overrides are applied last.
func Load() (*Config, error) {
	// Optional .env for development setups; absence is not an error.
	_ = godotenv.Load()

	cfg := Default()
	var loadErr error

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finalize(cfg)
			}
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finalize(cfg)
			}
		}
	}

	cfg, err = finalize(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

func finalize(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finalize(cfg)
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = defaults.DefaultModel
	}

	if cfg.Node.URL == "" {
		cfg.Node.URL = defaults.Node.URL
	}
	if cfg.Node.StatusTimeoutSecs == 0 {
		cfg.Node.StatusTimeoutSecs = defaults.Node.StatusTimeoutSecs
	}
	if cfg.Node.InferTimeoutSecs == 0 {
		cfg.Node.InferTimeoutSecs = defaults.Node.InferTimeoutSecs
	}
	if cfg.Node.StatusPollSecs == 0 {
		cfg.Node.StatusPollSecs = defaults.Node.StatusPollSecs
	}

	if cfg.History.AutosaveSecs == 0 {
		cfg.History.AutosaveSecs = defaults.History.AutosaveSecs
	}
	if cfg.History.MaxConversations == 0 {
		cfg.History.MaxConversations = defaults.History.MaxConversations
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = defaults.Logging.MaxSizeMB
	}
	if cfg.Logging.MaxBackups == 0 {
		cfg.Logging.MaxBackups = defaults.Logging.MaxBackups
	}
	if cfg.Logging.MaxAgeDays == 0 {
		cfg.Logging.MaxAgeDays = defaults.Logging.MaxAgeDays
	}

	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# aria-tui configuration file")
	fmt.Fprintln(file, "# Generated by aria-tui - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// SaveJSON saves the configuration to a JSON file atomically with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid config field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Message, e.Value)
}

// ValidateErrors aggregates all validation failures.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Node.URL != "" {
		if u, err := url.Parse(c.Node.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "node.url",
				Value:   c.Node.URL,
				Message: "must be a valid http(s) URL",
			})
		}
	}
	if c.Node.StatusTimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "node.status_timeout_secs",
			Value:   c.Node.StatusTimeoutSecs,
			Message: "must not be negative",
		})
	}
	if c.Node.InferTimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "node.infer_timeout_secs",
			Value:   c.Node.InferTimeoutSecs,
			Message: "must not be negative",
		})
	}

	if c.History.AutosaveSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "history.autosave_secs",
			Value:   c.History.AutosaveSecs,
			Message: "must not be negative",
		})
	}

	if c.History.MaxConversations < 0 {
		errs = append(errs, ValidationError{
			Field:   "history.max_conversations",
			Value:   c.History.MaxConversations,
			Message: "must not be negative",
		})
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: "must be one of: debug, info, warn, error",
		})
	}

	switch c.UI.Theme {
	case "", "dark", "light":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Value:   c.UI.Theme,
			Message: "must be \"dark\" or \"light\"",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults clamps or fills values that validation would otherwise reject.
func (c *Config) SetDefaults() {
	_ = fillDefaults(c)
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies ARIA_* environment variables on top of the
// loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	if model := os.Getenv("ARIA_MODEL"); model != "" {
		c.DefaultModel = model
	}

	if nodeURL := os.Getenv("ARIA_NODE_URL"); nodeURL != "" {
		c.Node.URL = nodeURL
	}

	if demo := os.Getenv("ARIA_DEMO"); demo != "" {
		c.Demo.Enabled = demo == "1" || strings.ToLower(demo) == "true"
	}

	if seed := os.Getenv("ARIA_DEMO_SEED"); seed != "" {
		if n, err := strconv.ParseInt(seed, 10, 64); err == nil {
			c.Demo.Seed = n
		}
	}

	if history := os.Getenv("ARIA_HISTORY"); history != "" {
		c.History.Enabled = history == "1" || strings.ToLower(history) == "true"
	}

	if path := os.Getenv("ARIA_HISTORY_PATH"); path != "" {
		c.History.Path = path
	}

	if level := os.Getenv("ARIA_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}

	if theme := os.Getenv("ARIA_THEME"); theme != "" {
		c.UI.Theme = strings.ToLower(theme)
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "node.url").
func (c *Config) Get(key string) (interface{}, error) {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return nil, errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field.Interface(), nil
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return nil, fmt.Errorf("invalid key: %s", key)
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Set(key string, value interface{}) error {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if !field.CanSet() {
				return fmt.Errorf("cannot set field: %s", key)
			}
			return setFieldValue(field, value)
		}

		if field.Kind() == reflect.Struct {
			v = field.Addr().Elem()
		} else {
			return fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts snake_case config keys to Go field names.
func normalizeFieldName(name string) string {
	parts := strings.Split(name, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}

func setFieldValue(field reflect.Value, value interface{}) error {
	switch field.Kind() {
	case reflect.String:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(s)
	case reflect.Bool:
		switch v := value.(type) {
		case bool:
			field.SetBool(v)
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid bool value: %q", v)
			}
			field.SetBool(b)
		default:
			return fmt.Errorf("expected bool, got %T", value)
		}
	case reflect.Int, reflect.Int64:
		switch v := value.(type) {
		case int:
			field.SetInt(int64(v))
		case int64:
			field.SetInt(v)
		case string:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid int value: %q", v)
			}
			field.SetInt(n)
		default:
			return fmt.Errorf("expected int, got %T", value)
		}
	case reflect.Float64:
		switch v := value.(type) {
		case float64:
			field.SetFloat(v)
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %q", v)
			}
			field.SetFloat(f)
		default:
			return fmt.Errorf("expected float, got %T", value)
		}
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
	return nil
}

// =============================================================================
// CLONE / STRING
// =============================================================================

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a redaction-safe summary for logging.
func (c *Config) String() string {
	return fmt.Sprintf("Config{model=%s node=%s demo=%v history=%v theme=%s}",
		c.DefaultModel, c.Node.URL, c.Demo.Enabled, c.History.Enabled, c.UI.Theme)
}
