// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config manages the aria TUI configuration.
package config

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.DefaultModel = "bitnet-large"
	require.NoError(t, SaveTOML(cfg, path))

	var mu sync.Mutex
	var got *Config
	w, err := NewWatcher(path, func(c *Config) {
		mu.Lock()
		got = c
		mu.Unlock()
	})
	require.NoError(t, err)
	require.NoError(t, w.Watch())
	defer w.Close()

	cfg.DefaultModel = "llama3-8b-1.58"
	require.NoError(t, SaveTOML(cfg, path))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got != nil && got.DefaultModel == "llama3-8b-1.58"
	}, 5*time.Second, 50*time.Millisecond, "watcher should deliver the reloaded config")
}

func TestWatcherDropsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	require.NoError(t, SaveTOML(cfg, path))

	var mu sync.Mutex
	calls := 0
	w, err := NewWatcher(path, func(*Config) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	require.NoError(t, err)
	require.NoError(t, w.Watch())
	defer w.Close()

	// A config that fails validation must not reach onChange.
	bad := Default()
	bad.Logging.Level = "shouting"
	require.NoError(t, SaveTOML(bad, path))

	time.Sleep(watchDebounce + 500*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Zero(t, calls, "invalid config should be dropped")
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	w, err := NewWatcher(path, func(*Config) {})
	require.NoError(t, err)
	require.NoError(t, w.Watch())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
