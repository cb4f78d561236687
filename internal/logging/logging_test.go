// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aria-protocol/aria-tui/internal/config"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "session.log")

	logger, err := New(config.LoggingConfig{
		Level:      "info",
		Path:       path,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	logger.Info("session started")
	logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.Contains(string(data), "session started") {
		t.Errorf("log file missing entry, got %q", string(data))
	}
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.log")

	logger, err := New(config.LoggingConfig{
		Level:     "error",
		Path:      path,
		MaxSizeMB: 1,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	logger.Info("quiet")
	logger.Error("loud")
	logger.Sync()

	data, _ := os.ReadFile(path)
	text := string(data)
	if strings.Contains(text, "quiet") {
		t.Error("info entry logged at error level")
	}
	if !strings.Contains(text, "loud") {
		t.Error("error entry missing")
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("nonsense").String() != "info" {
		t.Errorf("unknown level should map to info, got %s", parseLevel("nonsense"))
	}
	if parseLevel("debug").String() != "debug" {
		t.Error("debug level not parsed")
	}
}
