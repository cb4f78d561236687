// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat interface for the aria TUI.
package chat

import (
	"strings"
	"testing"
)

// =============================================================================
// SLASH PARSING TESTS
// =============================================================================

func TestParseSlashCommand(t *testing.T) {
	tests := []struct {
		input    string
		wantOK   bool
		wantName string
		wantArgs string
	}{
		{"/new", true, "new", ""},
		{"/rename My Chat", true, "rename", "My Chat"},
		{"/MODEL bitnet-2b", true, "model", "bitnet-2b"},
		{"  /energy  ", true, "energy", ""},
		{"/export  ~/notes/out.md", true, "export", "~/notes/out.md"},
		{"hello world", false, "", ""},
		{"/", false, "", ""},
		{"", false, "", ""},
		{"what does / mean?", false, "", ""},
	}

	for _, tc := range tests {
		cmd, ok := parseSlashCommand(tc.input)
		if ok != tc.wantOK {
			t.Errorf("parseSlashCommand(%q) ok = %v, want %v", tc.input, ok, tc.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if cmd.Name != tc.wantName {
			t.Errorf("parseSlashCommand(%q).Name = %q, want %q", tc.input, cmd.Name, tc.wantName)
		}
		if cmd.Args != tc.wantArgs {
			t.Errorf("parseSlashCommand(%q).Args = %q, want %q", tc.input, cmd.Args, tc.wantArgs)
		}
	}
}

func TestCanonicalSlashName(t *testing.T) {
	tests := []struct {
		alias string
		want  string
	}{
		{"new", "new"},
		{"n", "new"},
		{"del", "delete"},
		{"models", "model"},
		{"q", "quit"},
		{"exit", "quit"},
		{"h", "help"},
		{"bogus", ""},
	}

	for _, tc := range tests {
		if got := canonicalSlashName(tc.alias); got != tc.want {
			t.Errorf("canonicalSlashName(%q) = %q, want %q", tc.alias, got, tc.want)
		}
	}
}

// =============================================================================
// EXPORT PATH TESTS
// =============================================================================

func TestDefaultExportPath(t *testing.T) {
	path := defaultExportPath("Energy & Savings: a deep dive", "20250101-120000")
	base := path[strings.LastIndexByte(path, '/')+1:]

	if !strings.HasSuffix(base, "-20250101-120000.md") {
		t.Errorf("path %q should end with the timestamp", base)
	}
	if strings.ContainsAny(base, "&:? ") {
		t.Errorf("path %q should only contain safe characters", base)
	}
	if !strings.HasPrefix(base, "energy") {
		t.Errorf("path %q should start with the slugged title", base)
	}
}

func TestDefaultExportPathEmptyTitle(t *testing.T) {
	path := defaultExportPath("!!!", "20250101-120000")
	if !strings.Contains(path, "conversation-20250101-120000.md") {
		t.Errorf("unsluggable title should fall back, got %q", path)
	}
}

func TestDefaultExportPathLongTitle(t *testing.T) {
	long := strings.Repeat("word ", 30)
	path := defaultExportPath(long, "20250101-120000")
	base := path[strings.LastIndexByte(path, '/')+1:]
	slug := strings.TrimSuffix(base, "-20250101-120000.md")
	if len(slug) > 40 {
		t.Errorf("slug %q should be capped at 40 chars", slug)
	}
}
