// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat interface for the aria TUI.
package chat

import (
	"os"
	"path/filepath"
	"strings"
)

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// slashCommand is one parsed "/name args" input.
type slashCommand struct {
	Name string
	Args string
}

// parseSlashCommand splits user input into a command name and its argument
// remainder. Returns ok=false when the input is not a slash command.
func parseSlashCommand(input string) (slashCommand, bool) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return slashCommand{}, false
	}

	body := strings.TrimPrefix(trimmed, "/")
	if body == "" {
		return slashCommand{}, false
	}

	name := body
	args := ""
	if idx := strings.IndexAny(body, " \t"); idx >= 0 {
		name = body[:idx]
		args = strings.TrimSpace(body[idx:])
	}

	return slashCommand{Name: strings.ToLower(name), Args: args}, true
}

// knownSlashCommands lists the accepted command names, aliases included.
var knownSlashCommands = map[string]string{
	"new":    "new",
	"n":      "new",
	"clear":  "clear",
	"rename": "rename",
	"delete": "delete",
	"del":    "delete",
	"model":  "model",
	"models": "model",
	"energy": "energy",
	"export": "export",
	"help":   "help",
	"h":      "help",
	"quit":   "quit",
	"q":      "quit",
	"exit":   "quit",
}

// canonicalSlashName resolves aliases; empty string means unknown.
func canonicalSlashName(name string) string {
	return knownSlashCommands[name]
}

// defaultExportPath builds a timestamped markdown path in the working
// directory when /export is called without an argument.
func defaultExportPath(title, stamp string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "conversation"
	}
	if len(slug) > 40 {
		slug = slug[:40]
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return filepath.Join(cwd, slug+"-"+stamp+".md")
}
