// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and manages aria-tui configuration.
//
// Settings come from ~/.aria/config.toml (or config.json), a .env file in
// the working directory, and ARIA_* environment variables, in increasing
// order of precedence. Missing values fall back to built-in defaults and
// the result is validated before use.
//
// A Watcher can reload the file on change so a running session picks up
// edits without restarting.
package config
