// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small helpers shared across aria-tui: crash-safe file
// writes and rune-aware string handling for the terminal renderers.
package util
