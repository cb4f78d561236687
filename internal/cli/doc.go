// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli provides the plain line-mode chat interface for aria.

Line mode is the fallback when stdin is not a terminal that can host the
full Bubble Tea interface, and it is selectable with the --line flag. It
drives the same session.Manager as the TUI, so conversation semantics,
persistence, and energy accounting are identical; only the presentation
differs.

Input is read with peterh/liner, which provides history navigation and
line editing. History persists to cli_history in the aria config
directory. Output is wrapped to the terminal width and colored only when
stdout is a TTY and NO_COLOR is unset.
*/
package cli
