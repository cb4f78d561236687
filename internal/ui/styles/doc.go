// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the aria TUI.

This package defines the color palette, component styles, and loading
animations used throughout the application. All colors use Lip Gloss
AdaptiveColor for automatic light/dark terminal detection.

# Color System (colors.go)

Emerald is the brand color and marks efficiency: the live node indicator,
energy statistics, and the assistant's message bubbles. Amber marks the
simulated backend and warnings; Rose marks errors and the node-offline
state.

# Theme (theme.go)

Theme bundles every lipgloss style the UI renders with. Construct one
with NewTheme, which probes the terminal's color profile, and pass it
down to the chat model and the components.

# Animations (animations.go)

Spinner frame sets and the progress bar renderer used by the download
view and the energy dashboard. All frames are ASCII for terminal
compatibility.
*/
package styles
