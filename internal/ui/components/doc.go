// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the aria TUI.

This package contains styled, interactive components built on top of the
Bubble Tea and Lip Gloss libraries. Each component is consistent with the
aria design language: emerald brand colors, ASCII-safe glyphs, and
adaptive dark/light styling.

# Display Components

Header (header.go) - Application banner with model name and backend badge.
StatusBar (statusbar.go) - Bottom bar with backend, live generation stats,
energy total, and shortcut hints.
MessageView (message.go) - Styled chat bubbles with per-role alignment and
a statistics footer on finished assistant replies.
CodeBlock (codeblock.go) - Syntax-highlighted code blocks using Chroma.
MarkdownRenderer (markdown.go) - Glamour-based markdown for assistant text.
Welcome (welcome.go) - Empty-conversation splash screen.

# Navigation and Panels

Sidebar (sidebar.go) - Conversation list with cursor and active marker.
ModelPanel (model_panel.go) - Catalog browser for local models.
EnergyDashboard (energy_dashboard.go) - Session energy report with the
GPU-baseline comparison.

# Input and Feedback

InputArea (input.go) - Message input with a character counter.
ChatViewport (viewport.go) - Scrollable chat area with auto-scroll and
scroll indicators.
Spinner (spinner.go) - Inference spinner with an elapsed timer.
ToastStack (toast.go) - Transient notifications above the status bar.

All components take a *styles.Theme so the whole surface re-renders
consistently when the terminal palette changes.
*/
package components
