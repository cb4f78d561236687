// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the aria TUI.
package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// MarkdownRenderer renders assistant responses as terminal markdown.
// Renderer construction is expensive, so instances are cached per width.
type MarkdownRenderer struct {
	mu       sync.Mutex
	dark     bool
	width    int
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer for the given theme.
func NewMarkdownRenderer(dark bool) *MarkdownRenderer {
	return &MarkdownRenderer{dark: dark, width: 80}
}

// SetWidth updates the word-wrap width, invalidating the cached renderer.
func (m *MarkdownRenderer) SetWidth(width int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if width != m.width {
		m.width = width
		m.renderer = nil
	}
}

// Render converts markdown to styled terminal output. On failure the raw
// text is returned so a response is never lost to a rendering bug.
func (m *MarkdownRenderer) Render(text string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.renderer == nil {
		style := "light"
		if m.dark {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(m.width),
		)
		if err != nil {
			return text
		}
		m.renderer = r
	}

	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
