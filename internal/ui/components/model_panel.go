// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the aria TUI.
package components

import (
	"strings"

	"github.com/aria-protocol/aria-tui/internal/gateway"
	"github.com/aria-protocol/aria-tui/internal/model"
	"github.com/aria-protocol/aria-tui/internal/ui/styles"
)

// =============================================================================
// MODEL PICKER PANEL
// =============================================================================

// ModelPanel lists the BitNet model catalog with download and selection
// state, for the /model command.
type ModelPanel struct {
	Width int

	entries  []model.ModelInfo
	states   map[string]gateway.ModelState
	cursor   int
	selected string

	theme *styles.Theme
}

// NewModelPanel creates a panel over the built-in catalog.
func NewModelPanel(theme *styles.Theme) *ModelPanel {
	return &ModelPanel{
		Width:   60,
		entries: model.AllModels(),
		states:  make(map[string]gateway.ModelState),
		theme:   theme,
	}
}

// SetWidth updates the panel width.
func (p *ModelPanel) SetWidth(width int) {
	p.Width = width
}

// SetStates records the node's view of each model (downloaded, loaded).
func (p *ModelPanel) SetStates(states []gateway.ModelState) {
	p.states = make(map[string]gateway.ModelState, len(states))
	for _, st := range states {
		p.states[st.ID] = st
	}
}

// SetSelected marks the model the session will use for the next send.
func (p *ModelPanel) SetSelected(id string) {
	p.selected = id
	for i, entry := range p.entries {
		if entry.ID == id {
			p.cursor = i
			break
		}
	}
}

// CursorUp moves the cursor up.
func (p *ModelPanel) CursorUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// CursorDown moves the cursor down.
func (p *ModelPanel) CursorDown() {
	if p.cursor < len(p.entries)-1 {
		p.cursor++
	}
}

// Cursor returns the model under the cursor.
func (p *ModelPanel) Cursor() model.ModelInfo {
	if p.cursor < 0 || p.cursor >= len(p.entries) {
		return model.ModelInfo{}
	}
	return p.entries[p.cursor]
}

// View renders the model panel.
func (p *ModelPanel) View() string {
	rows := []string{
		p.theme.PanelTitle.Render("Models"),
		"",
	}

	for i, entry := range p.entries {
		line := entry.Name + "  " +
			entry.ParamString() + "  " +
			entry.SizeString() + "  " +
			entry.Quantization

		badges := []string{}
		if entry.Recommended {
			badges = append(badges, "recommended")
		}
		if st, ok := p.states[entry.ID]; ok {
			if st.Loaded {
				badges = append(badges, "loaded")
			} else if st.Downloaded {
				badges = append(badges, "downloaded")
			}
		}
		if entry.ID == p.selected {
			badges = append(badges, "selected")
		}
		if len(badges) > 0 {
			line += "  [" + strings.Join(badges, ", ") + "]"
		}

		if i == p.cursor {
			rows = append(rows, p.theme.PanelSelected.Render("> "+line))
		} else {
			rows = append(rows, "  "+line)
		}
		rows = append(rows, p.theme.PanelHint.Render("    "+entry.Description))
	}

	rows = append(rows, "",
		p.theme.PanelHint.Render("enter to select, d to download, esc to close"))

	return p.theme.PanelBox.Width(p.Width).Render(strings.Join(rows, "\n"))
}
