// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the aria TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aria-protocol/aria-tui/internal/model"
	"github.com/aria-protocol/aria-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE RENDERER
// =============================================================================

// MessageView renders chat messages as styled bubbles.
type MessageView struct {
	Width          int
	RenderMarkdown bool

	markdown *MarkdownRenderer
	theme    *styles.Theme
}

// NewMessageView creates a message renderer.
func NewMessageView(theme *styles.Theme) *MessageView {
	return &MessageView{
		Width:          80,
		RenderMarkdown: true,
		markdown:       NewMarkdownRenderer(theme.IsDark),
		theme:          theme,
	}
}

// SetWidth updates the available width.
func (v *MessageView) SetWidth(width int) {
	v.Width = width
	v.markdown.SetWidth(bubbleWidth(width))
}

// Render renders one message, including its sender line and, for finished
// assistant messages, a statistics footer.
func (v *MessageView) Render(msg *model.Message) string {
	content := msg.GetDisplayContent()
	if content == "" && !msg.IsStreaming {
		return ""
	}

	sender := v.senderLine(msg)
	body := v.renderBody(msg, content)

	parts := []string{sender, body}
	if stats := msg.FormatStats(); stats != "" && !msg.IsStreaming {
		parts = append(parts, v.theme.StatsBar.Render("  "+stats))
	}

	switch msg.Role {
	case model.RoleUser:
		return lipgloss.NewStyle().
			Width(v.Width).
			Align(lipgloss.Right).
			Render(strings.Join(parts, "\n"))
	case model.RoleSystem:
		return lipgloss.NewStyle().
			Width(v.Width).
			Align(lipgloss.Center).
			Render(strings.Join(parts, "\n"))
	default:
		return strings.Join(parts, "\n")
	}
}

func (v *MessageView) senderLine(msg *model.Message) string {
	name := msg.Role.DisplayName()
	ts := msg.Timestamp.Format("15:04")

	var nameStyle lipgloss.Style
	switch msg.Role {
	case model.RoleUser:
		nameStyle = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	case model.RoleAssistant:
		nameStyle = lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true)
	default:
		nameStyle = lipgloss.NewStyle().Foreground(styles.Amber).Bold(true)
	}

	return nameStyle.Render(name) + " " + v.theme.ThinkingTime.Render(ts)
}

func (v *MessageView) renderBody(msg *model.Message, content string) string {
	width := bubbleWidth(v.Width)

	var rendered string
	switch {
	case msg.Role == model.RoleAssistant && v.RenderMarkdown && !msg.IsStreaming:
		rendered = v.markdown.Render(content)
	case msg.Role == model.RoleAssistant && msg.IsStreaming:
		// Mid-reveal: skip markdown, append the cursor.
		rendered = content + "_"
	case msg.Role == model.RoleAssistant:
		// Markdown off: still highlight fenced code blocks.
		rendered = renderPlainWithCode(content, width)
	default:
		rendered = content
	}

	var bubble lipgloss.Style
	switch msg.Role {
	case model.RoleUser:
		bubble = v.theme.UserBubble
	case model.RoleSystem:
		bubble = v.theme.SystemBubble
	default:
		bubble = v.theme.AssistantBubble
	}

	return bubble.MaxWidth(width).Render(rendered)
}

// renderPlainWithCode passes text through untouched but runs fenced code
// blocks through the syntax highlighter.
func renderPlainWithCode(content string, width int) string {
	if !strings.Contains(content, "```") {
		return content
	}

	var out []string
	var code []string
	var lang string
	inFence := false

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inFence {
				block := NewCodeBlock(lang, strings.Join(code, "\n"))
				block.SetMaxWidth(width)
				out = append(out, block.Render())
				code = code[:0]
			} else {
				lang = strings.TrimPrefix(trimmed, "```")
			}
			inFence = !inFence
			continue
		}
		if inFence {
			code = append(code, line)
		} else {
			out = append(out, line)
		}
	}
	// Unterminated fence: render what accumulated.
	if inFence && len(code) > 0 {
		block := NewCodeBlock(lang, strings.Join(code, "\n"))
		block.SetMaxWidth(width)
		out = append(out, block.Render())
	}

	return strings.Join(out, "\n")
}

// bubbleWidth leaves room for margins and borders.
func bubbleWidth(width int) int {
	w := width - 8
	if w < 20 {
		w = 20
	}
	return w
}
