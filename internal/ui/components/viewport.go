// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the aria TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/aria-protocol/aria-tui/internal/model"
	"github.com/aria-protocol/aria-tui/internal/ui/styles"
)

// =============================================================================
// CHAT VIEWPORT COMPONENT
// =============================================================================

// ChatViewport is the scrollable chat area with scroll indicators.
type ChatViewport struct {
	viewport   viewport.Model
	messages   []*model.Message
	width      int
	height     int
	ready      bool
	autoScroll bool
	theme      *styles.Theme
	renderer   *MessageView

	scrollY    int
	maxScrollY int
}

// NewChatViewport creates a new ChatViewport.
func NewChatViewport(theme *styles.Theme) *ChatViewport {
	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()

	return &ChatViewport{
		viewport:   vp,
		messages:   []*model.Message{},
		width:      80,
		height:     20,
		autoScroll: true,
		theme:      theme,
		renderer:   NewMessageView(theme),
	}
}

// SetSize updates the viewport dimensions.
func (cv *ChatViewport) SetSize(width, height int) {
	cv.width = width
	cv.height = height
	cv.viewport.Width = width - 2
	cv.viewport.Height = height
	cv.renderer.SetWidth(width - 4)
	cv.ready = true

	cv.updateContent()
}

// SetRenderMarkdown toggles markdown rendering of assistant messages.
func (cv *ChatViewport) SetRenderMarkdown(enabled bool) {
	cv.renderer.RenderMarkdown = enabled
	cv.updateContent()
}

// SetMessages replaces the displayed messages.
func (cv *ChatViewport) SetMessages(messages []*model.Message) {
	cv.messages = messages
	cv.updateContent()

	if cv.autoScroll {
		cv.ScrollToBottom()
	}
}

// AppendMessage appends one message.
func (cv *ChatViewport) AppendMessage(msg *model.Message) {
	cv.messages = append(cv.messages, msg)
	cv.updateContent()

	if cv.autoScroll {
		cv.ScrollToBottom()
	}
}

// Refresh re-renders the current messages. Called while the last message
// is still being revealed.
func (cv *ChatViewport) Refresh() {
	cv.updateContent()

	if cv.autoScroll {
		cv.ScrollToBottom()
	}
}

func (cv *ChatViewport) updateContent() {
	var b strings.Builder
	for i, msg := range cv.messages {
		rendered := cv.renderer.Render(msg)
		if rendered == "" {
			continue
		}
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(rendered)
	}

	wrapped := wrapContentForViewport(b.String(), cv.width-2)
	cv.viewport.SetContent(wrapped)

	lines := strings.Count(wrapped, "\n") + 1
	cv.maxScrollY = maxInt0(0, lines-cv.height)

	cv.scrollY = cv.viewport.YOffset
	if cv.scrollY > cv.maxScrollY {
		cv.scrollY = cv.maxScrollY
	}
	if cv.scrollY < 0 {
		cv.scrollY = 0
	}
}

// ScrollToBottom scrolls to the bottom and re-enables auto-scroll.
func (cv *ChatViewport) ScrollToBottom() {
	cv.viewport.GotoBottom()
	cv.scrollY = cv.maxScrollY
	cv.autoScroll = true
}

// ScrollToTop scrolls to the top.
func (cv *ChatViewport) ScrollToTop() {
	cv.viewport.GotoTop()
	cv.scrollY = 0
	cv.autoScroll = false
}

// ScrollUp scrolls up by the given number of lines.
func (cv *ChatViewport) ScrollUp(lines int) {
	// User took control, disable auto-scroll.
	cv.autoScroll = false
	cv.scrollY = maxInt0(0, cv.scrollY-lines)
	cv.viewport.SetYOffset(cv.scrollY)
}

// ScrollDown scrolls down by the given number of lines.
func (cv *ChatViewport) ScrollDown(lines int) {
	cv.scrollY = minInt(cv.maxScrollY, cv.scrollY+lines)
	cv.viewport.SetYOffset(cv.scrollY)

	if cv.scrollY >= cv.maxScrollY {
		cv.autoScroll = true
	}
}

// PageUp scrolls up by one page.
func (cv *ChatViewport) PageUp() {
	cv.autoScroll = false
	cv.scrollY = maxInt0(0, cv.scrollY-cv.height)
	cv.viewport.SetYOffset(cv.scrollY)
}

// PageDown scrolls down by one page.
func (cv *ChatViewport) PageDown() {
	cv.scrollY = minInt(cv.maxScrollY, cv.scrollY+cv.height)
	cv.viewport.SetYOffset(cv.scrollY)

	if cv.scrollY >= cv.maxScrollY {
		cv.autoScroll = true
	}
}

// AtTop returns true if the viewport is at the top.
func (cv *ChatViewport) AtTop() bool {
	return cv.viewport.AtTop()
}

// AtBottom returns true if the viewport is at the bottom.
func (cv *ChatViewport) AtBottom() bool {
	return cv.viewport.AtBottom()
}

// AutoScrolling reports whether auto-scroll is active.
func (cv *ChatViewport) AutoScrolling() bool {
	return cv.autoScroll
}

// Update handles scroll messages.
func (cv *ChatViewport) Update(msg tea.Msg) (*ChatViewport, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			cv.ScrollUp(1)
			return cv, nil
		case "down", "j":
			cv.ScrollDown(1)
			return cv, nil
		case "pgup":
			cv.PageUp()
			return cv, nil
		case "pgdown":
			cv.PageDown()
			return cv, nil
		case "home":
			cv.ScrollToTop()
			return cv, nil
		case "end":
			cv.ScrollToBottom()
			return cv, nil
		}
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			cv.ScrollUp(3)
			return cv, nil
		case tea.MouseButtonWheelDown:
			cv.ScrollDown(3)
			return cv, nil
		}
	}

	var cmd tea.Cmd
	cv.viewport, cmd = cv.viewport.Update(msg)
	cv.scrollY = cv.viewport.YOffset
	return cv, cmd
}

// View renders the viewport with scroll indicators.
func (cv *ChatViewport) View() string {
	if !cv.ready {
		return ""
	}

	var result strings.Builder

	if ind := cv.renderScrollIndicator(true); ind != "" {
		result.WriteString(ind)
		result.WriteString("\n")
	}

	result.WriteString(cv.viewport.View())

	if ind := cv.renderScrollIndicator(false); ind != "" {
		result.WriteString("\n")
		result.WriteString(ind)
	}

	return result.String()
}

func (cv *ChatViewport) renderScrollIndicator(top bool) string {
	if top && cv.AtTop() {
		return ""
	}
	if !top && cv.AtBottom() {
		return ""
	}

	arrow := "v"
	text := "more below"
	if top {
		arrow = "^"
		text = "scroll up for more"
	}

	arrowStyle := lipgloss.NewStyle().Foreground(styles.Cyan)
	textStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	line := arrowStyle.Render(arrow) + " " + textStyle.Render(text) + " " + arrowStyle.Render(arrow)

	return lipgloss.NewStyle().
		Width(cv.width).
		Align(lipgloss.Center).
		Render(line)
}

// =============================================================================
// CONTENT WRAPPING
// =============================================================================

// wrapContentForViewport wraps long lines so the viewport never clips wide
// glyphs mid-cell.
func wrapContentForViewport(content string, width int) string {
	if width <= 0 {
		return content
	}

	lines := strings.Split(content, "\n")
	var wrapped []string
	for _, line := range lines {
		if runewidth.StringWidth(stripANSI(line)) <= width {
			wrapped = append(wrapped, line)
			continue
		}
		wrapped = append(wrapped, wordWrapWithRunewidth(line, width)...)
	}

	return strings.Join(wrapped, "\n")
}

// wordWrapWithRunewidth wraps a single line at word boundaries, falling back
// to hard breaks for words wider than the viewport.
func wordWrapWithRunewidth(line string, width int) []string {
	// Styled lines carry escape sequences that width math cannot see.
	// Leave those alone; lipgloss already sized them.
	if strings.Contains(line, "\x1b[") {
		return []string{line}
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{line}
	}

	var out []string
	var cur strings.Builder
	curWidth := 0

	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
			curWidth = 0
		}
	}

	for _, word := range words {
		w := runewidth.StringWidth(word)

		if w > width {
			flush()
			var chunk strings.Builder
			chunkWidth := 0
			for _, r := range word {
				rw := runewidth.RuneWidth(r)
				if chunkWidth+rw > width {
					out = append(out, chunk.String())
					chunk.Reset()
					chunkWidth = 0
				}
				chunk.WriteRune(r)
				chunkWidth += rw
			}
			if chunk.Len() > 0 {
				out = append(out, chunk.String())
			}
			continue
		}

		sep := 0
		if curWidth > 0 {
			sep = 1
		}
		if curWidth+sep+w > width {
			flush()
			sep = 0
		}
		if sep == 1 {
			cur.WriteString(" ")
			curWidth++
		}
		cur.WriteString(word)
		curWidth += w
	}
	flush()

	if len(out) == 0 {
		return []string{""}
	}
	return out
}

func stripANSI(s string) string {
	if !strings.Contains(s, "\x1b[") {
		return s
	}
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		if inEsc {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
			}
			continue
		}
		if r == '\x1b' {
			inEsc = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func maxInt0(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
