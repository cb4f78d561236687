// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Bubble Tea chat interface for the aria TUI.

The chat model is a thin presentation layer over session.Manager, which
owns all conversation state and the generation lifecycle. The manager's
notify callback is bridged to the Bubble Tea program as a
SessionChangedMsg, so every visible mutation (a new message, a typewriter
tick, a finished generation) triggers exactly one re-render.

Layout, top to bottom:

	Header        model name and backend badge
	ChatViewport  scrollable message history
	Spinner       while a generation is in flight
	InputArea     message input with slash commands
	ToastStack    transient notices
	StatusBar     backend, live stats, shortcuts

Overlays (sidebar, energy dashboard, model panel, help) replace or crowd
out parts of that column while they are open.

Slash commands are parsed in slash.go; keyboard shortcuts in keys.go.
*/
package chat
