// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat interface for the aria TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP
// =============================================================================

// KeyMap defines the keyboard bindings for the chat interface.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	Submit key.Binding
	Stop   key.Binding

	NewConversation key.Binding
	ToggleSidebar   key.Binding
	Energy          key.Binding
	Models          key.Binding
	Help            key.Binding
	Quit            key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("Home", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("End", "go to bottom"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send message"),
		),
		Stop: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "stop generation / close overlay"),
		),
		NewConversation: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "new conversation"),
		),
		ToggleSidebar: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "toggle sidebar"),
		),
		Energy: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "energy dashboard"),
		),
		Models: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "model panel"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("C-h", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// HelpLines returns the rows shown by the help overlay. Slash commands are
// included so the overlay is the one place that lists everything.
func (k KeyMap) HelpLines() [][2]string {
	return [][2]string{
		{"Enter", "send message"},
		{"Esc", "stop generation / close overlay"},
		{"C-n", "new conversation"},
		{"C-s", "toggle sidebar"},
		{"C-e", "energy dashboard"},
		{"C-l", "model panel"},
		{"C-h", "toggle this help"},
		{"C-c", "quit"},
		{"up/down", "scroll history"},
		{"PgUp/PgDn", "page through history"},
		{"", ""},
		{"/new", "start a new conversation"},
		{"/clear", "clear the current conversation"},
		{"/rename <title>", "rename the current conversation"},
		{"/delete", "delete the current conversation"},
		{"/model [id]", "show or switch the model"},
		{"/energy", "open the energy dashboard"},
		{"/export [path]", "export the conversation to markdown"},
		{"/help", "show this help"},
		{"/quit", "exit"},
	}
}
