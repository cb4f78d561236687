// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the plain line-mode chat interface for aria.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/aria-protocol/aria-tui/internal/config"
	"github.com/aria-protocol/aria-tui/internal/energy"
	"github.com/aria-protocol/aria-tui/internal/model"
	"github.com/aria-protocol/aria-tui/internal/session"
	"github.com/aria-protocol/aria-tui/internal/storage"
	"github.com/aria-protocol/aria-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	labelStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	statsStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)
)

// =============================================================================
// LINE EDITOR
// =============================================================================

// lineEditor wraps liner with a persistent history file.
type lineEditor struct {
	line        *liner.State
	historyFile string
}

func newLineEditor() *lineEditor {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}

	ed := &lineEditor{
		line:        line,
		historyFile: filepath.Join(dir, "cli_history"),
	}
	ed.loadHistory()
	return ed
}

func (e *lineEditor) loadHistory() {
	if f, err := os.Open(e.historyFile); err == nil {
		_, _ = e.line.ReadHistory(f)
		f.Close()
	}
}

func (e *lineEditor) saveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(e.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = e.line.WriteHistory(f)
}

// readInput reads one line, recording non-empty input in history.
func (e *lineEditor) readInput(prompt string) (string, error) {
	input, err := e.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		e.line.AppendHistory(input)
	}
	return input, nil
}

func (e *lineEditor) close() {
	e.saveHistory()
	e.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// Deps carries the wired application services. Store may be nil when
// history is disabled.
type Deps struct {
	Session *session.Manager
	Tracker *energy.Tracker
	Store   *storage.Store
	Config  *config.Config
	Log     *zap.Logger
	Version string
}

// REPL is the interactive line-mode chat loop.
type REPL struct {
	deps    Deps
	editor  *lineEditor
	changed chan struct{}
	log     *zap.Logger
}

// New creates a REPL. Wire NotifyFunc into the session manager so the loop
// wakes on state changes.
func New(deps Deps) *REPL {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &REPL{
		deps:    deps,
		changed: make(chan struct{}, 1),
		log:     log,
	}
}

// NotifyFunc returns the callback to register with session.WithNotify.
// The send never blocks; a pending wakeup is enough.
func (r *REPL) NotifyFunc() func() {
	return func() {
		select {
		case r.changed <- struct{}{}:
		default:
		}
	}
}

// Run executes the REPL until the user exits or ctx is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	r.editor = newLineEditor()
	defer r.editor.close()

	r.printWelcome()

	// First Ctrl+C stops a running generation; at the prompt liner turns
	// it into ErrPromptAborted instead.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			if r.deps.Session.IsGenerating() {
				r.deps.Session.StopGeneration()
			}
		}
	}()

	for {
		if ctx.Err() != nil {
			r.finish()
			return nil
		}

		input, err := r.editor.readInput(promptStyle.Render("aria> "))
		if err != nil {
			// Ctrl+C at the prompt, Ctrl+D, or a closed terminal.
			fmt.Println()
			r.finish()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			r.finish()
			return nil
		}

		if strings.HasPrefix(input, "/") {
			if !r.handleCommand(input) {
				r.finish()
				return nil
			}
			continue
		}

		r.sendAndWait(ctx, input)
	}
}

// sendAndWait submits one message and blocks until the generation settles,
// then prints the reply.
func (r *REPL) sendAndWait(ctx context.Context, text string) {
	before := r.messageCount()

	r.deps.Session.SendMessage(text)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for r.deps.Session.IsGenerating() {
		select {
		case <-ctx.Done():
			r.deps.Session.StopGeneration()
		case <-r.changed:
		case <-ticker.C:
		}
	}

	r.printNewMessages(before)
}

func (r *REPL) messageCount() int {
	conv := r.deps.Session.ActiveConversation()
	if conv == nil {
		return 0
	}
	return len(conv.Messages)
}

// printNewMessages prints every message appended after index from,
// skipping the echoed user message.
func (r *REPL) printNewMessages(from int) {
	conv := r.deps.Session.ActiveConversation()
	if conv == nil {
		return
	}

	width := TerminalWidth()
	for i := from; i < len(conv.Messages); i++ {
		msg := conv.Messages[i]
		if msg.Role == model.RoleUser {
			continue
		}

		fmt.Println()
		fmt.Println(labelStyle.Render(msg.Role.DisplayName()))
		fmt.Println(WrapText(msg.GetDisplayContent(), width))
		if stats := msg.FormatStats(); stats != "" {
			fmt.Println(statsStyle.Render(stats))
		}
	}
	fmt.Println()
}

// =============================================================================
// COMMANDS
// =============================================================================

// handleCommand runs one slash command. Returns false when the REPL should
// exit.
func (r *REPL) handleCommand(input string) bool {
	name := strings.ToLower(strings.TrimPrefix(input, "/"))
	args := ""
	if idx := strings.IndexAny(name, " \t"); idx >= 0 {
		args = strings.TrimSpace(name[idx:])
		name = name[:idx]
	}

	switch name {
	case "help", "h":
		r.printHelp()

	case "new", "n":
		r.deps.Session.NewConversation()
		fmt.Println(infoStyle.Render("started a new conversation"))

	case "clear", "c":
		r.deps.Session.ClearActiveConversation()
		fmt.Println(infoStyle.Render("conversation cleared"))

	case "model", "m":
		if args == "" {
			r.printModels()
			break
		}
		if !model.KnownModel(args) {
			fmt.Println(warningStyle.Render("unknown model: " + args))
			break
		}
		r.deps.Session.SelectModel(args)
		if r.deps.Store != nil {
			if err := r.deps.Store.SetSetting(storage.SettingSelectedModel, args); err != nil {
				r.log.Debug("could not persist model selection", zap.Error(err))
			}
		}
		fmt.Println(infoStyle.Render("model set to " + args))

	case "models":
		r.printModels()

	case "energy", "e":
		r.printEnergy()

	case "get":
		if args == "" {
			fmt.Println(warningStyle.Render("usage: /get <key> (e.g. /get ui.theme)"))
			break
		}
		val, err := r.deps.Config.Get(args)
		if err != nil {
			fmt.Println(warningStyle.Render(err.Error()))
			break
		}
		fmt.Println(labelStyle.Render(args+":") + " " + fmt.Sprint(val))

	case "set":
		key, value, ok := strings.Cut(args, " ")
		value = strings.TrimSpace(value)
		if !ok || value == "" {
			fmt.Println(warningStyle.Render("usage: /set <key> <value> (e.g. /set ui.theme light)"))
			break
		}
		// Apply on a copy so an invalid value never corrupts the live config.
		next := r.deps.Config.Clone()
		if err := next.Set(key, value); err != nil {
			fmt.Println(warningStyle.Render(err.Error()))
			break
		}
		if err := next.Validate(); err != nil {
			fmt.Println(warningStyle.Render(err.Error()))
			break
		}
		*r.deps.Config = *next
		if err := config.Save(r.deps.Config); err != nil {
			fmt.Println(warningStyle.Render("saved in memory only: " + err.Error()))
		}
		fmt.Println(infoStyle.Render(key + " set to " + value))

	case "history":
		r.printHistory()

	case "export":
		r.exportConversation(args)

	case "quit", "q", "exit":
		return false

	default:
		fmt.Println(warningStyle.Render("unknown command: /" + name + " (try /help)"))
	}
	return true
}

func (r *REPL) printWelcome() {
	name := r.deps.Session.SelectedModel()
	fmt.Println(labelStyle.Render("aria " + r.deps.Version))
	fmt.Println(infoStyle.Render("model: " + model.GetModelInfo(name).Name))
	if r.deps.Config != nil && r.deps.Config.Demo.Enabled {
		fmt.Println(warningStyle.Render("demo mode: responses are simulated"))
	}
	fmt.Println(infoStyle.Render("type /help for commands, /quit to exit"))
	fmt.Println()
}

func (r *REPL) printHelp() {
	rows := []struct{ cmd, desc string }{
		{"/new", "start a new conversation"},
		{"/clear", "clear the current conversation"},
		{"/model [id]", "show or switch the model"},
		{"/energy", "show the session energy report"},
		{"/history", "print the current conversation"},
		{"/export [path]", "export the conversation to markdown"},
		{"/get <key>", "read a config value (dot notation)"},
		{"/set <key> <value>", "change and persist a config value"},
		{"/help", "show this help"},
		{"/quit", "exit"},
	}
	for _, row := range rows {
		fmt.Printf("  %-18s %s\n", promptStyle.Render(row.cmd), infoStyle.Render(row.desc))
	}
}

func (r *REPL) printModels() {
	selected := r.deps.Session.SelectedModel()
	for _, m := range model.AllModels() {
		marker := " "
		if m.ID == selected {
			marker = "*"
		}
		line := fmt.Sprintf("%s %-16s %-22s %s, %s",
			marker, m.ID, m.Name, m.ParamString(), m.SizeString())
		if m.ID == selected {
			fmt.Println(promptStyle.Render(line))
		} else {
			fmt.Println(infoStyle.Render(line))
		}
	}
}

func (r *REPL) printEnergy() {
	if r.deps.Tracker == nil {
		fmt.Println(warningStyle.Render("energy tracking is not active"))
		return
	}
	report := r.deps.Tracker.Report(time.Now())

	fmt.Println(labelStyle.Render("Energy Report"))
	fmt.Printf("  inferences       %d\n", report.TotalInferences)
	fmt.Printf("  tokens generated %d\n", report.TotalTokensGenerated)
	fmt.Printf("  energy used      %.2f mJ\n", report.TotalEnergyMj)
	fmt.Printf("  per token        %.3f mJ\n", report.AvgEnergyPerTokenMj)
	fmt.Printf("  saved vs GPU     %.2f mJ (%.1f%%)\n", report.EnergySavedMj, report.ReductionPercent)
	fmt.Printf("  CO2 avoided      %.4f g\n", report.Co2SavedKg*1000)
	fmt.Printf("  cost avoided     $%.6f\n", report.CostSavedUsd)
}

func (r *REPL) printHistory() {
	conv := r.deps.Session.ActiveConversation()
	if conv == nil || len(conv.Messages) == 0 {
		fmt.Println(infoStyle.Render("no messages yet"))
		return
	}

	width := TerminalWidth()
	fmt.Println(labelStyle.Render(conv.GetTitle()))
	for _, msg := range conv.Messages {
		fmt.Println()
		fmt.Println(labelStyle.Render(msg.Role.DisplayName()))
		fmt.Println(WrapText(msg.GetDisplayContent(), width))
	}
	fmt.Println()
}

func (r *REPL) exportConversation(path string) {
	if r.deps.Store == nil {
		fmt.Println(warningStyle.Render("history is disabled; nothing to export"))
		return
	}

	conv := r.deps.Session.ActiveConversation()
	if conv == nil {
		return
	}

	if path == "" {
		path = "conversation-" + time.Now().Format("20060102-150405") + ".md"
	}

	// The export reads from the store, so flush current state first.
	if err := r.deps.Store.SaveAll(r.deps.Session.Snapshot(), r.deps.Session.ActiveConversationID()); err != nil {
		fmt.Println(errorStyle.Render("save failed: " + err.Error()))
		return
	}
	if err := r.deps.Store.ExportMarkdown(conv.ID, path); err != nil {
		fmt.Println(errorStyle.Render("export failed: " + err.Error()))
		return
	}
	fmt.Println(infoStyle.Render("exported to " + path))
}

// finish persists the snapshot and prints the session summary.
func (r *REPL) finish() {
	if r.deps.Store != nil {
		if err := r.deps.Store.SaveAll(r.deps.Session.Snapshot(), r.deps.Session.ActiveConversationID()); err != nil {
			r.log.Warn("final save failed", zap.Error(err))
		}
	}

	if r.deps.Tracker == nil {
		return
	}
	report := r.deps.Tracker.Report(time.Now())
	if report.TotalInferences == 0 {
		return
	}

	fmt.Println()
	fmt.Println(infoStyle.Render(fmt.Sprintf(
		"session: %d inferences, %d tokens, %.2f mJ (%.1f%% less than GPU)",
		report.TotalInferences,
		report.TotalTokensGenerated,
		report.TotalEnergyMj,
		report.ReductionPercent,
	)))
}
