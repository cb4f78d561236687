// aria-tui - Terminal chat client for the ARIA decentralized AI network.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/aria-protocol/aria-tui/internal/cli"
	"github.com/aria-protocol/aria-tui/internal/config"
	"github.com/aria-protocol/aria-tui/internal/energy"
	"github.com/aria-protocol/aria-tui/internal/gateway"
	"github.com/aria-protocol/aria-tui/internal/logging"
	"github.com/aria-protocol/aria-tui/internal/model"
	"github.com/aria-protocol/aria-tui/internal/schedule"
	"github.com/aria-protocol/aria-tui/internal/session"
	"github.com/aria-protocol/aria-tui/internal/storage"
	"github.com/aria-protocol/aria-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		demoFlag    = flag.Bool("demo", false, "use the simulated backend instead of a local node")
		lineFlag    = flag.Bool("line", false, "force line mode even on a TTY")
		modelFlag   = flag.String("model", "", "model to chat with (overrides config)")
		configFlag  = flag.String("config", "", "path to a config file")
		versionFlag = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("aria-tui %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		return 0
	}

	// =========================================================================
	// CONFIGURATION
	// =========================================================================

	var (
		cfg *config.Config
		err error
	)
	if *configFlag != "" {
		cfg, err = config.LoadFromPath(*configFlag)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "aria-tui: config: %v\n", err)
		return 1
	}
	if *demoFlag {
		cfg.Demo.Enabled = true
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "aria-tui: logging: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()
	log.Info("starting",
		zap.String("version", Version),
		zap.Bool("demo", cfg.Demo.Enabled))

	// =========================================================================
	// SERVICES
	// =========================================================================

	// Gateway: a real node client unless demo mode forces simulation.
	var (
		gw   gateway.Gateway
		node *gateway.NodeClient
	)
	if cfg.Demo.Enabled {
		if cfg.Demo.Seed != 0 {
			gw = gateway.NewMockGatewayWithRand(rand.New(rand.NewSource(cfg.Demo.Seed)))
		} else {
			gw = gateway.NewMockGateway()
		}
	} else {
		node = gateway.NewNodeClientWithConfig(&gateway.ClientConfig{
			BaseURL:      cfg.Node.URL,
			Timeout:      time.Duration(cfg.Node.StatusTimeoutSecs) * time.Second,
			InferTimeout: time.Duration(cfg.Node.InferTimeoutSecs) * time.Second,
		})
		gw = node
	}

	var store *storage.Store
	if cfg.History.Enabled {
		path := cfg.History.Path
		if path == "" {
			path, err = storage.DefaultPath()
			if err != nil {
				log.Warn("history disabled: no database path", zap.Error(err))
			}
		}
		if path != "" {
			store, err = storage.Open(path)
			if err != nil {
				// Chat still works without history.
				log.Warn("history disabled: cannot open store",
					zap.String("path", path), zap.Error(err))
				store = nil
			} else {
				defer func() { _ = store.Close() }()
			}
		}
	}

	tracker := energy.NewTracker(time.Now())

	// Model precedence: flag, then the stored selection, then the config.
	modelID := cfg.DefaultModel
	if store != nil {
		if saved, err := store.GetSetting(storage.SettingSelectedModel); err == nil && saved != "" {
			modelID = saved
		}
	}
	if *modelFlag != "" {
		modelID = *modelFlag
	}
	if modelID != "" && !model.KnownModel(modelID) {
		fmt.Fprintf(os.Stderr, "aria-tui: unknown model %q\n", modelID)
		return 1
	}
	if modelID == "" {
		modelID = model.DefaultModelID
	}

	// =========================================================================
	// SESSION
	// =========================================================================

	opts := []session.Option{
		session.WithLogger(log.Named("session")),
		session.WithRecorder(tracker),
		session.WithModel(modelID),
	}
	mgr := session.NewManager(gw, schedule.NewTimerScheduler(), opts...)

	if store != nil {
		if pruned, perr := store.Prune(cfg.History.MaxConversations); perr != nil {
			log.Warn("history prune failed", zap.Error(perr))
		} else if pruned > 0 {
			log.Info("pruned old conversations", zap.Int("count", pruned))
		}
		conversations, activeID, loadErr := store.LoadAll()
		if loadErr != nil {
			log.Warn("could not restore history", zap.Error(loadErr))
		} else if len(conversations) > 0 {
			mgr.Restore(conversations, activeID)
		}
	}

	// Hot-reload: only the model selection is safe to apply mid-session.
	watchPath := *configFlag
	if watchPath == "" {
		watchPath, _ = config.ConfigPathTOML()
	}
	if watchPath != "" {
		watcher, werr := config.NewWatcher(watchPath, func(next *config.Config) {
			if next.DefaultModel != "" && model.KnownModel(next.DefaultModel) {
				mgr.SelectModel(next.DefaultModel)
			}
			log.Info("config reloaded", zap.String("model", next.DefaultModel))
		})
		if werr != nil {
			log.Debug("config watch unavailable", zap.Error(werr))
		} else {
			if err := watcher.Watch(); err != nil {
				log.Debug("config watch unavailable", zap.Error(err))
			}
			defer func() { _ = watcher.Close() }()
		}
	}

	// =========================================================================
	// FRONTEND
	// =========================================================================

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cli.IsTTY() && !*lineFlag {
		return runTUI(ctx, mgr, gw, node, tracker, store, cfg, log)
	}
	return runLine(ctx, mgr, tracker, store, cfg, log)
}

// runTUI drives the full-screen Bubble Tea interface.
func runTUI(ctx context.Context, mgr *session.Manager, gw gateway.Gateway, node *gateway.NodeClient, tracker *energy.Tracker, store *storage.Store, cfg *config.Config, log *zap.Logger) int {
	m := chat.New(chat.Deps{
		Session: mgr,
		Gateway: gw,
		Node:    node,
		Tracker: tracker,
		Store:   store,
		Config:  cfg,
		Log:     log.Named("ui"),
		Version: Version,
	})

	program := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	mgr.SetNotify(func() {
		program.Send(chat.SessionChangedMsg{})
	})

	if _, err := program.Run(); err != nil {
		log.Error("tui exited with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "aria-tui: %v\n", err)
		return 1
	}
	return 0
}

// runLine drives the plain readline loop for pipes and dumb terminals.
func runLine(ctx context.Context, mgr *session.Manager, tracker *energy.Tracker, store *storage.Store, cfg *config.Config, log *zap.Logger) int {
	repl := cli.New(cli.Deps{
		Session: mgr,
		Tracker: tracker,
		Store:   store,
		Config:  cfg,
		Log:     log.Named("cli"),
		Version: Version,
	})
	mgr.SetNotify(repl.NotifyFunc())

	if err := repl.Run(ctx); err != nil {
		log.Error("repl exited with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "aria-tui: %v\n", err)
		return 1
	}
	return 0
}
