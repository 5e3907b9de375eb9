// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// root.go - The luna root command and the state shared by subcommands.

package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/julianacholder/womens-health-chatbot/internal/auth"
	"github.com/julianacholder/womens-health-chatbot/internal/backend"
	"github.com/julianacholder/womens-health-chatbot/internal/chatflow"
	"github.com/julianacholder/womens-health-chatbot/internal/config"
	"github.com/julianacholder/womens-health-chatbot/internal/conversation"
	"github.com/julianacholder/womens-health-chatbot/internal/session"
	"github.com/julianacholder/womens-health-chatbot/internal/storage"
)

// Version information, set by main from build flags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// TUIRunner starts the full-screen interface. main supplies it so this
// package does not depend on the UI.
type TUIRunner func(app *App) error

// =============================================================================
// APP
// =============================================================================

// App holds global flags and the lazily opened collaborators shared by
// every subcommand of one invocation.
type App struct {
	// ConfigPath overrides ~/.luna/config.toml (--config).
	ConfigPath string
	// BackendURL overrides backend.url (--backend).
	BackendURL string
	// Debug sends log output to stderr (--debug).
	Debug bool

	cfg     *config.Config
	store   storage.Store
	auth    auth.Client
	logFile *os.File
}

// NewApp creates an App with no flags set.
func NewApp() *App {
	return &App{}
}

// Config loads the configuration once and applies flag overrides.
func (a *App) Config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	var (
		cfg *config.Config
		err error
	)
	if a.ConfigPath != "" {
		cfg, err = config.LoadFromPath(a.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if a.BackendURL != "" {
		cfg.Backend.URL = a.BackendURL
	}
	if a.Debug {
		cfg.Log.Debug = true
	}
	config.SetGlobal(cfg)
	a.cfg = cfg
	return cfg, nil
}

// Store opens the configured storage driver.
func (a *App) Store() (storage.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	a.store = store
	return store, nil
}

// Auth returns the configured auth client.
func (a *App) Auth() (auth.Client, error) {
	if a.auth != nil {
		return a.auth, nil
	}
	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}
	store, err := a.Store()
	if err != nil {
		return nil, err
	}
	client, err := auth.New(store, auth.Options{
		Provider: cfg.Auth.Provider,
		URL:      cfg.Auth.URL,
		Secret:   cfg.Auth.Secret,
	})
	if err != nil {
		return nil, err
	}
	a.auth = client
	return client, nil
}

// CurrentSession returns the signed-in session, or nil for the guest.
// Provider failures are logged and treated as signed out.
func (a *App) CurrentSession(ctx context.Context) (*auth.Session, error) {
	client, err := a.Auth()
	if err != nil {
		return nil, err
	}
	sess, err := client.CurrentSession(ctx)
	if err != nil {
		log.Printf("CLI: session lookup failed, continuing as guest: %v", err)
		return nil, nil
	}
	return sess, nil
}

// Conversations builds the conversation manager for the current identity.
// The returned user is nil for the guest.
func (a *App) Conversations(ctx context.Context) (*conversation.Manager, *auth.User, error) {
	store, err := a.Store()
	if err != nil {
		return nil, nil, err
	}
	sess, err := a.CurrentSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return conversation.New(store, ""), nil, nil
	}
	user := sess.User
	return conversation.New(store, user.ID), &user, nil
}

// RequireUser is Conversations for commands that only make sense when
// signed in.
func (a *App) RequireUser(ctx context.Context) (*conversation.Manager, *auth.User, error) {
	mgr, user, err := a.Conversations(ctx)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, fmt.Errorf("not signed in: run `luna login` to keep your conversations")
	}
	return mgr, user, nil
}

// Backend returns a chat backend client for the configured URL.
func (a *App) Backend() (*backend.Client, error) {
	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}
	return backend.NewClient(cfg.Backend.URL).WithTimeout(cfg.BackendTimeout()), nil
}

// Sender wires a send flow to mgr with a fresh session id.
func (a *App) Sender(mgr *conversation.Manager, tracker *session.Manager) (*chatflow.Sender, error) {
	client, err := a.Backend()
	if err != nil {
		return nil, err
	}
	sessionID := session.NewSessionID()
	if tracker != nil {
		sessionID = tracker.SessionID()
	}
	sender := chatflow.New(mgr, client, sessionID)
	if tracker != nil {
		sender = sender.WithTracker(tracker)
	}
	return sender, nil
}

// setupLogging sends log output to stderr in debug mode and to the log
// file otherwise. A broken config falls back to the default log path so
// that `config init` can still repair it.
func (a *App) setupLogging(stderr io.Writer) {
	path := config.Default().LogPath()
	if cfg, err := a.Config(); err == nil {
		if cfg.Log.Debug {
			log.SetOutput(stderr)
			return
		}
		path = cfg.LogPath()
	} else if a.Debug {
		log.SetOutput(stderr)
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		log.SetOutput(io.Discard)
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		log.SetOutput(io.Discard)
		return
	}
	a.logFile = f
	log.SetOutput(f)
}

// Close releases the store and the log file.
func (a *App) Close() error {
	var firstErr error
	if a.store != nil {
		firstErr = a.store.Close()
		a.store = nil
	}
	a.auth = nil
	if a.logFile != nil {
		log.SetOutput(os.Stderr)
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		a.logFile = nil
	}
	return firstErr
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// Command builds the luna command tree. runTUI runs when no subcommand is
// given; nil prints help instead.
func (a *App) Command(runTUI TUIRunner) *cobra.Command {
	root := &cobra.Command{
		Use:   "luna",
		Short: "Luna, a women's health companion for the terminal",
		Long: `Luna answers questions about menstrual health, fertility, pregnancy,
menopause and general wellbeing.

Run without arguments for the full-screen chat. Sign in to keep your
conversations between sessions; as a guest your chat is forgotten on exit.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.setupLogging(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if runTUI == nil {
				return cmd.Help()
			}
			return runTUI(a)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.ConfigPath, "config", "", "config file (default ~/.luna/config.toml)")
	flags.StringVar(&a.BackendURL, "backend", "", "chat backend URL (overrides backend.url)")
	flags.BoolVar(&a.Debug, "debug", false, "write log output to stderr")

	root.AddCommand(
		askCmd(a),
		chatCmd(a),
		loginCmd(a),
		signupCmd(a),
		logoutCmd(a),
		whoamiCmd(a),
		conversationsCmd(a),
		healthCmd(a),
		configCmd(a),
		serveCmd(a),
	)
	return root
}

// Execute runs the luna command line. Ctrl+C cancels the command context.
func Execute(runTUI TUIRunner) error {
	app := NewApp()
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Command(runTUI).ExecuteContext(ctx)
}
