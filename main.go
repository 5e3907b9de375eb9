// Luna - a women's health chatbot for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianacholder/womens-health-chatbot/internal/backend"
	"github.com/julianacholder/womens-health-chatbot/internal/cli"
	"github.com/julianacholder/womens-health-chatbot/internal/session"
	"github.com/julianacholder/womens-health-chatbot/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	if err := cli.Execute(runTUI); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI starts the full-screen chat for the current identity.
func runTUI(app *cli.App) error {
	cfg, err := app.Config()
	if err != nil {
		return err
	}

	// Log output would corrupt the alternate screen.
	logFile, err := tea.LogToFile(cfg.LogPath(), "luna")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	store, err := app.Store()
	if err != nil {
		return err
	}
	authClient, err := app.Auth()
	if err != nil {
		return err
	}
	client, err := app.Backend()
	if err != nil {
		return err
	}
	sess, err := app.CurrentSession(context.Background())
	if err != nil {
		return err
	}

	m := NewModel(Deps{
		Config:  cfg,
		Theme:   styles.NewTheme(cfg.UI.Theme),
		Store:   store,
		Auth:    authClient,
		Backend: client,
		Prober:  backend.NewProber(client, cfg.HealthInterval()),
		Session: session.NewManager(session.DefaultConfig()),
		Initial: sess,
	})

	log.Printf("LUNA: starting TUI (backend %s)", client.BaseURL())
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running luna: %w", err)
	}
	return nil
}
