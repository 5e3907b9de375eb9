// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// serve.go - Development backend for the luna CLI.
//
// Command: serve [--addr ADDR] [--no-rate-limit]

package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/julianacholder/womens-health-chatbot/internal/server"
)

// shutdownTimeout bounds graceful shutdown of the dev backend.
const shutdownTimeout = 5 * time.Second

func serveCmd(app *App) *cobra.Command {
	var (
		addr        string
		noRateLimit bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development chat backend",
		Long: `Run a local chat backend that speaks the same /chat and /health
protocol as the production service. Answers come from a small built-in
topic table, with emergency and out-of-scope triage.

Point the client at it with: luna --backend http://localhost:8000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			srv := server.NewServer(addr)
			if noRateLimit {
				srv = srv.WithRateLimiter(nil)
			}

			// Request logs belong on the console while serving.
			log.SetOutput(cmd.ErrOrStderr())
			fmt.Fprintf(cmd.OutOrStdout(), "Luna dev backend listening on %s (Ctrl+C to stop)\n", srv.Addr())

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	cmd.Flags().BoolVar(&noRateLimit, "no-rate-limit", false, "disable per-client rate limiting")
	return cmd
}
