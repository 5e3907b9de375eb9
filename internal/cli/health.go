// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// health.go - Backend health check for the luna CLI.
//
// Command: health [--json]

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/julianacholder/womens-health-chatbot/internal/backend"
)

// healthTimeout bounds a single probe from the CLI.
const healthTimeout = 10 * time.Second

func healthCmd(app *App) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check whether the chat backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return OutputJSON(out, jsonOut, "health", func() (interface{}, error) {
				client, err := app.Backend()
				if err != nil {
					return nil, err
				}

				ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
				defer cancel()

				prober := backend.NewProber(client, 0)
				report, err := prober.Probe(ctx)
				if err != nil {
					return nil, err
				}

				data := HealthData{
					URL:       client.BaseURL(),
					Healthy:   report.Healthy(),
					LatencyMS: report.Latency.Milliseconds(),
				}
				if report.Status != nil {
					data.Status = report.Status.Status
					data.ModelLoaded = report.Status.ModelLoaded
					data.MemoryUsageMB = report.Status.MemoryUsageMB
					data.Message = report.Status.Message
				}
				if report.Err != nil {
					data.Error = report.Err.Error()
				}

				if !jsonOut {
					printHealth(cmd, data)
				}
				if !data.Healthy {
					return data, fmt.Errorf("backend at %s is not healthy", data.URL)
				}
				return data, nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

func printHealth(cmd *cobra.Command, d HealthData) {
	out := cmd.OutOrStdout()
	state := "online"
	if !d.Healthy {
		state = "offline"
		if d.Status != "" {
			state = d.Status
		}
	}
	fmt.Fprintln(out, RenderLabel("Backend")+d.URL)
	fmt.Fprintln(out, RenderLabel("Status")+RenderStatus(d.Healthy, state))
	if d.Error != "" {
		fmt.Fprintln(out, RenderLabel("Error")+ErrorStyle.Render(d.Error))
		return
	}
	fmt.Fprintln(out, RenderLabel("Model loaded")+fmt.Sprintf("%t", d.ModelLoaded))
	if d.MemoryUsageMB > 0 {
		fmt.Fprintln(out, RenderLabel("Memory")+fmt.Sprintf("%.1f MB", d.MemoryUsageMB))
	}
	if d.Message != "" {
		fmt.Fprintln(out, RenderLabel("Message")+d.Message)
	}
	fmt.Fprintln(out, RenderLabel("Latency")+fmt.Sprintf("%dms", d.LatencyMS))
}
