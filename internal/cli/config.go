// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config commands for the luna CLI.
//
// Commands:
//   config show [--json]
//   config path
//   config init [--force]
//   config get <key>
//   config set <key> <value>
//
// Keys use dot notation, e.g. backend.url or ui.theme.

package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/julianacholder/womens-health-chatbot/internal/config"
)

func configCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		configShowCmd(app),
		configPathCmd(app),
		configInitCmd(app),
		configGetCmd(app),
		configSetCmd(app),
	)
	return cmd
}

func configShowCmd(app *App) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration: defaults, the config file, .env files,
LUNA_* environment variables and command-line flags, merged. The auth
secret is redacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOut {
				fmt.Fprintln(out, cfg.String())
				return nil
			}

			safe := cfg.Clone()
			if safe.Auth.Secret != "" {
				safe.Auth.Secret = "[REDACTED]"
			}
			var buf bytes.Buffer
			if err := toml.NewEncoder(&buf).Encode(safe); err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			_, err = out.Write(buf.Bytes())
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

func configPathCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.configFile()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func configInitCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.configFile()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.SaveTOML(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func configGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Short:     "Print one configuration value",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.GetAllKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config()
			if err != nil {
				return err
			}
			key := normalizeKey(args[0])
			value, err := cfg.Get(key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), maskIfSecret(key, fmt.Sprint(value)))
			return nil
		},
	}
}

func configSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one configuration value in the config file",
		Long: `Change one configuration value in the config file.

Only the file is read and written; environment overrides and flags are not
saved into it.`,
		Example: `  luna config set backend.url https://luna.example.com
  luna config set ui.theme dark`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.configFile()
			if err != nil {
				return err
			}

			cfg := config.Default()
			if _, statErr := os.Stat(path); statErr == nil {
				if err := config.LoadTOML(cfg, path); err != nil {
					return err
				}
				cfg.SetDefaults()
			}

			key := normalizeKey(args[0])
			if err := cfg.Set(key, args[1]); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration value: %w", err)
			}
			if err := config.SaveTOML(cfg, path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", SuccessStyle.Render("[OK]"), key, maskIfSecret(key, args[1]))
			return nil
		},
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// configFile returns --config or the default config location.
func (a *App) configFile() (string, error) {
	if a.ConfigPath != "" {
		return a.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

// normalizeKey accepts ui_theme as well as ui.theme.
func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if !strings.Contains(key, ".") {
		key = strings.Replace(key, "_", ".", 1)
	}
	return key
}

// maskIfSecret hides the auth secret.
func maskIfSecret(key, value string) string {
	if strings.Contains(strings.ToLower(key), "secret") && value != "" {
		return "[REDACTED]"
	}
	return value
}
