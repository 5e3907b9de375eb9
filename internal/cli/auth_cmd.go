// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - Account commands for the luna CLI.
//
// Commands:
//   login [--email EMAIL] [--password-stdin] [--google]
//   signup [--name NAME] [--email EMAIL] [--password-stdin]
//   logout
//   whoami [--json]
//
// Passwords are read without echo from the terminal, or as the first line
// of stdin with --password-stdin.

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/julianacholder/womens-health-chatbot/internal/auth"
)

func loginCmd(app *App) *cobra.Command {
	var (
		email         string
		passwordStdin bool
		google        bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to keep your conversations",
		Example: `  luna login --email you@example.com
  echo "$PASSWORD" | luna login --email you@example.com --password-stdin
  luna login --google`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Auth()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if google {
				url, err := client.SignInWithOAuth(cmd.Context(), "google")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "Open this link in your browser to finish signing in:")
				fmt.Fprintln(out, "  "+url)
				return nil
			}

			p := newPrompter(cmd.InOrStdin(), out)
			if email == "" {
				if email, err = p.line("Email: "); err != nil {
					return err
				}
			}
			password, err := p.password("Password: ", passwordStdin)
			if err != nil {
				return err
			}
			if err := auth.ValidateLogin(email, password); err != nil {
				return err
			}

			sess, err := client.SignInWithPassword(cmd.Context(), auth.NormalizeEmail(email), password)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s Welcome back, %s 🌙\n", SuccessStyle.Render("✓"), auth.DisplayName(&sess.User))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from the first line of stdin")
	cmd.Flags().BoolVar(&google, "google", false, "sign in with Google")
	return cmd
}

func signupCmd(app *App) *cobra.Command {
	var (
		name          string
		email         string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a Luna account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Auth()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			p := newPrompter(cmd.InOrStdin(), out)

			if name == "" {
				if name, err = p.line("Name: "); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = p.line("Email: "); err != nil {
					return err
				}
			}
			password, err := p.password("Password: ", passwordStdin)
			if err != nil {
				return err
			}
			confirm := password
			if !passwordStdin {
				if confirm, err = p.password("Confirm password: ", false); err != nil {
					return err
				}
			}
			if err := auth.ValidateSignup(name, email, password, confirm); err != nil {
				return err
			}

			sess, err := client.SignUp(cmd.Context(), strings.TrimSpace(name), auth.NormalizeEmail(email), password)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s Welcome to Luna, %s 🌸\n", SuccessStyle.Render("✓"), auth.DisplayName(&sess.User))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from the first line of stdin")
	return cmd
}

func logoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Auth()
			if err != nil {
				return err
			}
			if err := client.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func whoamiCmd(app *App) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return OutputJSON(out, jsonOut, "whoami", func() (interface{}, error) {
				sess, err := app.CurrentSession(cmd.Context())
				if err != nil {
					return nil, err
				}

				if sess == nil {
					if !jsonOut {
						fmt.Fprintln(out, "Guest (not signed in)")
					}
					return WhoamiData{Guest: true}, nil
				}

				data := WhoamiData{ID: sess.User.ID, Name: sess.User.Name, Email: sess.User.Email}
				if !sess.ExpiresAt.IsZero() {
					expires := sess.ExpiresAt
					data.ExpiresAt = &expires
				}
				if !jsonOut {
					fmt.Fprintln(out, RenderLabel("Name")+auth.DisplayName(&sess.User))
					if sess.User.Email != "" {
						fmt.Fprintln(out, RenderLabel("Email")+sess.User.Email)
					}
					fmt.Fprintln(out, RenderLabel("ID")+sess.User.ID)
					if data.ExpiresAt != nil {
						fmt.Fprintln(out, RenderLabel("Expires")+data.ExpiresAt.Local().Format("Jan 2, 2006 3:04 PM"))
					}
				}
				return data, nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

// =============================================================================
// PROMPTS
// =============================================================================

// prompter reads answers from one reader so that line prompts and
// --password-stdin share its buffer.
type prompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: in, reader: bufio.NewReader(in), out: out}
}

// line prints label and reads one line.
func (p *prompter) line(label string) (string, error) {
	if isTerminalReader(p.in) {
		fmt.Fprint(p.out, label)
	}
	s, err := p.reader.ReadString('\n')
	if err != nil && s == "" {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(strings.TrimSuffix(label, ": ")), err)
	}
	return strings.TrimSpace(s), nil
}

// password reads a password without echo from the terminal, or as a line
// when fromStdin is set.
func (p *prompter) password(label string, fromStdin bool) (string, error) {
	if fromStdin {
		s, err := p.reader.ReadString('\n')
		if err != nil && s == "" {
			return "", fmt.Errorf("failed to read password from stdin: %w", err)
		}
		return strings.TrimRight(s, "\r\n"), nil
	}

	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", &TTYRequiredError{Operation: "read a password (use --password-stdin)"}
	}
	fmt.Fprint(p.out, label)
	passBytes, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(passBytes), nil
}
