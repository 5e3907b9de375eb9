// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianacholder/womens-health-chatbot/internal/auth"
	"github.com/julianacholder/womens-health-chatbot/internal/ui/styles"
)

// AuthMode selects the login or sign-up form.
type AuthMode int

const (
	AuthModeLogin AuthMode = iota
	AuthModeSignup
)

// String returns the string representation of the mode.
func (m AuthMode) String() string {
	if m == AuthModeSignup {
		return "signup"
	}
	return "login"
}

// =============================================================================
// AUTH MESSAGES
// =============================================================================

// AuthSubmitMsg carries a validated form.
type AuthSubmitMsg struct {
	Mode     AuthMode
	Name     string
	Email    string
	Password string
}

// AuthOAuthMsg asks to start a social sign-in.
type AuthOAuthMsg struct {
	Provider string
}

// AuthGuestMsg asks to continue without signing in.
type AuthGuestMsg struct{}

// =============================================================================
// AUTH FORM MODEL
// =============================================================================

// Field indices.
const (
	fieldName = iota
	fieldEmail
	fieldPassword
	fieldConfirm
	fieldCount
)

// AuthForm is the login / sign-up screen.
type AuthForm struct {
	mode   AuthMode
	inputs [fieldCount]textinput.Model
	focus  int // index into visibleFields(); len() means the submit button

	err  string
	busy bool

	width  int
	height int

	theme *styles.Theme
}

// NewAuthForm creates a form in the given mode.
func NewAuthForm(theme *styles.Theme, mode AuthMode) AuthForm {
	f := AuthForm{mode: mode, theme: theme}

	placeholders := [fieldCount]string{"Your name", "you@example.com", "Password", "Confirm password"}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 128
		ti.Width = 36
		ti.Prompt = "  "
		if i == fieldPassword || i == fieldConfirm {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.inputs[i] = ti
	}
	f.focusCurrent()
	return f
}

// Mode returns the current mode.
func (f AuthForm) Mode() AuthMode {
	return f.mode
}

// SetMode switches between login and sign-up and clears the error.
func (f *AuthForm) SetMode(mode AuthMode) {
	f.mode = mode
	f.err = ""
	f.focus = 0
	f.focusCurrent()
}

// SetError shows an error under the form and ends the busy state.
func (f *AuthForm) SetError(err error) {
	f.busy = false
	if err == nil {
		f.err = ""
		return
	}
	f.err = err.Error()
}

// Error returns the displayed error text.
func (f AuthForm) Error() string {
	return f.err
}

// SetBusy marks a submission in flight.
func (f *AuthForm) SetBusy(busy bool) {
	f.busy = busy
}

// Busy reports whether a submission is in flight.
func (f AuthForm) Busy() bool {
	return f.busy
}

// SetSize updates the dimensions.
func (f *AuthForm) SetSize(width, height int) {
	f.width = width
	f.height = height
}

// Reset clears every field and the error.
func (f *AuthForm) Reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.err = ""
	f.busy = false
	f.focus = 0
	f.focusCurrent()
}

// SetValue fills a field by name: "name", "email", "password" or "confirm".
func (f *AuthForm) SetValue(field, value string) {
	switch field {
	case "name":
		f.inputs[fieldName].SetValue(value)
	case "email":
		f.inputs[fieldEmail].SetValue(value)
	case "password":
		f.inputs[fieldPassword].SetValue(value)
	case "confirm":
		f.inputs[fieldConfirm].SetValue(value)
	}
}

// visibleFields lists the field indices shown in the current mode.
func (f AuthForm) visibleFields() []int {
	if f.mode == AuthModeSignup {
		return []int{fieldName, fieldEmail, fieldPassword, fieldConfirm}
	}
	return []int{fieldEmail, fieldPassword}
}

func (f *AuthForm) focusCurrent() {
	visible := f.visibleFields()
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	if f.focus < len(visible) {
		f.inputs[visible[f.focus]].Focus()
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink.
func (f AuthForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles field navigation, mode switching and submission.
func (f AuthForm) Update(msg tea.Msg) (AuthForm, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width = msg.Width
		f.height = msg.Height
		return f, nil

	case tea.KeyMsg:
		if f.busy {
			return f, nil
		}
		visible := f.visibleFields()
		switch msg.String() {
		case "tab", "down":
			f.focus = (f.focus + 1) % (len(visible) + 1)
			f.focusCurrent()
			return f, nil
		case "shift+tab", "up":
			f.focus = (f.focus + len(visible)) % (len(visible) + 1)
			f.focusCurrent()
			return f, nil
		case "ctrl+t":
			if f.mode == AuthModeLogin {
				f.SetMode(AuthModeSignup)
			} else {
				f.SetMode(AuthModeLogin)
			}
			return f, nil
		case "ctrl+g":
			return f, func() tea.Msg { return AuthGuestMsg{} }
		case "ctrl+o":
			return f, func() tea.Msg { return AuthOAuthMsg{Provider: "google"} }
		case "enter":
			if f.focus < len(visible)-1 {
				f.focus++
				f.focusCurrent()
				return f, nil
			}
			return f.submit()
		}
	}

	visible := f.visibleFields()
	if f.focus >= len(visible) {
		return f, nil
	}
	var cmd tea.Cmd
	idx := visible[f.focus]
	f.inputs[idx], cmd = f.inputs[idx].Update(msg)
	return f, cmd
}

// submit validates the form and emits AuthSubmitMsg.
func (f AuthForm) submit() (AuthForm, tea.Cmd) {
	name := strings.TrimSpace(f.inputs[fieldName].Value())
	email := auth.NormalizeEmail(f.inputs[fieldEmail].Value())
	password := f.inputs[fieldPassword].Value()

	var err error
	if f.mode == AuthModeSignup {
		err = auth.ValidateSignup(name, email, password, f.inputs[fieldConfirm].Value())
	} else {
		err = auth.ValidateLogin(email, password)
	}
	if err != nil {
		f.SetError(err)
		return f, nil
	}

	f.err = ""
	f.busy = true
	submit := AuthSubmitMsg{Mode: f.mode, Name: name, Email: email, Password: password}
	return f, func() tea.Msg { return submit }
}

// View renders the form centered in the available space.
func (f AuthForm) View() string {
	labels := [fieldCount]string{"Name", "Email", "Password", "Confirm password"}

	title := "Welcome back 🌙"
	subtitle := "Sign in to pick up your conversations with Luna."
	button := "Sign in"
	switchHint := "ctrl+t  create an account"
	if f.mode == AuthModeSignup {
		title = "Join Luna 🌸"
		subtitle = "Create an account to save your conversations."
		button = "Create account"
		switchHint = "ctrl+t  I already have an account"
	}

	var sb strings.Builder
	sb.WriteString(f.theme.FormTitle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(f.theme.HeaderSubtitle.Render(subtitle))
	sb.WriteString("\n\n")

	visible := f.visibleFields()
	for _, idx := range visible {
		sb.WriteString(f.theme.FormLabel.Render(labels[idx]))
		sb.WriteString("\n")
		sb.WriteString(f.inputs[idx].View())
		sb.WriteString("\n\n")
	}

	if f.busy {
		button = "Please wait..."
	}
	btnStyle := f.theme.Button
	if f.focus == len(visible) {
		btnStyle = f.theme.ButtonActive
	}
	sb.WriteString(btnStyle.Render(button))
	sb.WriteString("\n")

	if f.err != "" {
		sb.WriteString("\n")
		sb.WriteString(f.theme.FormError.Render(f.err))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(f.theme.Muted.Render(switchHint))
	sb.WriteString("\n")
	sb.WriteString(f.theme.Muted.Render("ctrl+o  continue with Google"))
	sb.WriteString("\n")
	sb.WriteString(f.theme.Muted.Render("ctrl+g  continue as guest"))

	form := f.theme.Form.Render(sb.String())
	if f.width == 0 || f.height == 0 {
		return form
	}
	return lipgloss.Place(f.width, f.height, lipgloss.Center, lipgloss.Center, form)
}
