// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docchat-tui/internal/api"
)

// =============================================================================
// LOGIN VIEW
// =============================================================================

// loginModel is the credential form. Ctrl+A toggles between user and
// admin login; the two token namespaces are stored independently.
type loginModel struct {
	deps Deps

	username textinput.Model
	password textinput.Model
	focused  int
	admin    bool

	submitting bool
	errText    string
}

func newLoginModel(deps Deps) loginModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginModel{
		deps:     deps,
		username: username,
		password: password,
	}
}

func (m loginModel) focus() tea.Cmd {
	return textinput.Blink
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case LoginResultMsg:
		m.submitting = false
		if msg.Err != nil {
			m.errText = api.UserMessage(msg.Err, "Login failed. Please try again.")
			m.password.SetValue("")
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focused = 1 - m.focused
			if m.focused == 0 {
				m.username.Focus()
				m.password.Blur()
			} else {
				m.password.Focus()
				m.username.Blur()
			}
			return m, textinput.Blink

		case "ctrl+a":
			m.admin = !m.admin
			return m, nil

		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.focused == 0 {
		if !m.username.Focused() {
			m.username.Focus()
		}
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

// submit validates locally, then issues the login call. Empty fields
// never reach the network.
func (m loginModel) submit() (loginModel, tea.Cmd) {
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()
	if username == "" || password == "" {
		m.errText = "Username and password are required."
		return m, nil
	}

	m.submitting = true
	m.errText = ""
	client := m.deps.API
	admin := m.admin
	return m, func() tea.Msg {
		var err error
		if admin {
			err = client.AdminLogin(context.Background(), username, password)
		} else {
			err = client.Login(context.Background(), username, password)
		}
		return LoginResultMsg{Admin: admin, Err: err}
	}
}

func (m loginModel) view() string {
	theme := m.deps.Theme
	var b strings.Builder

	title := "Sign in"
	if m.admin {
		title = "Sign in (admin)"
	}
	b.WriteString(theme.Label.Render(title))
	b.WriteString("\n\n")
	b.WriteString(theme.Label.Render("Username"))
	b.WriteString("\n")
	b.WriteString(m.username.View())
	b.WriteString("\n\n")
	b.WriteString(theme.Label.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n")

	if m.submitting {
		b.WriteString("\n")
		b.WriteString(theme.Muted.Render("Signing in..."))
	}
	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(theme.Error.Render(m.errText))
	}
	return b.String()
}
