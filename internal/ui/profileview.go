// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/model"
)

// =============================================================================
// PROFILE VIEW
// =============================================================================

// profileModel shows the authenticated user's account record.
type profileModel struct {
	deps Deps

	user    model.User
	loaded  bool
	loading bool
	errText string
}

func newProfileModel(deps Deps) profileModel {
	return profileModel{deps: deps}
}

func (m profileModel) focus() tea.Cmd {
	return nil
}

// load fetches the account record.
func (m profileModel) load() tea.Cmd {
	client := m.deps.API
	return func() tea.Msg {
		user, err := client.Profile(context.Background())
		return ProfileLoadedMsg{User: user, Err: err}
	}
}

func (m profileModel) update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ProfileLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = api.UserMessage(msg.Err, "Failed to load your profile.")
			return m, nil
		}
		m.errText = ""
		m.user = msg.User
		m.loaded = true
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+r" {
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m profileModel) view() string {
	theme := m.deps.Theme
	var b strings.Builder

	b.WriteString(theme.Label.Render("Your account"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(theme.Muted.Render("Loading..."))
		return b.String()
	}
	if m.errText != "" {
		b.WriteString(theme.Error.Render(m.errText))
		return b.String()
	}
	if !m.loaded {
		b.WriteString(theme.Muted.Render("No profile loaded."))
		return b.String()
	}

	rows := []struct {
		label string
		value string
	}{
		{"Username", m.user.Username},
		{"Full name", m.user.FullName},
		{"Role", m.user.Role},
		{"Workspace role", m.user.WorkspaceRole},
		{"Workspace", m.user.Workspace},
		{"Created", m.user.Created().Format(time.DateTime)},
		{"Updated", m.user.Updated().Format(time.DateTime)},
	}
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		b.WriteString(theme.ResultMeta.Render(row.label))
		b.WriteString("  ")
		b.WriteString(row.value)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.StatusBar.Render("ctrl+r reload"))
	return b.String()
}
