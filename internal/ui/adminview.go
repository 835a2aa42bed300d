// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/model"
)

// =============================================================================
// ADMIN VIEW
// =============================================================================

// adminTab selects which listing is shown.
type adminTab int

const (
	tabUsers adminTab = iota
	tabDocuments
)

// adminModel shows the user and document listings with delete support.
type adminModel struct {
	deps Deps

	tab       adminTab
	users     table.Model
	documents table.Model

	userRows []model.User
	docRows  []model.Document

	loading bool
	errText string
	notice  string
}

func newAdminModel(deps Deps) adminModel {
	users := table.New(
		table.WithColumns([]table.Column{
			{Title: "Username", Width: 20},
			{Title: "Name", Width: 24},
			{Title: "Role", Width: 12},
			{Title: "Workspace", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	documents := table.New(
		table.WithColumns([]table.Column{
			{Title: "Title", Width: 32},
			{Title: "Source", Width: 24},
			{Title: "Created", Width: 16},
		}),
		table.WithHeight(12),
	)

	return adminModel{deps: deps, users: users, documents: documents}
}

func (m *adminModel) resize(_, height int) {
	if height > 14 {
		m.users.SetHeight(height - 10)
		m.documents.SetHeight(height - 10)
	}
}

func (m adminModel) focus() tea.Cmd {
	return nil
}

// load fetches both listings.
func (m adminModel) load() tea.Cmd {
	client := m.deps.Admin
	return tea.Batch(
		func() tea.Msg {
			users, err := client.ListUsers(context.Background())
			return UsersLoadedMsg{Users: users, Err: err}
		},
		func() tea.Msg {
			documents, err := client.ListDocuments(context.Background())
			return DocumentsLoadedMsg{Documents: documents, Err: err}
		},
	)
}

func (m adminModel) update(msg tea.Msg) (adminModel, tea.Cmd) {
	switch msg := msg.(type) {
	case UsersLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = api.UserMessage(msg.Err, "Failed to load users.")
			return m, nil
		}
		m.errText = ""
		m.userRows = msg.Users
		rows := make([]table.Row, len(msg.Users))
		for i, user := range msg.Users {
			rows[i] = table.Row{user.Username, user.FullName, user.Role, user.Workspace}
		}
		m.users.SetRows(rows)
		return m, nil

	case DocumentsLoadedMsg:
		if msg.Err != nil {
			m.errText = api.UserMessage(msg.Err, "Failed to load documents.")
			return m, nil
		}
		m.docRows = msg.Documents
		rows := make([]table.Row, len(msg.Documents))
		for i, doc := range msg.Documents {
			title := doc.Metadata.Title
			if title == "" {
				title = doc.ID
			}
			rows[i] = table.Row{title, doc.Metadata.Source, doc.Created().Format(time.DateOnly)}
		}
		m.documents.SetRows(rows)
		return m, nil

	case AdminActionMsg:
		if msg.Err != nil {
			m.errText = api.UserMessage(msg.Err, "The operation failed.")
			return m, nil
		}
		m.errText = ""
		m.notice = "Done."
		return m, m.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "right":
			if m.tab == tabUsers {
				m.tab = tabDocuments
				m.users.Blur()
				m.documents.Focus()
			} else {
				m.tab = tabUsers
				m.documents.Blur()
				m.users.Focus()
			}
			return m, nil

		case "ctrl+d":
			return m.deleteSelected()

		case "ctrl+r":
			m.notice = ""
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	if m.tab == tabUsers {
		m.users, cmd = m.users.Update(msg)
	} else {
		m.documents, cmd = m.documents.Update(msg)
	}
	return m, cmd
}

// deleteSelected removes the highlighted user or document.
func (m adminModel) deleteSelected() (adminModel, tea.Cmd) {
	client := m.deps.Admin

	if m.tab == tabUsers {
		cursor := m.users.Cursor()
		if cursor < 0 || cursor >= len(m.userRows) {
			return m, nil
		}
		id := m.userRows[cursor].ID
		m.notice = ""
		return m, func() tea.Msg {
			return AdminActionMsg{Err: client.DeleteUser(context.Background(), id)}
		}
	}

	cursor := m.documents.Cursor()
	if cursor < 0 || cursor >= len(m.docRows) {
		return m, nil
	}
	id := m.docRows[cursor].ID
	m.notice = ""
	return m, func() tea.Msg {
		return AdminActionMsg{Err: client.DeleteDocument(context.Background(), id)}
	}
}

func (m adminModel) view() string {
	theme := m.deps.Theme
	var b strings.Builder

	for i, name := range []string{"Users", "Documents"} {
		if adminTab(i) == m.tab {
			b.WriteString(theme.TabOn.Render(name))
		} else {
			b.WriteString(theme.Tab.Render(name))
		}
	}
	b.WriteString("\n\n")

	if m.tab == tabUsers {
		b.WriteString(m.users.View())
	} else {
		b.WriteString(m.documents.View())
	}
	b.WriteString("\n")

	if m.errText != "" {
		b.WriteString(theme.Error.Render(m.errText))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(theme.Success.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(theme.StatusBar.Render("←/→ switch listing • ctrl+d delete • ctrl+r reload"))
	return b.String()
}
