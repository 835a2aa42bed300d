// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/docchat-tui/internal/chat"
	"github.com/jeranaias/docchat-tui/internal/model"
)

// =============================================================================
// CHAT VIEW
// =============================================================================

// chatModel renders the transcript and drives sends. Input is disabled
// while a turn is in flight, which serializes turns per session.
type chatModel struct {
	deps Deps

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	renderer *glamour.TermRenderer
	width    int

	connState     chat.ConnectionState
	busy          bool
	showReasoning bool
	notice        string
}

func newChatModel(deps Deps) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask about your documents..."
	input.CharLimit = 4000

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return chatModel{
		deps:      deps,
		viewport:  viewport.New(80, 20),
		input:     input,
		spinner:   sp,
		connState: chat.ConnectionState{Phase: chat.PhaseConnecting},
		width:     80,
	}
}

func (m *chatModel) resize(width, height int) {
	m.width = width
	m.viewport.Width = width
	if height > 10 {
		m.viewport.Height = height - 8
	}
	m.input.Width = width - 4
	// Renderer wraps at the new width; rebuild lazily
	m.renderer = nil
	m.refresh()
}

func (m chatModel) focus() tea.Cmd {
	m.input.Focus()
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m chatModel) update(msg tea.Msg, session *chat.DuplexSession) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ConnStateMsg:
		m.connState = msg.State
		return m, nil

	case ChatReplyMsg:
		// Already appended by the controller; re-render and release input
		m.busy = false
		m.notice = ""
		m.refresh()
		m.viewport.GotoBottom()
		return m, nil

	case ChatNoticeMsg:
		m.notice = msg.Text
		if msg.Kind == model.EnvelopeProcessing {
			m.notice = "Processing: " + msg.Text
		}
		return m, nil

	case ChatTurnMsg:
		// Request/response turn settled. On failure the user sees no
		// error bubble, only the absence of a reply.
		m.busy = false
		m.refresh()
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.busy {
				return m, nil
			}
			return m.send(session)

		case "ctrl+r":
			m.showReasoning = !m.showReasoning
			m.refresh()
			return m, nil

		case "ctrl+n":
			m.deps.Chat.NewChat()
			m.notice = ""
			m.refresh()
			return m, nil

		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	if !m.busy {
		if !m.input.Focused() {
			m.input.Focus()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// send dispatches the typed turn: over the duplex channel when it is
// open, over request/response otherwise.
func (m chatModel) send(session *chat.DuplexSession) (chatModel, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}
	m.input.SetValue("")

	if session != nil && session.State().Phase == chat.PhaseOpen {
		switch err := session.Send(content); {
		case err == nil:
			m.busy = true
			m.refresh()
			m.viewport.GotoBottom()
			return m, m.spinner.Tick
		case !errors.Is(err, chat.ErrNotOpen):
			// The turn was appended before the write failed. Re-sending
			// over request/response would duplicate it, so the failure
			// stays silent: the message is shown, no reply arrives.
			m.refresh()
			m.viewport.GotoBottom()
			return m, nil
		}
		// Channel dropped between the state check and the send; the
		// message was rejected unappended, so request/response takes
		// the turn
	}

	controller := m.deps.Chat
	m.busy = true
	cmd := func() tea.Msg {
		_, err := controller.Send(context.Background(), content)
		return ChatTurnMsg{Err: err}
	}
	m.refresh()
	m.viewport.GotoBottom()
	return m, tea.Batch(cmd, m.spinner.Tick)
}

// refresh re-renders the transcript into the viewport.
func (m *chatModel) refresh() {
	theme := m.deps.Theme
	var b strings.Builder

	for _, msg := range m.deps.Chat.Messages() {
		switch msg.Role {
		case model.RoleUser:
			b.WriteString(theme.UserBubble.Render("You"))
			b.WriteString("\n")
			b.WriteString(msg.Content)
		default:
			b.WriteString(theme.Header.Render(msg.Role.DisplayName()))
			b.WriteString("\n")
			reasoning, answer := chat.SplitThink(msg.Content)
			if reasoning != "" {
				if m.showReasoning {
					b.WriteString(theme.Reasoning.Render(reasoning))
					b.WriteString("\n")
				} else {
					b.WriteString(theme.Muted.Render("[reasoning hidden - ctrl+r to show]"))
					b.WriteString("\n")
				}
			}
			b.WriteString(m.renderMarkdown(answer))
		}
		b.WriteString("\n\n")
	}

	m.viewport.SetContent(b.String())
}

// renderMarkdown renders assistant content with glamour, falling back to
// plain text if rendering fails.
func (m *chatModel) renderMarkdown(content string) string {
	if m.renderer == nil {
		width := m.width - 2
		if width < 20 {
			width = 20
		}
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content
		}
		m.renderer = renderer
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(rendered)
}

func (m chatModel) view() string {
	theme := m.deps.Theme
	var b strings.Builder

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.busy {
		b.WriteString(m.spinner.View())
		b.WriteString(theme.Muted.Render(" waiting for reply..."))
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")

	b.WriteString(theme.StatusBar.Render(m.connLine()))
	if m.notice != "" {
		b.WriteString("  ")
		b.WriteString(theme.Warning.Render(m.notice))
	}
	return b.String()
}

func (m chatModel) connLine() string {
	theme := m.deps.Theme
	switch m.connState.Phase {
	case chat.PhaseOpen:
		return theme.Success.Render("● connected")
	case chat.PhaseReconnecting:
		return theme.Warning.Render("● reconnecting...")
	case chat.PhaseClosed:
		return theme.Error.Render("● disconnected (sends use HTTP)")
	default:
		return theme.Muted.Render("● connecting...")
	}
}
