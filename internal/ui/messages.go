// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docchat-tui/internal/chat"
	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/upload"
)

// =============================================================================
// ASYNC MESSAGES
// =============================================================================

// LoginResultMsg reports the outcome of a login attempt.
type LoginResultMsg struct {
	Admin bool
	Err   error
}

// ChatTurnMsg reports the outcome of a request/response chat turn.
type ChatTurnMsg struct {
	Err error
}

// ChatReplyMsg carries an assistant reply that arrived over the duplex
// channel.
type ChatReplyMsg struct {
	Message model.Message
}

// ConnStateMsg carries a duplex connection state change.
type ConnStateMsg struct {
	State chat.ConnectionState
}

// ChatNoticeMsg carries a processing or error notice from the duplex
// channel.
type ChatNoticeMsg struct {
	Kind model.EnvelopeType
	Text string
}

// SearchDoneMsg signals that a search or ask-AI call has settled; the
// controller holds the resulting state.
type SearchDoneMsg struct{}

// UploadProgressMsg carries an upload job snapshot.
type UploadProgressMsg struct {
	Job upload.Job
}

// UploadDoneMsg reports that the upload call returned.
type UploadDoneMsg struct {
	Err error
}

// ProfileLoadedMsg carries the authenticated user's account record.
type ProfileLoadedMsg struct {
	User model.User
	Err  error
}

// UsersLoadedMsg carries the admin user listing.
type UsersLoadedMsg struct {
	Users []model.User
	Err   error
}

// DocumentsLoadedMsg carries the admin document listing.
type DocumentsLoadedMsg struct {
	Documents []model.Document
	Err       error
}

// AdminActionMsg reports the outcome of an admin mutation; the listing
// is reloaded separately.
type AdminActionMsg struct {
	Err error
}

// =============================================================================
// ASYNC DISPATCH
// =============================================================================

// Hub forwards messages from background goroutines (duplex callbacks,
// upload progress) into the running program. Messages dispatched before
// Bind are dropped.
type Hub struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// NewHub creates an unbound hub.
func NewHub() *Hub {
	return &Hub{}
}

// Bind attaches the running program's send function.
func (h *Hub) Bind(send func(tea.Msg)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.send = send
}

// Dispatch delivers a message to the program, if bound.
func (h *Hub) Dispatch(msg tea.Msg) {
	h.mu.Lock()
	send := h.send
	h.mu.Unlock()
	if send != nil {
		send(msg)
	}
}
