// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared between the DocChat
// backend protocol and the TUI.
package model

import (
	"encoding/json"
	"time"
)

// =============================================================================
// DUPLEX ENVELOPE
// =============================================================================

// EnvelopeType distinguishes the messages carried over the duplex chat
// channel.
type EnvelopeType string

const (
	// EnvelopeChat carries a chat payload: the full transcript outbound,
	// a single assistant message inbound.
	EnvelopeChat EnvelopeType = "chat"

	// EnvelopeProcessing is an informational progress notice. It never
	// changes transcript state.
	EnvelopeProcessing EnvelopeType = "processing"

	// EnvelopeError surfaces a backend-side failure without terminating
	// the session.
	EnvelopeError EnvelopeType = "error"
)

// Envelope is the typed wrapper for every frame on the duplex channel.
// Payload decoding is deferred until the type is known.
type Envelope struct {
	Type    EnvelopeType    `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ChatPayload is the payload of an outbound chat envelope.
type ChatPayload struct {
	ChatID   string    `json:"chat_id,omitempty"`
	Messages []Message `json:"messages"`
}

// =============================================================================
// UPLOAD STATUS RECORDS
// =============================================================================

// Upload status values reported by the streamed progress feed.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// ProcessingStatus is one record of the streamed upload response. The
// response body is a concatenation of these records, not a single JSON
// document; see the StatusReader in internal/api for the demultiplexer.
type ProcessingStatus struct {
	Status         string `json:"status"`
	Message        string `json:"message,omitempty"`
	Progress       int    `json:"progress"`
	ProcessedPages int    `json:"processed_pages,omitempty"`
	TotalPages     int    `json:"total_pages,omitempty"`
}

// Terminal reports whether this record ends the upload.
func (s ProcessingStatus) Terminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusError
}

// =============================================================================
// USER TYPE (ADMIN NAMESPACE)
// =============================================================================

// User is an account record managed through the admin routes.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Password      string `json:"password,omitempty"`
	FullName      string `json:"fullName"`
	Role          string `json:"role"`
	WorkspaceRole string `json:"workspaceRole"`
	Workspace     string `json:"workspace"`
	CreatedAt     int64  `json:"createdAt"`
	UpdatedAt     int64  `json:"updatedAt"`
}

// Created returns the account creation time.
func (u User) Created() time.Time {
	return time.Unix(u.CreatedAt, 0)
}

// Updated returns the account's last modification time.
func (u User) Updated() time.Time {
	return time.Unix(u.UpdatedAt, 0)
}
