// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for communicating with the DocChat
// backend.
package api

import (
	"encoding/json"

	"github.com/jeranaias/docchat-tui/internal/model"
)

// =============================================================================
// TAGGED RESPONSE ENVELOPE
// =============================================================================

// DataResponse is the uniform wrapper around every JSON response body.
// Data decoding is deferred so each endpoint can name its own shape.
type DataResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// statusSuccess is the envelope status value for successful operations.
const statusSuccess = "success"

// =============================================================================
// ENDPOINT REQUEST/RESPONSE SHAPES
// =============================================================================

// LoginRequest is the body of POST /api/v1/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginData is the data field of a login response.
type loginData struct {
	AccessToken string `json:"access_token"`
}

// ChatRequest is the body of POST /api/v1/chat. ChatID is omitted on the
// first turn; the backend assigns one and returns it.
type ChatRequest struct {
	ChatID   string          `json:"chat_id,omitempty"`
	Messages []model.Message `json:"messages"`
}

// chatData is the data field of a chat response.
type chatData struct {
	ChatID  string        `json:"chat_id"`
	Message model.Message `json:"message"`
}

// searchData is the data field of a search or ask-AI response.
type searchData struct {
	Documents []model.Document `json:"documents"`
}

// UploadMetadata is the metadata part of a multipart upload request.
type UploadMetadata struct {
	Title  string   `json:"title"`
	Source string   `json:"source"`
	Tags   []string `json:"tags"`
}
