// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for communicating with the DocChat
// backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/jeranaias/docchat-tui/internal/model"
)

// =============================================================================
// UPLOAD
// =============================================================================

// StatusCallback is called for each status record received during an
// upload. Records arrive in order; the callback runs synchronously.
type StatusCallback func(status model.ProcessingStatus)

// Upload submits a document as multipart form data (a metadata JSON part
// plus the file part) and demultiplexes the streamed response into
// discrete status records, invoking callback for each.
//
// The response body is a concatenation of JSON records, not a single
// document. Returns when a terminal record arrives or the stream ends; a
// stream that ends without a terminal record returns nil and leaves the
// caller's state as the last record left it.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader, meta UploadMetadata, callback StatusCallback) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "request canceled", Cause: err}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return &ClientError{Type: ErrTypeValidation, Message: "failed to marshal metadata", Cause: err}
	}
	if err := writer.WriteField("metadata", string(metaJSON)); err != nil {
		return &ClientError{Type: ErrTypeValidation, Message: "failed to write metadata part", Cause: err}
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return &ClientError{Type: ErrTypeValidation, Message: "failed to create file part", Cause: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return &ClientError{Type: ErrTypeValidation, Message: "failed to read file", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return &ClientError{Type: ErrTypeValidation, Message: "failed to finalize form", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/v1/upload", &body)
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if token, ok := c.bearerFor("/api/v1/upload"); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	// Streaming request: no client timeout, lifetime controlled via context
	streamClient := &http.Client{}

	logRequest(req)
	start := time.Now()
	resp, err := streamClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return ErrTimeout
		}
		return &ClientError{Type: ErrTypeUnreachable, Message: "backend is unreachable", Cause: err}
	}
	defer resp.Body.Close()
	logResponse(resp, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope DataResponse
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
			return &ClientError{Type: ErrTypeRejected, Message: envelope.Message, Status: resp.StatusCode}
		}
		return &ClientError{Type: ErrTypeRejected, Message: "upload failed: " + resp.Status, Status: resp.StatusCode}
	}

	reader := NewStatusReader(resp.Body)
	return reader.Process(ctx, callback)
}
