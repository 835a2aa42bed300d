// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared between the DocChat
// backend protocol and the TUI.
package model

import "time"

// =============================================================================
// DOCUMENT TYPES
// =============================================================================

// Metadata describes a document stored in the backend index.
type Metadata struct {
	Title  string            `json:"title"`
	Source string            `json:"source"`
	Tags   []string          `json:"tags"`
	Custom map[string]string `json:"custom,omitempty"`
}

// Page returns the page number recorded in the custom metadata, if any.
// Upload processing records the originating PDF page under the "page" key.
func (m Metadata) Page() (string, bool) {
	if m.Custom == nil {
		return "", false
	}
	page, ok := m.Custom["page"]
	return page, ok
}

// Document is a single search result returned by the backend.
type Document struct {
	ID        string   `json:"id"`
	Content   string   `json:"content"`
	Metadata  Metadata `json:"metadata"`
	CreatedAt int64    `json:"created_at"`
}

// Created returns the creation time of the document.
func (d Document) Created() time.Time {
	return time.Unix(d.CreatedAt, 0)
}

// =============================================================================
// SEARCH REQUEST
// =============================================================================

// SearchRequest is the body of POST /api/v1/documents/search.
// Queries are already comma-split and empty-filtered by the caller.
type SearchRequest struct {
	Queries []string `json:"queries"`
	Tags    []string `json:"tags,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}

// IsEmpty reports whether the request has neither queries nor tags.
// Empty requests are short-circuited locally and never hit the network.
func (r SearchRequest) IsEmpty() bool {
	return len(r.Queries) == 0 && len(r.Tags) == 0
}

// AskAIRequest is the body of POST /api/v1/documents/ask-ai. The current
// search context rides along with the free-text question.
type AskAIRequest struct {
	Question      string        `json:"question"`
	SearchRequest SearchRequest `json:"search_request"`
}
