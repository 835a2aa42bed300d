// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/model"
)

// =============================================================================
// TERM PARSING
// =============================================================================

// ParseTerms splits free text on commas into query terms, trimming each
// and dropping empty fragments. "alpha, ,beta," yields ["alpha" "beta"].
func ParseTerms(term string) []string {
	var terms []string
	for _, fragment := range strings.Split(term, ",") {
		fragment = strings.TrimSpace(fragment)
		if fragment != "" {
			terms = append(terms, fragment)
		}
	}
	return terms
}

// =============================================================================
// CONTROLLER STATE
// =============================================================================

// State describes what the result area should show. Idle (nothing asked
// yet, or the query was cleared) is distinct from NoResults (the backend
// answered with an empty list).
type State int

const (
	StateIdle State = iota
	StateSearching
	StateResults
	StateNoResults
	StateError
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateResults:
		return "results"
	case StateNoResults:
		return "no_results"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Searcher is the backend surface the controller needs.
type Searcher interface {
	SearchDocuments(ctx context.Context, req model.SearchRequest) ([]model.Document, error)
	AskAI(ctx context.Context, question string, search model.SearchRequest) ([]model.Document, error)
}

// Controller holds search presentation state. Each response is tagged
// with the generation current at issue time; a response whose generation
// has been superseded is discarded, so a slow earlier search can never
// overwrite a newer one.
type Controller struct {
	mu  sync.Mutex
	api Searcher

	state      State
	generation string
	query      model.SearchRequest
	results    []model.Document
	errText    string
	notice     string

	// expansion state keyed by document id, kept across re-searches
	expanded map[string]bool
}

// NewController creates a search controller over the given backend.
func NewController(searcher Searcher) *Controller {
	return &Controller{
		api:      searcher,
		state:    StateIdle,
		expanded: make(map[string]bool),
	}
}

// State returns the current presentation state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Results returns a copy of the current result list.
func (c *Controller) Results() []model.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Document, len(c.results))
	copy(out, c.results)
	return out
}

// Terms returns the query terms of the most recently issued search,
// for highlighting.
func (c *Controller) Terms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.query.Queries))
	copy(out, c.query.Queries)
	return out
}

// Error returns the display error recorded by a failed search, if any.
func (c *Controller) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errText
}

// Notice returns the non-fatal notice recorded by a failed ask-AI, if any.
func (c *Controller) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

// =============================================================================
// SEARCH
// =============================================================================

// Search issues one backend query and replaces the result list wholesale.
// Empty input (no terms, no tags) clears the results locally and returns
// to Idle without touching the network. Failures are recorded as display
// state, never returned: the result list is cleared and the server's
// message (or a generic fallback) becomes the visible error.
func (c *Controller) Search(ctx context.Context, term string, tags []string, limit int) {
	req := model.SearchRequest{Queries: ParseTerms(term), Tags: tags, Limit: limit}

	if req.IsEmpty() {
		c.mu.Lock()
		c.generation = ""
		c.query = model.SearchRequest{}
		c.results = nil
		c.errText = ""
		c.notice = ""
		c.state = StateIdle
		c.mu.Unlock()
		return
	}

	gen := uuid.NewString()
	c.mu.Lock()
	c.generation = gen
	c.query = req
	c.state = StateSearching
	c.mu.Unlock()

	docs, err := c.api.SearchDocuments(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		// Superseded by a newer search; this response is stale
		return
	}

	c.notice = ""
	if err != nil {
		c.results = nil
		c.errText = api.UserMessage(err, "Search failed. Please try again.")
		c.state = StateError
		return
	}

	c.results = docs
	c.errText = ""
	if len(docs) == 0 {
		c.state = StateNoResults
	} else {
		c.state = StateResults
	}
}

// AskAI sends a free-text question alongside the current query context
// and replaces the result list with the response. A failure leaves the
// prior results untouched and records a visible, non-fatal notice.
func (c *Controller) AskAI(ctx context.Context, question string) {
	question = strings.TrimSpace(question)
	if question == "" {
		c.mu.Lock()
		c.notice = "Enter a question to ask."
		c.mu.Unlock()
		return
	}

	gen := uuid.NewString()
	c.mu.Lock()
	c.generation = gen
	query := c.query
	c.mu.Unlock()

	docs, err := c.api.AskAI(ctx, question, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return
	}

	if err != nil {
		c.notice = api.UserMessage(err, "The assistant could not answer. Please try again.")
		return
	}

	c.results = docs
	c.errText = ""
	c.notice = ""
	if len(docs) == 0 {
		c.state = StateNoResults
	} else {
		c.state = StateResults
	}
}

// =============================================================================
// EXPANSION
// =============================================================================

// Toggle flips the expansion state of a document. Expansion is keyed by
// document id, so it survives a re-search when ids are stable.
func (c *Controller) Toggle(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.expanded[id] {
		delete(c.expanded, id)
	} else {
		c.expanded[id] = true
	}
}

// Expanded reports whether a document is currently expanded.
func (c *Controller) Expanded(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expanded[id]
}
