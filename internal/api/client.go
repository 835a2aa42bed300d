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
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/store"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the DocChat API client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://127.0.0.1:8888)
	BaseURL string

	// Timeout for non-streaming requests (default: 30s)
	Timeout time.Duration

	// StreamTimeout for establishing streaming connections (default: 10s)
	StreamTimeout time.Duration

	// RequestsPerSecond caps outbound request rate (default: 10)
	RequestsPerSecond float64

	// Burst is the rate limiter burst size (default: 20)
	Burst int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://127.0.0.1:8888",
		Timeout:           30 * time.Second,
		StreamTimeout:     10 * time.Second,
		RequestsPerSecond: 10,
		Burst:             20,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the DocChat backend API.
//
// The Client is thread-safe for concurrent use. Bearer tokens are read
// from the injected store on every call, so a login in one view is
// immediately visible to every other caller.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	tokens     store.Store

	// limiter keeps key-repeat in the UI from flooding the backend
	limiter *rate.Limiter
}

// NewClient creates a new API client with default configuration.
func NewClient(tokens store.Store) *Client {
	return NewClientWithConfig(DefaultConfig(), tokens)
}

// NewClientWithConfig creates a new API client with custom configuration.
func NewClientWithConfig(config *ClientConfig, tokens store.Store) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8888"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.StreamTimeout == 0 {
		config.StreamTimeout = 10 * time.Second
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 10
	}
	if config.Burst == 0 {
		config.Burst = 20
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(base string) *Client {
	c.config.BaseURL = strings.TrimSuffix(base, "/")
	return c
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.config.Timeout = timeout
	c.httpClient.Timeout = timeout
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// adminPrefix marks routes that carry the admin token.
const adminPrefix = "/api/v1/admin"

// bearerFor returns the token for the given route path, if one is stored.
func (c *Client) bearerFor(path string) (string, bool) {
	key := store.KeyUserToken
	if strings.HasPrefix(path, adminPrefix) {
		key = store.KeyAdminToken
	}
	token, ok := c.tokens.Get(key)
	return token, ok && token != ""
}

// newRequest builds a request with default headers and bearer injection.
func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token, ok := c.bearerFor(path); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// logRequest logs an outbound request without headers or body; headers
// carry auth, bodies carry user content.
func logRequest(req *http.Request) {
	log.Printf("API request: %s %s", req.Method, req.URL.Path)
}

// logResponse logs status and duration only.
func logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API response: %d %s (%v)", resp.StatusCode, resp.Status, duration)
}

// Do issues a JSON request to path and decodes the envelope's data field
// into out (which may be nil when the caller only needs success/failure).
// Non-success envelopes and HTTP error statuses become ErrTypeRejected,
// transport failures ErrTypeUnreachable, undecodable bodies
// ErrTypeMalformedResponse.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "request canceled", Cause: err}
	}

	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return &ClientError{Type: ErrTypeValidation, Message: "failed to marshal request", Cause: err}
		}
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	logRequest(req)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return &ClientError{Type: ErrTypeUnreachable, Message: "backend is unreachable", Cause: err}
	}
	defer resp.Body.Close()
	logResponse(resp, time.Since(start))

	var envelope DataResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&envelope)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := "request failed: " + resp.Status
		if decodeErr == nil && envelope.Message != "" {
			message = envelope.Message
		}
		return &ClientError{Type: ErrTypeRejected, Message: message, Status: resp.StatusCode}
	}

	if decodeErr != nil {
		return &ClientError{Type: ErrTypeMalformedResponse, Message: "failed to decode response", Cause: decodeErr}
	}

	if envelope.Status != statusSuccess {
		message := envelope.Message
		if message == "" {
			message = "request failed"
		}
		return &ClientError{Type: ErrTypeRejected, Message: message, Status: resp.StatusCode}
	}

	if out != nil {
		if envelope.Data == nil {
			return &ClientError{Type: ErrTypeMalformedResponse, Message: "response has no data"}
		}
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return &ClientError{Type: ErrTypeMalformedResponse, Message: "failed to decode response data", Cause: err}
		}
	}

	return nil
}

// =============================================================================
// AUTH OPERATIONS
// =============================================================================

// Login authenticates a user and stores the access token under the user
// namespace.
func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.login(ctx, "/api/v1/login", username, password, store.KeyUserToken)
}

// AdminLogin authenticates an administrator and stores the access token
// under the admin namespace.
func (c *Client) AdminLogin(ctx context.Context, username, password string) error {
	return c.login(ctx, "/api/v1/admin/login", username, password, store.KeyAdminToken)
}

func (c *Client) login(ctx context.Context, path, username, password, tokenKey string) error {
	if username == "" || password == "" {
		return &ClientError{Type: ErrTypeValidation, Message: "username and password are required"}
	}

	var data loginData
	req := LoginRequest{Username: username, Password: password}
	if err := c.Do(ctx, http.MethodPost, path, req, &data); err != nil {
		return err
	}
	if data.AccessToken == "" {
		return &ClientError{Type: ErrTypeMalformedResponse, Message: "login response missing access token"}
	}

	return c.tokens.Set(tokenKey, data.AccessToken)
}

// Logout clears the stored token for the given namespace key.
func (c *Client) Logout(tokenKey string) error {
	return c.tokens.Remove(tokenKey)
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// Chat sends one chat turn over the request/response transport. chatID is
// empty on the first turn; the returned id must be pinned by the caller
// and passed on every subsequent call.
func (c *Client) Chat(ctx context.Context, chatID string, messages []model.Message) (string, model.Message, error) {
	var data chatData
	req := ChatRequest{ChatID: chatID, Messages: messages}
	if err := c.Do(ctx, http.MethodPost, "/api/v1/chat", req, &data); err != nil {
		return "", model.Message{}, err
	}
	return data.ChatID, data.Message, nil
}

// Profile returns the authenticated user's account record.
func (c *Client) Profile(ctx context.Context) (model.User, error) {
	var user model.User
	if err := c.Do(ctx, http.MethodGet, "/api/v1/user/profile", nil, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// =============================================================================
// DOCUMENT OPERATIONS
// =============================================================================

// SearchDocuments runs a document search and returns the result list.
func (c *Client) SearchDocuments(ctx context.Context, req model.SearchRequest) ([]model.Document, error) {
	var data searchData
	if err := c.Do(ctx, http.MethodPost, "/api/v1/documents/search", req, &data); err != nil {
		return nil, err
	}
	return data.Documents, nil
}

// AskAI sends a free-text question alongside the current search context
// and returns the documents the answer was grounded on.
func (c *Client) AskAI(ctx context.Context, question string, search model.SearchRequest) ([]model.Document, error) {
	var data searchData
	req := model.AskAIRequest{Question: question, SearchRequest: search}
	if err := c.Do(ctx, http.MethodPost, "/api/v1/documents/ask-ai", req, &data); err != nil {
		return nil, err
	}
	return data.Documents, nil
}

// PDFLink builds the deep link for viewing a stored PDF, optionally
// pinned to a page.
func (c *Client) PDFLink(file string, page string) string {
	link := c.config.BaseURL + "/api/v1/pdf?file=" + url.QueryEscape(file)
	if page != "" {
		link += "#page=" + url.QueryEscape(page)
	}
	return link
}
