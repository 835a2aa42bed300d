// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package admin

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/model"
)

// =============================================================================
// ADMIN CLIENT
// =============================================================================

// Doer issues one enveloped request. Satisfied by *api.Client; routes
// under /api/v1/admin automatically carry the admin bearer token.
type Doer interface {
	Do(ctx context.Context, method, path string, in, out any) error
}

// Client wraps the admin management routes.
type Client struct {
	api Doer
}

// NewClient creates an admin client over the given request issuer.
func NewClient(doer Doer) *Client {
	return &Client{api: doer}
}

// usersData is the data field of a user listing response.
type usersData struct {
	Users []model.User `json:"users"`
}

// userData is the data field of a single-user response.
type userData struct {
	User model.User `json:"user"`
}

// documentsData is the data field of a document listing response.
type documentsData struct {
	Documents []model.Document `json:"documents"`
}

// =============================================================================
// USER MANAGEMENT
// =============================================================================

// ListUsers returns every account.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var data usersData
	if err := c.api.Do(ctx, http.MethodGet, "/api/v1/admin/users", nil, &data); err != nil {
		return nil, err
	}
	return data.Users, nil
}

// CreateUser creates an account and returns the stored record.
func (c *Client) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	if user.Username == "" || user.Password == "" {
		return model.User{}, &api.ClientError{Type: api.ErrTypeValidation, Message: "username and password are required"}
	}

	var data userData
	if err := c.api.Do(ctx, http.MethodPost, "/api/v1/admin/users", user, &data); err != nil {
		return model.User{}, err
	}
	return data.User, nil
}

// UpdateUser replaces an existing account record.
func (c *Client) UpdateUser(ctx context.Context, user model.User) (model.User, error) {
	if user.ID == "" {
		return model.User{}, &api.ClientError{Type: api.ErrTypeValidation, Message: "user id is required"}
	}

	var data userData
	path := "/api/v1/admin/users/" + url.PathEscape(user.ID)
	if err := c.api.Do(ctx, http.MethodPut, path, user, &data); err != nil {
		return model.User{}, err
	}
	return data.User, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return &api.ClientError{Type: api.ErrTypeValidation, Message: "user id is required"}
	}
	return c.api.Do(ctx, http.MethodDelete, "/api/v1/admin/users/"+url.PathEscape(id), nil, nil)
}

// =============================================================================
// DOCUMENT MANAGEMENT
// =============================================================================

// ListDocuments returns every indexed document.
func (c *Client) ListDocuments(ctx context.Context) ([]model.Document, error) {
	var data documentsData
	if err := c.api.Do(ctx, http.MethodGet, "/api/v1/admin/documents", nil, &data); err != nil {
		return nil, err
	}
	return data.Documents, nil
}

// DeleteDocument removes a document from the index.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	if id == "" {
		return &api.ClientError{Type: api.ErrTypeValidation, Message: "document id is required"}
	}
	return c.api.Do(ctx, http.MethodDelete, "/api/v1/admin/documents/"+url.PathEscape(id), nil, nil)
}
