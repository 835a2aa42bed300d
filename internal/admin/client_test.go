// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package admin

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/model"
)

// fakeDoer records the issued request and plays back a scripted data
// payload.
type fakeDoer struct {
	data  string
	err   error
	calls int

	lastMethod string
	lastPath   string
	lastBody   any
}

func (f *fakeDoer) Do(_ context.Context, method, path string, in, out any) error {
	f.calls++
	f.lastMethod = method
	f.lastPath = path
	f.lastBody = in
	if f.err != nil {
		return f.err
	}
	if out != nil && f.data != "" {
		return json.Unmarshal([]byte(f.data), out)
	}
	return nil
}

func TestListUsers(t *testing.T) {
	doer := &fakeDoer{data: `{"users":[{"id":"u1","username":"alice"},{"id":"u2","username":"bob"}]}`}
	c := NewClient(doer)

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "GET", doer.lastMethod)
	assert.Equal(t, "/api/v1/admin/users", doer.lastPath)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
}

func TestCreateUser(t *testing.T) {
	doer := &fakeDoer{data: `{"user":{"id":"u9","username":"carol"}}`}
	c := NewClient(doer)

	created, err := c.CreateUser(context.Background(), model.User{Username: "carol", Password: "secret"})
	require.NoError(t, err)

	assert.Equal(t, "POST", doer.lastMethod)
	assert.Equal(t, "/api/v1/admin/users", doer.lastPath)
	assert.Equal(t, "u9", created.ID)

	sent, ok := doer.lastBody.(model.User)
	require.True(t, ok)
	assert.Equal(t, "carol", sent.Username)
}

func TestCreateUserValidatesLocally(t *testing.T) {
	doer := &fakeDoer{}
	c := NewClient(doer)

	_, err := c.CreateUser(context.Background(), model.User{Username: "nopass"})

	assert.True(t, api.IsValidation(err))
	assert.Equal(t, 0, doer.calls, "validation failures never reach the network")
}

func TestUpdateUserTargetsRecordByID(t *testing.T) {
	doer := &fakeDoer{data: `{"user":{"id":"u1","username":"alice","role":"admin"}}`}
	c := NewClient(doer)

	updated, err := c.UpdateUser(context.Background(), model.User{ID: "u1", Username: "alice", Role: "admin"})
	require.NoError(t, err)

	assert.Equal(t, "PUT", doer.lastMethod)
	assert.Equal(t, "/api/v1/admin/users/u1", doer.lastPath)
	assert.Equal(t, "admin", updated.Role)
}

func TestUpdateUserRequiresID(t *testing.T) {
	doer := &fakeDoer{}
	c := NewClient(doer)

	_, err := c.UpdateUser(context.Background(), model.User{Username: "noid"})

	assert.True(t, api.IsValidation(err))
	assert.Equal(t, 0, doer.calls)
}

func TestDeleteUser(t *testing.T) {
	doer := &fakeDoer{}
	c := NewClient(doer)

	require.NoError(t, c.DeleteUser(context.Background(), "u2"))
	assert.Equal(t, "DELETE", doer.lastMethod)
	assert.Equal(t, "/api/v1/admin/users/u2", doer.lastPath)

	err := c.DeleteUser(context.Background(), "")
	assert.True(t, api.IsValidation(err))
}

func TestListDocuments(t *testing.T) {
	doer := &fakeDoer{data: `{"documents":[{"id":"d1","content":"text"}]}`}
	c := NewClient(doer)

	documents, err := c.ListDocuments(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/admin/documents", doer.lastPath)
	require.Len(t, documents, 1)
	assert.Equal(t, "d1", documents[0].ID)
}

func TestDeleteDocumentEscapesID(t *testing.T) {
	doer := &fakeDoer{}
	c := NewClient(doer)

	require.NoError(t, c.DeleteDocument(context.Background(), "weird/id"))
	assert.Equal(t, "/api/v1/admin/documents/weird%2Fid", doer.lastPath)
}

func TestBackendRejectionPassesThrough(t *testing.T) {
	doer := &fakeDoer{err: &api.ClientError{Type: api.ErrTypeRejected, Message: "forbidden", Status: 403}}
	c := NewClient(doer)

	_, err := c.ListUsers(context.Background())
	assert.True(t, api.IsRejected(err))
	assert.Equal(t, "forbidden", api.UserMessage(err, "fallback"))
}
