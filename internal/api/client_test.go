// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/store"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *store.MemStore) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokens := store.NewMemStore()
	client := NewClient(tokens).WithBaseURL(server.URL)
	return client, tokens
}

func envelope(t *testing.T, w http.ResponseWriter, status, message string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	json.NewEncoder(w).Encode(DataResponse{Status: status, Message: message, Data: raw})
}

// =============================================================================
// BEARER INJECTION
// =============================================================================

func TestBearerInjectionByNamespace(t *testing.T) {
	var gotAuth string
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		envelope(t, w, "success", "", map[string]any{})
	}))

	tokens.Set(store.KeyUserToken, "user-tok")
	tokens.Set(store.KeyAdminToken, "admin-tok")

	require.NoError(t, client.Do(context.Background(), http.MethodPost, "/api/v1/chat", nil, nil))
	assert.Equal(t, "Bearer user-tok", gotAuth)

	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/api/v1/admin/users", nil, nil))
	assert.Equal(t, "Bearer admin-tok", gotAuth)
}

func TestNoBearerWhenTokenAbsent(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		envelope(t, w, "success", "", map[string]any{})
	}))

	require.NoError(t, client.Do(context.Background(), http.MethodPost, "/api/v1/chat", nil, nil))
	assert.Empty(t, gotAuth)
}

// =============================================================================
// ENVELOPE NORMALIZATION
// =============================================================================

func TestRejectedEnvelopeCarriesServerMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		envelope(t, w, "error", "index unavailable", nil)
	}))

	err := client.Do(context.Background(), http.MethodPost, "/api/v1/documents/search", nil, nil)
	require.Error(t, err)
	assert.True(t, IsRejected(err))
	assert.Equal(t, "index unavailable", UserMessage(err, "fallback"))
}

func TestHTTPErrorStatusIsRejected(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))

	err := client.Do(context.Background(), http.MethodPost, "/api/v1/chat", nil, nil)
	require.Error(t, err)
	assert.True(t, IsRejected(err))

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusInternalServerError, clientErr.Status)
}

func TestMalformedBodyIsMalformedResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not json"))
	}))

	err := client.Do(context.Background(), http.MethodPost, "/api/v1/chat", nil, nil)
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}

func TestUnreachableBackend(t *testing.T) {
	tokens := store.NewMemStore()
	client := NewClient(tokens).WithBaseURL("http://127.0.0.1:1")

	err := client.Do(context.Background(), http.MethodPost, "/api/v1/chat", nil, nil)
	require.Error(t, err)
	assert.True(t, IsUnreachable(err))
}

// =============================================================================
// AUTH OPERATIONS
// =============================================================================

func TestLoginStoresToken(t *testing.T) {
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/login", r.URL.Path)
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "alice", req.Username)
		envelope(t, w, "success", "", map[string]string{"access_token": "tok-abc"})
	}))

	require.NoError(t, client.Login(context.Background(), "alice", "secret"))

	token, ok := tokens.Get(store.KeyUserToken)
	assert.True(t, ok)
	assert.Equal(t, "tok-abc", token)
}

func TestAdminLoginUsesAdminNamespace(t *testing.T) {
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/admin/login", r.URL.Path)
		envelope(t, w, "success", "", map[string]string{"access_token": "admin-abc"})
	}))

	require.NoError(t, client.AdminLogin(context.Background(), "root", "secret"))

	token, ok := tokens.Get(store.KeyAdminToken)
	assert.True(t, ok)
	assert.Equal(t, "admin-abc", token)
	_, userSet := tokens.Get(store.KeyUserToken)
	assert.False(t, userSet)
}

func TestLoginValidatesLocally(t *testing.T) {
	called := false
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	err := client.Login(context.Background(), "", "")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.False(t, called, "validation failures must never reach the network")
}

// =============================================================================
// CHAT OPERATION
// =============================================================================

func TestChatPinsSessionID(t *testing.T) {
	var gotReq ChatRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		envelope(t, w, "success", "", chatData{
			ChatID:  "chat-7",
			Message: model.NewAssistantMessage("hello"),
		})
	}))

	chatID, reply, err := client.Chat(context.Background(), "", []model.Message{model.NewUserMessage("hi")})
	require.NoError(t, err)
	assert.Equal(t, "chat-7", chatID)
	assert.Equal(t, model.RoleAssistant, reply.Role)
	assert.Empty(t, gotReq.ChatID)

	// Second turn carries the pinned id
	_, _, err = client.Chat(context.Background(), chatID, []model.Message{model.NewUserMessage("again")})
	require.NoError(t, err)
	assert.Equal(t, "chat-7", gotReq.ChatID)
}

// =============================================================================
// PROFILE OPERATION
// =============================================================================

func TestProfileCarriesUserToken(t *testing.T) {
	var gotAuth string
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/user/profile", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		envelope(t, w, "success", "", model.User{
			ID:       "u1",
			Username: "alice",
			FullName: "Alice Liddell",
		})
	}))

	tokens.Set(store.KeyUserToken, "user-tok")
	tokens.Set(store.KeyAdminToken, "admin-tok")

	user, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer user-tok", gotAuth, "profile is a user-namespace route")
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Alice Liddell", user.FullName)
}

// =============================================================================
// SEARCH OPERATIONS
// =============================================================================

func TestSearchDocumentsSendsRequestVerbatim(t *testing.T) {
	var gotReq model.SearchRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/documents/search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		envelope(t, w, "success", "", searchData{Documents: []model.Document{{ID: "d1"}}})
	}))

	docs, err := client.SearchDocuments(context.Background(), model.SearchRequest{
		Queries: []string{"foo", "bar"},
		Tags:    []string{"x"},
		Limit:   10,
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, []string{"foo", "bar"}, gotReq.Queries)
	assert.Equal(t, []string{"x"}, gotReq.Tags)
	assert.Equal(t, 10, gotReq.Limit)
}

func TestAskAICarriesSearchContext(t *testing.T) {
	var gotReq model.AskAIRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/documents/ask-ai", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		envelope(t, w, "success", "", searchData{})
	}))

	_, err := client.AskAI(context.Background(), "what is this?", model.SearchRequest{Queries: []string{"foo"}})
	require.NoError(t, err)
	assert.Equal(t, "what is this?", gotReq.Question)
	assert.Equal(t, []string{"foo"}, gotReq.SearchRequest.Queries)
}

// =============================================================================
// PDF LINK
// =============================================================================

func TestPDFLink(t *testing.T) {
	tokens := store.NewMemStore()
	client := NewClient(tokens).WithBaseURL("http://backend:8888")

	link := client.PDFLink("report v1.pdf", "")
	assert.Equal(t, "http://backend:8888/api/v1/pdf?file=report+v1.pdf", link)

	link = client.PDFLink("report.pdf", "7")
	assert.True(t, strings.HasSuffix(link, "#page=7"))
}
