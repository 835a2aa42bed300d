// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides durable key/value persistence for client state.
package store

// =============================================================================
// WELL-KNOWN KEYS
// =============================================================================

// Keys used by the client. Tokens live in the same store as chat state but
// under distinct keys; admin and user tokens are separate namespaces.
const (
	KeyUserToken    = "user_token"
	KeyAdminToken   = "admin_token"
	KeyChatID       = "chat_id"
	KeyChatMessages = "chat_messages"
)

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is an opaque key/value store with atomic per-key writes.
// Implementations must guarantee a Get never observes a half-written value.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)

	// Set stores value under key, replacing any previous value atomically.
	Set(key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
}
