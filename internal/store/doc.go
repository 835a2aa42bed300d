// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides durable key/value persistence for client state:
// auth tokens, the active chat session id, and the chat transcript.
//
// The store is deliberately opaque to its callers: values are strings or
// JSON blobs, and the only contract is atomic per-key set semantics. A
// single Store instance is constructed at startup and passed by reference
// to the controllers that need it, which makes substituting the in-memory
// fake trivial in tests.
package store
