// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the chat session controller: a durable local
// transcript plus a reliable logical channel for exchanging turns with
// the DocChat backend.
//
// Two transports are supported. The request/response transport POSTs each
// turn with the accumulated transcript and pins the backend-assigned
// session id from the first reply. The duplex transport holds a single
// long-lived WebSocket carrying typed envelopes, with automatic
// reconnection under exponential backoff.
//
// The transcript is append-only: the user turn is appended optimistically
// before the network call resolves, the assistant turn only on confirmed
// receipt. Transport failures leave the user turn in place and surface no
// assistant message; send errors are logged, never shown (the observed
// product behavior, see DESIGN.md).
package chat
