// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared between the DocChat
// backend protocol and the TUI: chat messages, documents, search requests,
// duplex envelopes, and upload status records.
//
// Every type here mirrors a JSON shape owned by the backend. Parsing is
// defensive: unknown fields are ignored, missing fields get zero values,
// and structural validation lives with the consumers (see internal/chat
// transcript rehydration and internal/upload status demultiplexing).
package model
