// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package search manages document search state: query parsing, result
// presentation, ask-AI, and term highlighting.
package search
