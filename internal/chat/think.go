// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the chat session controller.
package chat

import "strings"

// =============================================================================
// REASONING SPAN SPLITTING
// =============================================================================

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

// SplitThink separates an assistant message into its reasoning span and
// primary answer. Models may prefix the visible answer with a delimited
// <think>...</think> span; the interior is collapsible auxiliary text and
// everything after the wrapper is the answer. Content without the wrapper
// is entirely the answer.
//
// Only the first wrapper is honored. An opening tag without a closing tag
// is treated as plain content.
func SplitThink(content string) (reasoning, answer string) {
	start := strings.Index(content, thinkOpen)
	if start < 0 {
		return "", content
	}

	rest := content[start+len(thinkOpen):]
	end := strings.Index(rest, thinkClose)
	if end < 0 {
		return "", content
	}

	reasoning = strings.TrimSpace(rest[:end])
	answer = strings.TrimSpace(content[:start] + rest[end+len(thinkClose):])
	return reasoning, answer
}
