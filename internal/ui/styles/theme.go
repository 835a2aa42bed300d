// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the docchat TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the application. It detects the
// terminal's color capability and adjusts accordingly.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// Application container
	App    lipgloss.Style
	Header lipgloss.Style
	Tab    lipgloss.Style
	TabOn  lipgloss.Style

	// Chat
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	Reasoning       lipgloss.Style

	// Search results
	ResultTitle lipgloss.Style
	ResultMeta  lipgloss.Style
	Highlight   lipgloss.Style

	// Status and feedback
	StatusBar lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style

	// Forms
	Label lipgloss.Style
	Input lipgloss.Style
}

// New builds the theme for the current terminal.
func New() *Theme {
	output := termenv.DefaultOutput()
	isDark := output.HasDarkBackground()

	accent := lipgloss.Color("69")
	subtle := lipgloss.Color("240")
	if !isDark {
		subtle = lipgloss.Color("245")
	}

	return &Theme{
		IsDark:       isDark,
		ColorProfile: output.Profile,

		App:    lipgloss.NewStyle().Padding(0, 1),
		Header: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Tab:    lipgloss.NewStyle().Foreground(subtle).Padding(0, 1),
		TabOn:  lipgloss.NewStyle().Bold(true).Foreground(accent).Underline(true).Padding(0, 1),

		UserBubble:      lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true),
		AssistantBubble: lipgloss.NewStyle(),
		Reasoning:       lipgloss.NewStyle().Foreground(subtle).Italic(true),

		ResultTitle: lipgloss.NewStyle().Bold(true),
		ResultMeta:  lipgloss.NewStyle().Foreground(subtle),
		Highlight:   lipgloss.NewStyle().Reverse(true),

		StatusBar: lipgloss.NewStyle().Foreground(subtle),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Muted:     lipgloss.NewStyle().Foreground(subtle),

		Label: lipgloss.NewStyle().Bold(true),
		Input: lipgloss.NewStyle(),
	}
}

// HighlightContent marks the given spans of content with the highlight
// style. Spans are rune offsets, sorted and non-overlapping.
func (t *Theme) HighlightContent(content string, spans [][2]int) string {
	if len(spans) == 0 {
		return content
	}
	runes := []rune(content)
	var out string
	prev := 0
	for _, span := range spans {
		start, end := span[0], span[1]
		if start < prev || start > len(runes) {
			continue
		}
		if end > len(runes) {
			end = len(runes)
		}
		out += string(runes[prev:start])
		out += t.Highlight.Render(string(runes[start:end]))
		prev = end
	}
	out += string(runes[prev:])
	return out
}
