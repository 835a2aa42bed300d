// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docchat-tui/internal/search"
	"github.com/jeranaias/docchat-tui/internal/util"
)

// =============================================================================
// SEARCH VIEW
// =============================================================================

// searchMode distinguishes the two input modes of the view.
type searchMode int

const (
	modeQuery searchMode = iota
	modeAsk
)

// defaultLimit caps how many documents one search requests.
const defaultLimit = 10

// searchModel renders document search: a query input (comma-separated
// terms), a tag filter input, an ask-AI mode, and the result list with
// expansion and term highlighting.
type searchModel struct {
	deps Deps

	input   textinput.Model
	tags    textinput.Model
	focused int
	mode    searchMode
	cursor  int
	loading bool
	width   int
}

func newSearchModel(deps Deps) searchModel {
	input := textinput.New()
	input.Placeholder = "terms, comma, separated"
	input.CharLimit = 500

	tags := textinput.New()
	tags.Placeholder = "tag filters, comma, separated"
	tags.CharLimit = 200

	return searchModel{deps: deps, input: input, tags: tags, width: 80}
}

func (m *searchModel) resize(width, _ int) {
	m.width = width
	m.input.Width = width - 4
	m.tags.Width = width - 4
}

func (m searchModel) focus() tea.Cmd {
	return textinput.Blink
}

func (m searchModel) update(msg tea.Msg) (searchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case SearchDoneMsg:
		m.loading = false
		m.cursor = 0
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.loading {
				return m, nil
			}
			return m.submit()

		case "ctrl+k":
			// Toggle between search and ask-AI
			if m.mode == modeQuery {
				m.mode = modeAsk
				m.input.Placeholder = "ask a question about the current results"
				m.focused = 0
				m.tags.Blur()
			} else {
				m.mode = modeQuery
				m.input.Placeholder = "terms, comma, separated"
			}
			return m, nil

		case "tab", "shift+tab":
			// Questions have no tag row; the toggle only applies to search
			if m.mode == modeQuery {
				m.focused = (m.focused + 1) % 2
				if m.focused == 0 {
					m.tags.Blur()
					m.input.Focus()
				} else {
					m.input.Blur()
					m.tags.Focus()
				}
			}
			return m, nil

		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down":
			if m.cursor < len(m.deps.Search.Results())-1 {
				m.cursor++
			}
			return m, nil

		case "ctrl+o":
			// Expand or collapse the selected result
			results := m.deps.Search.Results()
			if m.cursor < len(results) {
				m.deps.Search.Toggle(results[m.cursor].ID)
			}
			return m, nil
		}
	}

	target := &m.input
	if m.mode == modeQuery && m.focused == 1 {
		target = &m.tags
	}
	if !target.Focused() {
		target.Focus()
	}
	var cmd tea.Cmd
	*target, cmd = target.Update(msg)
	return m, cmd
}

func (m searchModel) submit() (searchModel, tea.Cmd) {
	text := m.input.Value()
	controller := m.deps.Search

	if m.mode == modeAsk {
		question := strings.TrimSpace(text)
		if question == "" {
			return m, nil
		}
		m.loading = true
		return m, func() tea.Msg {
			controller.AskAI(context.Background(), question)
			return SearchDoneMsg{}
		}
	}

	tags := search.ParseTerms(m.tags.Value())
	m.loading = true
	return m, func() tea.Msg {
		controller.Search(context.Background(), text, tags, defaultLimit)
		return SearchDoneMsg{}
	}
}

func (m searchModel) view() string {
	theme := m.deps.Theme
	controller := m.deps.Search
	var b strings.Builder

	label := "Search"
	if m.mode == modeAsk {
		label = "Ask AI"
	}
	b.WriteString(theme.Label.Render(label))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.mode == modeQuery {
		b.WriteString(theme.Label.Render("Tags"))
		b.WriteString("\n")
		b.WriteString(m.tags.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.loading {
		b.WriteString(theme.Muted.Render("Searching..."))
		return b.String()
	}

	if errText := controller.Error(); errText != "" {
		b.WriteString(theme.Error.Render(errText))
		return b.String()
	}
	if notice := controller.Notice(); notice != "" {
		b.WriteString(theme.Warning.Render(notice))
		b.WriteString("\n\n")
	}

	switch controller.State() {
	case search.StateIdle:
		b.WriteString(theme.Muted.Render("Enter terms to search your documents."))
	case search.StateNoResults:
		b.WriteString(theme.Muted.Render("No documents matched."))
	default:
		m.renderResults(&b)
	}
	return b.String()
}

func (m searchModel) renderResults(b *strings.Builder) {
	theme := m.deps.Theme
	controller := m.deps.Search
	terms := controller.Terms()

	for i, doc := range controller.Results() {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}

		title := doc.Metadata.Title
		if title == "" {
			title = doc.ID
		}
		b.WriteString(marker)
		b.WriteString(theme.ResultTitle.Render(util.TruncateWidth(title, m.width-10)))
		b.WriteString("\n")

		meta := doc.Metadata.Source
		if page, ok := doc.Metadata.Page(); ok {
			meta += " · p." + page
		}
		if len(doc.Metadata.Tags) > 0 {
			meta += " · " + strings.Join(doc.Metadata.Tags, ", ")
		}
		if meta != "" {
			b.WriteString("  ")
			b.WriteString(theme.ResultMeta.Render(meta))
			b.WriteString("\n")
		}

		expanded := controller.Expanded(doc.ID)
		content := search.Preview(doc.Content, expanded)
		spans := search.Spans(content, terms)
		pairs := make([][2]int, len(spans))
		for j, span := range spans {
			pairs[j] = [2]int{span.Start, span.End}
		}
		b.WriteString("  ")
		b.WriteString(theme.HighlightContent(content, pairs))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.StatusBar.Render("↑/↓ select • tab tags • ctrl+o expand • ctrl+k ask-AI"))
}
