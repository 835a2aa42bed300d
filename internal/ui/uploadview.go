// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/upload"
)

// =============================================================================
// UPLOAD VIEW
// =============================================================================

// uploadModel is the submission form plus the live processing feed.
type uploadModel struct {
	deps Deps

	path    textinput.Model
	title   textinput.Model
	tags    textinput.Model
	focused int

	bar     progress.Model
	job     upload.Job
	errText string
}

func newUploadModel(deps Deps) uploadModel {
	path := textinput.New()
	path.Placeholder = "/path/to/document.pdf"
	path.CharLimit = 500

	title := textinput.New()
	title.Placeholder = "title"
	title.CharLimit = 200

	tags := textinput.New()
	tags.Placeholder = "tags, comma, separated"
	tags.CharLimit = 200

	return uploadModel{
		deps:  deps,
		path:  path,
		title: title,
		tags:  tags,
		bar:   progress.New(progress.WithDefaultGradient()),
	}
}

func (m uploadModel) focus() tea.Cmd {
	return textinput.Blink
}

// inputs returns pointers into the receiver so callers mutate the model
// they hold, not a discarded copy.
func (m *uploadModel) inputs() []*textinput.Model {
	return []*textinput.Model{&m.path, &m.title, &m.tags}
}

func (m uploadModel) update(msg tea.Msg) (uploadModel, tea.Cmd) {
	switch msg := msg.(type) {
	case UploadProgressMsg:
		m.job = msg.Job
		if m.job.Phase == upload.PhaseCompleted {
			// A finished upload clears the form for the next one
			m.path.SetValue("")
			m.title.SetValue("")
			m.tags.SetValue("")
		}
		return m, nil

	case UploadDoneMsg:
		if msg.Err != nil {
			m.errText = api.UserMessage(msg.Err, "Upload failed. Please try again.")
		}
		return m, nil

	case tea.KeyMsg:
		if m.uploading() {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.focused = (m.focused + 1) % 3
			return m.refocus()
		case "shift+tab", "up":
			m.focused = (m.focused + 2) % 3
			return m.refocus()
		case "enter":
			return m.submit()
		}
	}

	if m.uploading() {
		return m, nil
	}
	inputs := m.inputs()
	if !inputs[m.focused].Focused() {
		inputs[m.focused].Focus()
	}
	var cmd tea.Cmd
	*inputs[m.focused], cmd = inputs[m.focused].Update(msg)
	return m, cmd
}

func (m uploadModel) refocus() (uploadModel, tea.Cmd) {
	for i, input := range m.inputs() {
		if i == m.focused {
			input.Focus()
		} else {
			input.Blur()
		}
	}
	return m, textinput.Blink
}

func (m uploadModel) uploading() bool {
	return m.job.Phase == upload.PhaseUploading || m.job.Phase == upload.PhaseProcessing
}

func (m uploadModel) submit() (uploadModel, tea.Cmd) {
	path := strings.TrimSpace(m.path.Value())
	if path == "" {
		m.errText = "Choose a file to upload."
		return m, nil
	}
	if !upload.Allowed(path) {
		// Allow-list rejection happens here, before any network call
		m.errText = "Unsupported file type. Allowed: " + strings.Join(upload.AllowedExtensions, ", ")
		return m, nil
	}

	meta := api.UploadMetadata{
		Title:  strings.TrimSpace(m.title.Value()),
		Source: path,
	}
	for _, tag := range strings.Split(m.tags.Value(), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			meta.Tags = append(meta.Tags, tag)
		}
	}

	m.errText = ""
	controller := m.deps.Upload
	return m, func() tea.Msg {
		err := controller.UploadFile(context.Background(), path, meta)
		return UploadDoneMsg{Err: err}
	}
}

func (m uploadModel) view() string {
	theme := m.deps.Theme
	var b strings.Builder

	b.WriteString(theme.Label.Render("Upload a document"))
	b.WriteString("\n\n")
	b.WriteString(theme.Label.Render("File"))
	b.WriteString("\n")
	b.WriteString(m.path.View())
	b.WriteString("\n")
	b.WriteString(theme.Label.Render("Title"))
	b.WriteString("\n")
	b.WriteString(m.title.View())
	b.WriteString("\n")
	b.WriteString(theme.Label.Render("Tags"))
	b.WriteString("\n")
	b.WriteString(m.tags.View())
	b.WriteString("\n\n")

	switch m.job.Phase {
	case upload.PhaseUploading:
		b.WriteString(theme.Muted.Render("Uploading " + m.job.Filename + "..."))
	case upload.PhaseProcessing:
		b.WriteString(m.bar.ViewAs(float64(m.job.Progress) / 100))
		b.WriteString("\n")
		line := "Processing"
		if m.job.TotalPages > 0 {
			line += " " + pagesLine(m.job.ProcessedPages, m.job.TotalPages)
		}
		if m.job.Message != "" {
			line += " - " + m.job.Message
		}
		b.WriteString(theme.Muted.Render(line))
	case upload.PhaseCompleted:
		message := m.job.Message
		if message == "" {
			message = "Upload complete."
		}
		b.WriteString(theme.Success.Render(message))
	case upload.PhaseError:
		b.WriteString(theme.Error.Render(m.job.Message))
	}

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(theme.Error.Render(m.errText))
	}
	return b.String()
}

func pagesLine(processed, total int) string {
	return fmt.Sprintf("page %d of %d", processed, total)
}
