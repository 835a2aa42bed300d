// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/model"
)

// fakeUploader replays a scripted status feed through the callback.
type fakeUploader struct {
	feed  []model.ProcessingStatus
	err   error
	calls int

	lastFilename string
	lastMeta     api.UploadMetadata
}

func (f *fakeUploader) Upload(_ context.Context, filename string, _ io.Reader, meta api.UploadMetadata, callback api.StatusCallback) error {
	f.calls++
	f.lastFilename = filename
	f.lastMeta = meta
	if f.err != nil {
		return f.err
	}
	for _, status := range f.feed {
		callback(status)
		if status.Terminal() {
			break
		}
	}
	return nil
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"report.pdf", true},
		{"notes.doc", true},
		{"spec.docx", true},
		{"REPORT.PDF", true},
		{"archive.zip", false},
		{"script.sh", false},
		{"noextension", false},
		{"trailing.", false},
		{"double.pdf.exe", false},
	}

	for _, tc := range tests {
		if got := Allowed(tc.filename); got != tc.want {
			t.Errorf("Allowed(%q) = %v, want %v", tc.filename, got, tc.want)
		}
	}
}

func TestDisallowedFileNeverReachesNetwork(t *testing.T) {
	backend := &fakeUploader{}
	c := NewController(backend)

	err := c.Upload(context.Background(), "malware.exe", strings.NewReader("x"), api.UploadMetadata{})

	require.Error(t, err)
	assert.True(t, api.IsValidation(err))
	assert.Equal(t, 0, backend.calls, "rejected files must short-circuit locally")
	assert.Equal(t, PhaseIdle, c.Job().Phase)
}

func TestRecordsApplyInArrivalOrder(t *testing.T) {
	backend := &fakeUploader{feed: []model.ProcessingStatus{
		{Status: model.StatusProcessing, Progress: 10, ProcessedPages: 1, TotalPages: 10},
		{Status: model.StatusProcessing, Progress: 50, ProcessedPages: 5, TotalPages: 10},
		{Status: model.StatusProcessing, Progress: 90, ProcessedPages: 9, TotalPages: 10},
	}}
	c := NewController(backend)

	var seen []Job
	c.OnUpdate = func(job Job) { seen = append(seen, job) }

	err := c.Upload(context.Background(), "big.pdf", strings.NewReader("x"), api.UploadMetadata{})
	require.NoError(t, err)

	// Uploading snapshot first, then each record in order
	require.Len(t, seen, 4)
	assert.Equal(t, PhaseUploading, seen[0].Phase)
	assert.Equal(t, []int{10, 50, 90}, []int{seen[1].Progress, seen[2].Progress, seen[3].Progress})
	assert.Equal(t, 9, seen[3].ProcessedPages)

	// No terminal record: the job stays open
	assert.Equal(t, PhaseProcessing, c.Job().Phase)
}

func TestCompletedRecordClosesJob(t *testing.T) {
	backend := &fakeUploader{feed: []model.ProcessingStatus{
		{Status: model.StatusProcessing, Progress: 50},
		{Status: model.StatusCompleted, Message: "indexed 12 pages"},
	}}
	c := NewController(backend)

	err := c.Upload(context.Background(), "done.pdf", strings.NewReader("x"), api.UploadMetadata{Title: "Done"})
	require.NoError(t, err)

	job := c.Job()
	assert.Equal(t, PhaseCompleted, job.Phase)
	assert.Equal(t, "indexed 12 pages", job.Message)
	assert.Zero(t, job.Progress, "terminal records reset the progress counters")
	assert.Equal(t, "Done", backend.lastMeta.Title)
}

func TestErrorRecordSurfacesMessage(t *testing.T) {
	backend := &fakeUploader{feed: []model.ProcessingStatus{
		{Status: model.StatusError, Message: "file is encrypted"},
	}}
	c := NewController(backend)

	err := c.Upload(context.Background(), "locked.pdf", strings.NewReader("x"), api.UploadMetadata{})
	require.NoError(t, err, "a backend-reported error is job state, not a call failure")

	job := c.Job()
	assert.Equal(t, PhaseError, job.Phase)
	assert.Equal(t, "file is encrypted", job.Message)
}

func TestTransportFailureBecomesErrorJob(t *testing.T) {
	backend := &fakeUploader{err: &api.ClientError{Type: api.ErrTypeRejected, Message: "storage full", Status: 507}}
	c := NewController(backend)

	err := c.Upload(context.Background(), "big.pdf", strings.NewReader("x"), api.UploadMetadata{})
	require.Error(t, err)

	job := c.Job()
	assert.Equal(t, PhaseError, job.Phase)
	assert.Equal(t, "storage full", job.Message)
}

func TestSecondUploadRejectedWhileInFlight(t *testing.T) {
	c := NewController(&fakeUploader{})
	c.mu.Lock()
	c.job = Job{Phase: PhaseProcessing, Filename: "inflight.pdf"}
	c.mu.Unlock()

	err := c.Upload(context.Background(), "second.pdf", strings.NewReader("x"), api.UploadMetadata{})
	assert.ErrorIs(t, err, ErrBusy)
}

func TestResetReturnsToIdle(t *testing.T) {
	backend := &fakeUploader{feed: []model.ProcessingStatus{
		{Status: model.StatusCompleted},
	}}
	c := NewController(backend)

	require.NoError(t, c.Upload(context.Background(), "done.pdf", strings.NewReader("x"), api.UploadMetadata{}))
	require.Equal(t, PhaseCompleted, c.Job().Phase)

	c.Reset()
	assert.Equal(t, Job{}, c.Job())
}

func TestTerminalJobAllowsNextUpload(t *testing.T) {
	backend := &fakeUploader{feed: []model.ProcessingStatus{
		{Status: model.StatusError, Message: "bad file"},
	}}
	c := NewController(backend)

	require.NoError(t, c.Upload(context.Background(), "one.pdf", strings.NewReader("x"), api.UploadMetadata{}))
	require.Equal(t, PhaseError, c.Job().Phase)

	backend.feed = []model.ProcessingStatus{{Status: model.StatusCompleted}}
	require.NoError(t, c.Upload(context.Background(), "two.pdf", strings.NewReader("x"), api.UploadMetadata{}))
	assert.Equal(t, PhaseCompleted, c.Job().Phase)
	assert.Equal(t, 2, backend.calls)
}
