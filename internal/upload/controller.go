// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/model"
)

// =============================================================================
// VALIDATION
// =============================================================================

// AllowedExtensions is the file-type allow-list checked before any
// network call.
var AllowedExtensions = []string{".pdf", ".doc", ".docx"}

// ErrBusy means an upload is already in flight.
var ErrBusy = errors.New("an upload is already in progress")

// Allowed reports whether the filename carries an accepted extension.
func Allowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// =============================================================================
// JOB STATE
// =============================================================================

// Phase is the upload job lifecycle position.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseUploading
	PhaseProcessing
	PhaseCompleted
	PhaseError
)

// String returns the phase name for logging.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseUploading:
		return "uploading"
	case PhaseProcessing:
		return "processing"
	case PhaseCompleted:
		return "completed"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Job is a snapshot of the current upload state.
type Job struct {
	Phase          Phase
	Filename       string
	Message        string
	Progress       int
	ProcessedPages int
	TotalPages     int
}

// Uploader is the backend surface the controller needs.
type Uploader interface {
	Upload(ctx context.Context, filename string, file io.Reader, meta api.UploadMetadata, callback api.StatusCallback) error
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller runs one upload at a time and projects the streamed status
// feed into a Job snapshot. Records are applied in arrival order, each
// overwriting the previous status; a terminal record resets the progress
// counters, while a stream that ends without one leaves the job in its
// last reported phase.
type Controller struct {
	mu  sync.Mutex
	api Uploader
	job Job

	// OnUpdate, when set, fires after every job change. It runs on the
	// uploading goroutine.
	OnUpdate func(job Job)
}

// NewController creates an upload controller over the given backend.
func NewController(uploader Uploader) *Controller {
	return &Controller{api: uploader}
}

// Job returns the current job snapshot.
func (c *Controller) Job() Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.job
}

// Reset returns the controller to idle, clearing any finished or
// abandoned job.
func (c *Controller) Reset() {
	c.setJob(Job{})
}

func (c *Controller) setJob(job Job) {
	c.mu.Lock()
	c.job = job
	c.mu.Unlock()
	if c.OnUpdate != nil {
		c.OnUpdate(job)
	}
}

// UploadFile opens path and submits it. See Upload.
func (c *Controller) UploadFile(ctx context.Context, path string, meta api.UploadMetadata) error {
	filename := filepath.Base(path)
	if !Allowed(filename) {
		return validationError(filename)
	}

	file, err := os.Open(path)
	if err != nil {
		return &api.ClientError{Type: api.ErrTypeValidation, Message: "cannot read " + filename, Cause: err}
	}
	defer file.Close()

	return c.Upload(ctx, filename, file, meta)
}

// Upload validates the filename against the allow-list and submits the
// document. Rejected files short-circuit with a validation error and
// never reach the network. The streamed status feed drives the job
// snapshot until a terminal record arrives or the stream ends.
func (c *Controller) Upload(ctx context.Context, filename string, file io.Reader, meta api.UploadMetadata) error {
	if !Allowed(filename) {
		return validationError(filename)
	}

	c.mu.Lock()
	if c.job.Phase == PhaseUploading || c.job.Phase == PhaseProcessing {
		c.mu.Unlock()
		return ErrBusy
	}
	c.mu.Unlock()

	c.setJob(Job{Phase: PhaseUploading, Filename: filename})

	err := c.api.Upload(ctx, filename, file, meta, func(status model.ProcessingStatus) {
		c.apply(filename, status)
	})
	if err != nil {
		c.setJob(Job{
			Phase:    PhaseError,
			Filename: filename,
			Message:  api.UserMessage(err, "Upload failed. Please try again."),
		})
		return err
	}

	// A nil return with the job still mid-flight means the stream ended
	// without a terminal record. The outcome is unknown, so the job is
	// left open rather than reported as success.
	return nil
}

// apply projects one status record onto the job.
func (c *Controller) apply(filename string, status model.ProcessingStatus) {
	switch status.Status {
	case model.StatusCompleted:
		c.setJob(Job{
			Phase:    PhaseCompleted,
			Filename: filename,
			Message:  status.Message,
		})
	case model.StatusError:
		message := status.Message
		if message == "" {
			message = "Upload failed. Please try again."
		}
		c.setJob(Job{
			Phase:    PhaseError,
			Filename: filename,
			Message:  message,
		})
	default:
		c.setJob(Job{
			Phase:          PhaseProcessing,
			Filename:       filename,
			Message:        status.Message,
			Progress:       status.Progress,
			ProcessedPages: status.ProcessedPages,
			TotalPages:     status.TotalPages,
		})
	}
}

func validationError(filename string) error {
	return &api.ClientError{
		Type:    api.ErrTypeValidation,
		Message: "unsupported file type: " + filename + " (allowed: " + strings.Join(AllowedExtensions, ", ") + ")",
	}
}
