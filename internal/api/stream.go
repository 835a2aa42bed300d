// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for communicating with the DocChat
// backend.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/jeranaias/docchat-tui/internal/model"
)

// =============================================================================
// STATUS STREAM READER
// =============================================================================

// StatusReader demultiplexes a streamed upload response into discrete
// status records.
//
// The wire format is a concatenation of JSON objects. Chunk boundaries
// carry no meaning (one network read may hold half a record or three),
// so framing uses json.Decoder, which buffers across reads and consumes
// exactly one value at a time.
type StatusReader struct {
	decoder *json.Decoder
	last    model.ProcessingStatus
}

// NewStatusReader creates a status reader over a response body.
func NewStatusReader(r io.Reader) *StatusReader {
	return &StatusReader{decoder: json.NewDecoder(r)}
}

// Process reads records until a terminal record, stream end, or context
// cancellation, calling the callback for each record in arrival order.
//
// A stream that ends before any terminal record returns nil: the upload
// outcome is unknown and the caller's state stays wherever the last
// record left it.
func (s *StatusReader) Process(ctx context.Context, callback StatusCallback) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		record, err := s.read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		s.last = record
		callback(record)
		if record.Terminal() {
			return nil
		}
	}
}

// read decodes the next record from the stream.
func (s *StatusReader) read() (model.ProcessingStatus, error) {
	var record model.ProcessingStatus
	if err := s.decoder.Decode(&record); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return record, io.EOF
		}
		return record, &ClientError{Type: ErrTypeMalformedResponse, Message: "failed to decode status record", Cause: err}
	}
	return record, nil
}

// Last returns the most recent record processed.
func (s *StatusReader) Last() model.ProcessingStatus {
	return s.last
}
