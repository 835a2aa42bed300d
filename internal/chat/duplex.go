// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the chat session controller.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/jeranaias/docchat-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotOpen means a send was attempted outside the Open phase. The
	// message is rejected, not enqueued: delivery is at-most-once per
	// user action, with no replay after reconnect.
	ErrNotOpen = errors.New("duplex channel is not open")
)

// =============================================================================
// DUPLEX SESSION
// =============================================================================

// Callbacks receive session events. All callbacks fire from the session
// goroutine; a nil callback is skipped.
type Callbacks struct {
	// OnState fires on every connection state change.
	OnState func(state ConnectionState)

	// OnReply fires when an assistant reply envelope arrives. The reply
	// has already been appended to the controller transcript.
	OnReply func(msg model.Message)

	// OnNotice fires for processing and error envelopes. Neither
	// terminates the session.
	OnNotice func(kind model.EnvelopeType, text string)
}

// DuplexSession drives the persistent chat channel: one long-lived
// connection carrying typed envelopes, reconnected under exponential
// backoff after unexpected closures.
type DuplexSession struct {
	mu         sync.Mutex
	dialer     Dialer
	url        string
	controller *Controller
	callbacks  Callbacks

	state  ConnectionState
	conn   Conn
	cancel context.CancelFunc
	done   chan struct{}
	tuning ReconnectTuning

	// sleep is injectable so backoff is testable without real time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewDuplexSession creates a session over the given dialer and URL,
// appending replies into controller.
func NewDuplexSession(dialer Dialer, url string, controller *Controller, callbacks Callbacks) *DuplexSession {
	return &DuplexSession{
		dialer:     dialer,
		url:        url,
		controller: controller,
		callbacks:  callbacks,
		state:      ConnectionState{Phase: PhaseConnecting},
		tuning:     DefaultReconnectTuning(),
		sleep:      sleepContext,
	}
}

// WithTuning overrides the reconnect parameters. Zero fields keep their
// defaults. Must be called before Start.
func (s *DuplexSession) WithTuning(tuning ReconnectTuning) *DuplexSession {
	s.tuning = tuning.fillDefaults()
	return s
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// State returns the current connection state.
func (s *DuplexSession) State() ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *DuplexSession) setState(state ConnectionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	if s.callbacks.OnState != nil {
		s.callbacks.OnState(state)
	}
}

// =============================================================================
// CONNECTION DRIVER
// =============================================================================

// Start launches the connection driver. It returns immediately; state
// changes and inbound envelopes are reported through the callbacks.
func (s *DuplexSession) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		s.run(ctx)
	}()
}

// run is the reconnect loop: Connecting → Open on handshake, → Reconnecting(n)
// on unexpected closure with NextDelay(n) waits, → Closed once the attempt
// budget is spent or the session is released. A successful (re)connect
// resets the attempt counter.
func (s *DuplexSession) run(ctx context.Context) {
	attempt := 0

	for {
		if ctx.Err() != nil {
			s.setState(ConnectionState{Phase: PhaseClosed})
			return
		}

		if attempt == 0 {
			s.setState(ConnectionState{Phase: PhaseConnecting})
		}

		conn, err := s.dialer.Dial(ctx, s.url)
		if err == nil {
			s.mu.Lock()
			s.conn = conn
			s.mu.Unlock()

			attempt = 0
			s.setState(ConnectionState{Phase: PhaseOpen})

			err = s.receiveLoop(ctx, conn)
			conn.Close()
			s.mu.Lock()
			s.conn = nil
			s.mu.Unlock()

			if ctx.Err() != nil {
				// Explicit release, not an unexpected closure
				s.setState(ConnectionState{Phase: PhaseClosed})
				return
			}
			log.Printf("chat: duplex channel closed unexpectedly: %v", err)
		} else {
			if ctx.Err() != nil {
				s.setState(ConnectionState{Phase: PhaseClosed})
				return
			}
			log.Printf("chat: duplex dial failed: %v", err)
		}

		attempt++
		if attempt > s.tuning.MaxAttempts {
			s.setState(ConnectionState{Phase: PhaseClosed})
			return
		}

		s.setState(ConnectionState{Phase: PhaseReconnecting, Attempt: attempt})
		if err := s.sleep(ctx, s.tuning.Delay(attempt)); err != nil {
			s.setState(ConnectionState{Phase: PhaseClosed})
			return
		}
	}
}

// receiveLoop dispatches inbound envelopes until the connection fails.
func (s *DuplexSession) receiveLoop(ctx context.Context, conn Conn) error {
	for {
		env, err := conn.Receive()
		if err != nil {
			return err
		}

		switch env.Type {
		case model.EnvelopeChat:
			var msg model.Message
			if err := json.Unmarshal(env.Payload, &msg); err != nil {
				log.Printf("chat: malformed chat envelope: %v", err)
				continue
			}
			s.controller.HandleAssistant(msg)
			if s.callbacks.OnReply != nil {
				s.callbacks.OnReply(msg)
			}

		case model.EnvelopeProcessing, model.EnvelopeError:
			text := decodeNoticeText(env.Payload)
			if s.callbacks.OnNotice != nil {
				s.callbacks.OnNotice(env.Type, text)
			}

		default:
			log.Printf("chat: ignoring envelope of unknown type %q", env.Type)
		}
	}
}

// decodeNoticeText extracts display text from a processing or error
// payload, accepting either a bare string or a {message} object.
func decodeNoticeText(payload json.RawMessage) string {
	if len(payload) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(payload, &text); err == nil {
		return text
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &obj); err == nil {
		return obj.Message
	}
	return string(payload)
}

// =============================================================================
// SENDING
// =============================================================================

// Send transmits a user turn as a chat envelope carrying the full
// accumulated transcript. Permitted only while Open; otherwise the
// message is rejected without being appended or enqueued.
func (s *DuplexSession) Send(content string) error {
	s.mu.Lock()
	if s.state.Phase != PhaseOpen || s.conn == nil {
		s.mu.Unlock()
		return ErrNotOpen
	}
	conn := s.conn
	s.mu.Unlock()

	transcript := s.controller.AppendUser(content)
	payload, err := json.Marshal(model.ChatPayload{
		ChatID:   s.controller.ChatID(),
		Messages: transcript,
	})
	if err != nil {
		return err
	}

	if err := conn.Send(model.Envelope{Type: model.EnvelopeChat, Payload: payload}); err != nil {
		// The user message stays in the transcript; the failure is
		// logged and no reply will appear
		log.Printf("chat: duplex send failed: %v", err)
		return err
	}
	return nil
}

// =============================================================================
// RELEASE
// =============================================================================

// Close releases the channel. The connection is closed explicitly and no
// further reconnect attempts are made.
func (s *DuplexSession) Close() {
	s.mu.Lock()
	cancel := s.cancel
	conn := s.conn
	done := s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		conn.Close()
	}
	if done != nil {
		<-done
	}
}
