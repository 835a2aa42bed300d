// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the chat session controller.
package chat

import "time"

// =============================================================================
// CONNECTION STATE MACHINE
// =============================================================================

// Phase is the connection phase of the duplex channel.
type Phase int

const (
	// PhaseConnecting is the initial handshake.
	PhaseConnecting Phase = iota

	// PhaseOpen means the channel is established; sending is permitted
	// only in this phase.
	PhaseOpen

	// PhaseReconnecting means the channel closed unexpectedly and a
	// retry is pending.
	PhaseReconnecting

	// PhaseClosed is terminal: retries are exhausted or the session was
	// released. The user must retry manually.
	PhaseClosed
)

// String returns the phase name for logging.
func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "connecting"
	case PhaseOpen:
		return "open"
	case PhaseReconnecting:
		return "reconnecting"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ConnectionState is the observable state of the duplex channel. Attempt
// is meaningful only while reconnecting: it counts consecutive failed
// attempts since the channel was last open.
type ConnectionState struct {
	Phase   Phase
	Attempt int
}

// Reconnect tuning. After an unexpected closure the driver waits
// NextDelay(1..MaxReconnectAttempts) between attempts and gives up for
// good once the budget is spent.
const (
	// MaxReconnectAttempts bounds consecutive reconnect attempts.
	MaxReconnectAttempts = 5

	// reconnectBaseDelay is the wait before the first retry.
	reconnectBaseDelay = 1 * time.Second

	// reconnectMaxDelay caps the exponential backoff.
	reconnectMaxDelay = 10 * time.Second
)

// ReconnectTuning overrides the reconnect behavior of a session. Zero
// values fall back to the package defaults.
type ReconnectTuning struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultReconnectTuning returns the built-in reconnect parameters.
func DefaultReconnectTuning() ReconnectTuning {
	return ReconnectTuning{
		MaxAttempts: MaxReconnectAttempts,
		BaseDelay:   reconnectBaseDelay,
		MaxDelay:    reconnectMaxDelay,
	}
}

func (t ReconnectTuning) fillDefaults() ReconnectTuning {
	def := DefaultReconnectTuning()
	if t.MaxAttempts <= 0 {
		t.MaxAttempts = def.MaxAttempts
	}
	if t.BaseDelay <= 0 {
		t.BaseDelay = def.BaseDelay
	}
	if t.MaxDelay <= 0 {
		t.MaxDelay = def.MaxDelay
	}
	return t
}

// Delay returns the backoff delay before reconnect attempt n (1-based),
// doubling from BaseDelay and capped at MaxDelay. Attempts below 1 are
// treated as the first attempt.
func (t ReconnectTuning) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := t.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= t.MaxDelay {
			return t.MaxDelay
		}
	}
	if delay > t.MaxDelay {
		return t.MaxDelay
	}
	return delay
}

// NextDelay returns the default backoff delay before reconnect attempt n
// (1-based): 1s, 2s, 4s, 8s, capped at 10s.
func NextDelay(attempt int) time.Duration {
	return DefaultReconnectTuning().Delay(attempt)
}
