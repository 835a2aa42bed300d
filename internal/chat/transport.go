// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the chat session controller.
package chat

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/store"
)

// =============================================================================
// TRANSPORT INTERFACES
// =============================================================================

// Conn is one established duplex connection. Implementations need not be
// safe for concurrent Send calls; the session driver serializes them.
type Conn interface {
	// Send transmits an envelope.
	Send(env model.Envelope) error

	// Receive blocks until the next envelope arrives or the connection
	// fails.
	Receive() (model.Envelope, error)

	// Close releases the connection.
	Close() error
}

// Dialer establishes duplex connections. The WebSocket implementation is
// the production dialer; tests inject fakes.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// =============================================================================
// WEBSOCKET TRANSPORT
// =============================================================================

// handshakeTimeout bounds the WebSocket upgrade.
const handshakeTimeout = 10 * time.Second

// WSDialer dials ws/wss URLs using gorilla/websocket, carrying the
// stored user token on the handshake.
type WSDialer struct {
	tokens store.Store
}

// NewWSDialer creates the production dialer over the given token store.
func NewWSDialer(tokens store.Store) WSDialer {
	return WSDialer{tokens: tokens}
}

// Dial establishes a WebSocket connection to url.
func (d WSDialer) Dial(ctx context.Context, url string) (Conn, error) {
	header := http.Header{}
	if d.tokens != nil {
		if token, ok := d.tokens.Get(store.KeyUserToken); ok {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, resp, err := dialer.DialContext(ctx, url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return &wsConn{conn: conn}, nil
}

// wsConn adapts *websocket.Conn to the Conn interface. Envelopes are
// JSON text frames.
type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) Send(env model.Envelope) error {
	return c.conn.WriteJSON(env)
}

func (c *wsConn) Receive() (model.Envelope, error) {
	var env model.Envelope
	err := c.conn.ReadJSON(&env)
	return env, err
}

func (c *wsConn) Close() error {
	// Best-effort close frame so the server can distinguish a clean
	// release from a drop
	deadline := time.Now().Add(time.Second)
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return c.conn.Close()
}
