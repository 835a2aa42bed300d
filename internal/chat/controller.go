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

	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/store"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrBusy means a turn is already in flight. Sends are serialized:
	// one in-flight turn per session, no queueing, no replay.
	ErrBusy = errors.New("a chat turn is already in flight")

	// ErrEmptyMessage means the user content was blank after trimming.
	ErrEmptyMessage = errors.New("message is empty")
)

// =============================================================================
// SENDER INTERFACE
// =============================================================================

// Sender is the request/response chat transport. *api.Client satisfies it.
type Sender interface {
	Chat(ctx context.Context, chatID string, messages []model.Message) (string, model.Message, error)
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the chat transcript, the backend session id, and their
// durable mirror. All mutations run under one mutex, so the UI never
// observes partial state.
type Controller struct {
	mu       sync.Mutex
	api      Sender
	state    store.Store
	chatID   string
	messages []model.Message
	inFlight bool
}

// NewController creates a controller, rehydrating transcript and session
// id from the store. A stored transcript that fails structural validation
// is discarded and its keys cleared; the session restarts empty rather
// than failing.
func NewController(api Sender, state store.Store) *Controller {
	c := &Controller{api: api, state: state}
	c.rehydrate()
	return c
}

func (c *Controller) rehydrate() {
	if raw, ok := c.state.Get(store.KeyChatMessages); ok {
		var messages []model.Message
		if err := json.Unmarshal([]byte(raw), &messages); err != nil {
			log.Printf("chat: discarding corrupt stored transcript: %v", err)
			c.state.Remove(store.KeyChatMessages)
			c.state.Remove(store.KeyChatID)
			return
		}
		c.messages = messages
	}
	if id, ok := c.state.Get(store.KeyChatID); ok {
		c.chatID = id
	}
}

// Messages returns a copy of the transcript.
func (c *Controller) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// ChatID returns the pinned session id, empty before the first exchange.
func (c *Controller) ChatID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chatID
}

// Busy reports whether a turn is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// =============================================================================
// REQUEST/RESPONSE TRANSPORT
// =============================================================================

// Send issues one chat turn: the user message is appended optimistically
// and persisted before the call, the assistant reply appended only on
// confirmed receipt. On failure the user message stays in place (no
// rollback) and the error is logged; callers show no error bubble, only
// the absence of a reply.
func (c *Controller) Send(ctx context.Context, content string) (model.Message, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return model.Message{}, ErrBusy
	}
	if content == "" {
		c.mu.Unlock()
		return model.Message{}, ErrEmptyMessage
	}
	c.inFlight = true
	c.messages = append(c.messages, model.NewUserMessage(content))
	c.persistLocked()
	transcript := make([]model.Message, len(c.messages))
	copy(transcript, c.messages)
	chatID := c.chatID
	c.mu.Unlock()

	newID, reply, err := c.api.Chat(ctx, chatID, transcript)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if err != nil {
		log.Printf("chat: send failed: %v", err)
		return model.Message{}, err
	}

	// Pin the backend-assigned session id from the first response
	if c.chatID == "" && newID != "" {
		c.chatID = newID
	}
	c.messages = append(c.messages, reply)
	c.persistLocked()
	return reply, nil
}

// =============================================================================
// DUPLEX TRANSPORT HOOKS
// =============================================================================

// AppendUser appends a user turn (duplex send path) and returns the full
// transcript to transmit. Gating lives at the session layer, not here;
// the duplex session checks the connection phase before calling this.
func (c *Controller) AppendUser(content string) []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, model.NewUserMessage(content))
	c.persistLocked()
	out := make([]model.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// HandleAssistant appends an assistant reply that arrived asynchronously.
func (c *Controller) HandleAssistant(msg model.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if msg.Role == "" {
		msg.Role = model.RoleAssistant
	}
	c.messages = append(c.messages, msg)
	c.persistLocked()
}

// =============================================================================
// SESSION LIFECYCLE
// =============================================================================

// NewChat clears the in-memory and persisted transcript and session id.
// From the caller's point of view the clear is atomic: the controller
// mutex holds throughout, so no reader observes a half-cleared session.
func (c *Controller) NewChat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.chatID = ""
	c.state.Remove(store.KeyChatMessages)
	c.state.Remove(store.KeyChatID)
}

// persistLocked mirrors transcript and session id to the store. Caller
// must hold the mutex.
func (c *Controller) persistLocked() {
	data, err := json.Marshal(c.messages)
	if err != nil {
		log.Printf("chat: failed to marshal transcript: %v", err)
		return
	}
	if err := c.state.Set(store.KeyChatMessages, string(data)); err != nil {
		log.Printf("chat: failed to persist transcript: %v", err)
	}
	if c.chatID != "" {
		if err := c.state.Set(store.KeyChatID, c.chatID); err != nil {
			log.Printf("chat: failed to persist session id: %v", err)
		}
	}
}
