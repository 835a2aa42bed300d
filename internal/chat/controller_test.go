// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/store"
)

// fakeSender scripts the request/response transport.
type fakeSender struct {
	chatID string
	fail   error
	calls  int

	// captured
	lastChatID   string
	lastMessages []model.Message
}

func (f *fakeSender) Chat(_ context.Context, chatID string, messages []model.Message) (string, model.Message, error) {
	f.calls++
	f.lastChatID = chatID
	f.lastMessages = messages
	if f.fail != nil {
		return "", model.Message{}, f.fail
	}
	reply := model.NewAssistantMessage(fmt.Sprintf("reply %d", f.calls))
	return f.chatID, reply, nil
}

func TestSendAlternatingTranscript(t *testing.T) {
	sender := &fakeSender{chatID: "chat-1"}
	c := NewController(sender, store.NewMemStore())

	const turns = 4
	for i := 0; i < turns; i++ {
		_, err := c.Send(context.Background(), fmt.Sprintf("turn %d", i))
		require.NoError(t, err)
	}

	messages := c.Messages()
	require.Len(t, messages, 2*turns, "N turns with N replies must yield exactly 2N messages")
	for i, msg := range messages {
		if i%2 == 0 {
			assert.Equal(t, model.RoleUser, msg.Role, "message %d", i)
		} else {
			assert.Equal(t, model.RoleAssistant, msg.Role, "message %d", i)
		}
	}
}

func TestSendPinsSessionIDFromFirstResponse(t *testing.T) {
	sender := &fakeSender{chatID: "chat-9"}
	c := NewController(sender, store.NewMemStore())

	_, err := c.Send(context.Background(), "first")
	require.NoError(t, err)
	assert.Equal(t, "chat-9", c.ChatID())
	assert.Empty(t, sender.lastChatID, "first call carries no session id")

	_, err = c.Send(context.Background(), "second")
	require.NoError(t, err)
	assert.Equal(t, "chat-9", sender.lastChatID, "subsequent calls carry the pinned id")
}

func TestSendFailureKeepsUserMessage(t *testing.T) {
	sender := &fakeSender{fail: errors.New("backend down")}
	c := NewController(sender, store.NewMemStore())

	_, err := c.Send(context.Background(), "hello?")
	require.Error(t, err)

	// No rollback: the user turn stays, no assistant message appears
	messages := c.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, model.RoleUser, messages[0].Role)
	assert.Equal(t, "hello?", messages[0].Content)
	assert.False(t, c.Busy(), "controller must accept the next turn after a failure")
}

func TestSendRejectsWhileBusy(t *testing.T) {
	sender := &fakeSender{chatID: "chat-1"}
	c := NewController(sender, store.NewMemStore())

	// Simulate an in-flight turn
	c.mu.Lock()
	c.inFlight = true
	c.mu.Unlock()

	_, err := c.Send(context.Background(), "overlapping")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Empty(t, c.Messages(), "rejected sends must not be enqueued")
	assert.Equal(t, 0, sender.calls)
}

func TestSendRejectsEmptyContent(t *testing.T) {
	sender := &fakeSender{}
	c := NewController(sender, store.NewMemStore())

	_, err := c.Send(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Equal(t, 0, sender.calls)
}

func TestTranscriptSurvivesRestart(t *testing.T) {
	state := store.NewMemStore()
	sender := &fakeSender{chatID: "chat-5"}

	c := NewController(sender, state)
	_, err := c.Send(context.Background(), "remember me")
	require.NoError(t, err)
	want := c.Messages()

	// Simulated restart: fresh controller over the same store
	c2 := NewController(&fakeSender{}, state)
	assert.Equal(t, want, c2.Messages())
	assert.Equal(t, "chat-5", c2.ChatID())
}

func TestCorruptStoredTranscriptSelfHeals(t *testing.T) {
	state := store.NewMemStore()
	state.Set(store.KeyChatMessages, `{"not":"a sequence"}`)
	state.Set(store.KeyChatID, "stale-id")

	c := NewController(&fakeSender{}, state)

	assert.Empty(t, c.Messages(), "corrupt transcript restarts empty, not fatal")
	assert.Empty(t, c.ChatID())
	_, ok := state.Get(store.KeyChatMessages)
	assert.False(t, ok, "corrupt value must be cleared from the store")
	_, ok = state.Get(store.KeyChatID)
	assert.False(t, ok)
}

func TestNewChatClearsMemoryAndStore(t *testing.T) {
	state := store.NewMemStore()
	sender := &fakeSender{chatID: "chat-3"}

	c := NewController(sender, state)
	_, err := c.Send(context.Background(), "hi")
	require.NoError(t, err)
	require.NotEmpty(t, c.Messages())

	c.NewChat()

	assert.Empty(t, c.Messages())
	assert.Empty(t, c.ChatID())
	_, ok := state.Get(store.KeyChatMessages)
	assert.False(t, ok)
	_, ok = state.Get(store.KeyChatID)
	assert.False(t, ok)
}

func TestHandleAssistantDefaultsRole(t *testing.T) {
	c := NewController(&fakeSender{}, store.NewMemStore())

	c.HandleAssistant(model.Message{Content: "async reply"})

	messages := c.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, model.RoleAssistant, messages[0].Role)
}

func TestAppendUserReturnsFullTranscript(t *testing.T) {
	c := NewController(&fakeSender{}, store.NewMemStore())

	c.AppendUser("one")
	transcript := c.AppendUser("two")

	require.Len(t, transcript, 2)
	assert.Equal(t, "one", transcript[0].Content)
	assert.Equal(t, "two", transcript[1].Content)
}
