package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChat(t *testing.T) {
	pid := uuid.New()
	chat := NewChat(pid)

	assert.NotEqual(t, uuid.Nil, chat.ID)
	assert.NotEmpty(t, chat.Name)
	assert.Equal(t, []uuid.UUID{pid}, chat.AddedPersonaIDs)
	assert.Equal(t, pid, chat.ActivePersonaID)
	assert.Equal(t, 0, chat.Messages.Len())
	assert.Empty(t, chat.Draft)
}

func TestChatSend(t *testing.T) {
	pid := uuid.New()
	chat := NewChat(pid)
	chat.SetDraft("hello")

	msg, ok := chat.Send()
	require.True(t, ok)
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, pid, msg.SenderID)
	assert.NotEqual(t, uuid.Nil, msg.ID)
	assert.Equal(t, 1, chat.Messages.Len())
	assert.Empty(t, chat.Draft, "draft cleared on send")

	chat.SetDraft("again")
	msg2, ok := chat.Send()
	require.True(t, ok)
	assert.NotEqual(t, msg.ID, msg2.ID)
	assert.Equal(t, 2, chat.Messages.Len())
}

func TestChatSendEmptyDraftIsNoOp(t *testing.T) {
	chat := NewChat(uuid.New())

	_, ok := chat.Send()
	assert.False(t, ok)
	assert.Equal(t, 0, chat.Messages.Len())
}

func TestChatAddPersona(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	chat := NewChat(first)

	assert.True(t, chat.AddPersona(second))
	assert.Equal(t, second, chat.ActivePersonaID)
	assert.Equal(t, []uuid.UUID{first, second}, chat.AddedPersonaIDs)

	// re-adding does not duplicate but still switches active
	chat.ActivePersonaID = second
	assert.False(t, chat.AddPersona(first))
	assert.Equal(t, first, chat.ActivePersonaID)
	assert.Equal(t, []uuid.UUID{first, second}, chat.AddedPersonaIDs)
}

func TestChatCycleActivePersona(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	chat := NewChat(a)
	chat.AddPersona(b)
	chat.AddPersona(c)
	// active is now c

	assert.Equal(t, a, chat.CycleActivePersona(Next), "wraps past the end")
	assert.Equal(t, b, chat.CycleActivePersona(Next))
	assert.Equal(t, a, chat.CycleActivePersona(Prev))
	assert.Equal(t, c, chat.CycleActivePersona(Prev), "wraps past the start")
}

func TestChatCycleSinglePersona(t *testing.T) {
	a := uuid.New()
	chat := NewChat(a)
	assert.Equal(t, a, chat.CycleActivePersona(Next))
	assert.Equal(t, a, chat.CycleActivePersona(Prev))
}

func TestChatRename(t *testing.T) {
	chat := NewChat(uuid.New())
	chat.Rename("Standup")
	assert.Equal(t, "Standup", chat.Name)
}

func TestChatJSONExcludesDraft(t *testing.T) {
	chat := NewChat(uuid.New())
	chat.SetDraft("work in progress")
	chat.SetDraft("hello")
	chat.Send()
	chat.SetDraft("unsent")

	data, err := json.Marshal(chat)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "unsent")

	var back Chat
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, chat.ID, back.ID)
	assert.Equal(t, chat.Name, back.Name)
	assert.Equal(t, chat.AddedPersonaIDs, back.AddedPersonaIDs)
	assert.Equal(t, chat.ActivePersonaID, back.ActivePersonaID)
	assert.Equal(t, 1, back.Messages.Len())
	assert.Empty(t, back.Draft)
}

func TestChatSidebarPreview(t *testing.T) {
	chat := NewChat(uuid.New())
	assert.Equal(t, "No messages yet", chat.Description())

	chat.SetDraft("hello there")
	chat.Send()
	assert.Equal(t, "hello there", chat.Description())
	assert.Equal(t, chat.Name, chat.Title())
}

func TestMessageLogUpdates(t *testing.T) {
	pid := uuid.New()
	chat := NewChat(pid)
	chat.SetDraft("tpyo")
	msg, _ := chat.Send()

	require.NoError(t, chat.Messages.UpdateContent(msg.ID, func(string) string { return "typo" }))
	got, ok := chat.Messages.Get(msg.ID)
	require.True(t, ok)
	assert.Equal(t, "typo", got.Text)

	other := uuid.New()
	require.NoError(t, chat.Messages.UpdateSender(msg.ID, other))
	got, _ = chat.Messages.Get(msg.ID)
	assert.Equal(t, other, got.SenderID)

	assert.ErrorIs(t, chat.Messages.UpdateContent(uuid.New(), func(s string) string { return s }), ErrNotFound)
	assert.ErrorIs(t, chat.Messages.UpdateSender(uuid.New(), other), ErrNotFound)

	last, ok := chat.Messages.Last()
	require.True(t, ok)
	assert.Equal(t, msg.ID, last.ID)
}
