package app

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"antar/internal/colour"
	"antar/internal/models"
	"antar/internal/storage"
)

func newTestState(t *testing.T) (*State, *storage.MemoryBackend) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	s := New(backend)
	s.Load()
	return s, backend
}

func TestLoadSeedsDefaults(t *testing.T) {
	s, backend := newTestState(t)

	require.Equal(t, 1, s.Personas.Count())
	self, ok := s.Personas.AtIndex(0)
	require.True(t, ok)
	assert.Equal(t, "Me", self.Name)
	assert.Equal(t, DefaultPersonaColour, self.Colour)

	chat, ok := s.ActiveChat()
	require.True(t, ok)
	assert.Equal(t, []uuid.UUID{self.ID}, chat.AddedPersonaIDs)
	assert.Equal(t, self.ID, chat.ActivePersonaID)

	// boot is read-only: defaults are not persisted until a mutation
	_, ok, err := backend.Get(storage.KeyPersonas)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = backend.Get(storage.KeyChats)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEndToEndConversation(t *testing.T) {
	s, _ := newTestState(t)
	self, _ := s.Personas.AtIndex(0)

	s.SetDraft("hello")
	msg, ok := s.SendMessage()
	require.True(t, ok)
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, self.ID, msg.SenderID)

	q := s.AddPersona("Coder", colour.Colour{R: 0x25, G: 0x25, B: 0x25})
	added, err := s.AddPersonaToActiveChat(q)
	require.NoError(t, err)
	assert.True(t, added)

	chat, _ := s.ActiveChat()
	assert.Equal(t, q, chat.ActivePersonaID)

	s.SetDraft("hi")
	msg2, ok := s.SendMessage()
	require.True(t, ok)
	assert.Equal(t, q, msg2.SenderID)
	assert.Equal(t, 2, chat.Messages.Len())
}

func TestSendEmptyDraft(t *testing.T) {
	s, _ := newTestState(t)

	_, ok := s.SendMessage()
	assert.False(t, ok)

	chat, _ := s.ActiveChat()
	assert.Equal(t, 0, chat.Messages.Len())
}

func TestAddPersonaToActiveChatUnknownID(t *testing.T) {
	s, _ := newTestState(t)

	_, err := s.AddPersonaToActiveChat(uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCycleActivePersona(t *testing.T) {
	s, _ := newTestState(t)
	self, _ := s.Personas.AtIndex(0)

	a := s.AddPersona("A", DefaultPersonaColour)
	b := s.AddPersona("B", DefaultPersonaColour)
	_, err := s.AddPersonaToActiveChat(a)
	require.NoError(t, err)
	_, err = s.AddPersonaToActiveChat(b)
	require.NoError(t, err)

	id, ok := s.CycleActivePersona(models.Next)
	require.True(t, ok)
	assert.Equal(t, self.ID, id, "wraps from last back to first")

	id, _ = s.CycleActivePersona(models.Prev)
	assert.Equal(t, b, id)
}

func TestDeleteActiveChatSelectsMostRecent(t *testing.T) {
	s, backend := newTestState(t)
	first, _ := s.Chats.ActiveID()

	second := s.NewChat()
	third := s.NewChat()

	require.NoError(t, s.SetActiveChat(second))
	require.True(t, s.DeleteActiveChat())

	// most recently created remaining chat becomes active
	active, ok := s.Chats.ActiveID()
	require.True(t, ok)
	assert.Equal(t, third, active)
	assert.Equal(t, []uuid.UUID{first, third}, s.Chats.IDs())

	// the deleted chat's record is gone from storage
	_, ok, err := backend.Get(storage.ChatKey(second))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteLastChatCreatesFreshOne(t *testing.T) {
	s, _ := newTestState(t)
	old, _ := s.Chats.ActiveID()

	require.True(t, s.DeleteActiveChat())

	assert.Equal(t, 1, s.Chats.Count())
	fresh, ok := s.Chats.ActiveID()
	require.True(t, ok)
	assert.NotEqual(t, old, fresh)
}

func TestSetActiveChatUnknownID(t *testing.T) {
	s, _ := newTestState(t)
	before, _ := s.Chats.ActiveID()

	assert.ErrorIs(t, s.SetActiveChat(uuid.New()), models.ErrNotFound)

	after, _ := s.Chats.ActiveID()
	assert.Equal(t, before, after)
}

func TestRenameActiveChat(t *testing.T) {
	s, _ := newTestState(t)

	require.True(t, s.RenameActiveChat("Standup"))
	chat, _ := s.ActiveChat()
	assert.Equal(t, "Standup", chat.Name)
}

func TestStatePersistsAcrossReload(t *testing.T) {
	backend := storage.NewMemoryBackend()

	s := New(backend)
	s.Load()
	q := s.AddPersona("Coder", colour.Colour{R: 0x25, G: 0x25, B: 0x25})

	chatID := s.NewChat()
	s.SetDraft("hello")
	_, ok := s.SendMessage()
	require.True(t, ok)
	_, err := s.AddPersonaToActiveChat(q)
	require.NoError(t, err)
	require.True(t, s.RenameActiveChat("Standup"))
	s.SetDraft("never persisted")

	// a second State over the same backend sees everything but the draft
	reloaded := New(backend)
	reloaded.Load()

	assert.Equal(t, 2, reloaded.Personas.Count())
	p, ok := reloaded.Personas.Get(q)
	require.True(t, ok)
	assert.Equal(t, "Coder", p.Name)

	chat, ok := reloaded.Chats.Get(chatID)
	require.True(t, ok)
	assert.Equal(t, "Standup", chat.Name)
	assert.Equal(t, 1, chat.Messages.Len())
	assert.Equal(t, q, chat.ActivePersonaID)
	assert.Empty(t, chat.Draft)

	active, ok := reloaded.Chats.ActiveID()
	require.True(t, ok)
	assert.Equal(t, chatID, active)
}

func TestFirstRunSendSurvivesReload(t *testing.T) {
	backend := storage.NewMemoryBackend()

	s := New(backend)
	s.Load()
	chatID, ok := s.Chats.ActiveID()
	require.True(t, ok)

	// the very first mutation must persist the seeded registries too
	s.SetDraft("hello")
	_, ok = s.SendMessage()
	require.True(t, ok)

	reloaded := New(backend)
	reloaded.Load()

	chat, ok := reloaded.Chats.Get(chatID)
	require.True(t, ok, "boot chat must be in the persisted index")
	assert.Equal(t, 1, chat.Messages.Len(), "first-run message must survive a reload")

	active, ok := reloaded.Chats.ActiveID()
	require.True(t, ok)
	assert.Equal(t, chatID, active)

	// the seeded persona was flushed along with it, so the sender resolves
	msg, ok := chat.Messages.Last()
	require.True(t, ok)
	sender, ok := reloaded.PersonaFor(msg.SenderID)
	require.True(t, ok, "message sender must not dangle after reload")
	assert.Equal(t, "Me", sender.Name)
	assert.Equal(t, 1, reloaded.Personas.Count())
}

func TestFirstRunRenameSurvivesReload(t *testing.T) {
	backend := storage.NewMemoryBackend()

	s := New(backend)
	s.Load()
	chatID, _ := s.Chats.ActiveID()
	require.True(t, s.RenameActiveChat("Standup"))

	reloaded := New(backend)
	reloaded.Load()

	chat, ok := reloaded.Chats.Get(chatID)
	require.True(t, ok)
	assert.Equal(t, "Standup", chat.Name)
}

func TestLoadToleratesMissingChatRecord(t *testing.T) {
	backend := storage.NewMemoryBackend()

	s := New(backend)
	s.Load()
	id := s.NewChat()

	// lose one chat record but keep it in the index
	require.NoError(t, backend.Delete(storage.ChatKey(id)))

	reloaded := New(backend)
	reloaded.Load()

	chat, ok := reloaded.Chats.Get(id)
	require.True(t, ok, "index entry rebuilt from the default")
	assert.Equal(t, id, chat.ID)
	assert.Equal(t, 0, chat.Messages.Len())
}

func TestPersonaForDanglingID(t *testing.T) {
	s, _ := newTestState(t)
	_, ok := s.PersonaFor(uuid.New())
	assert.False(t, ok)
}

func TestWithDefaultPersona(t *testing.T) {
	backend := storage.NewMemoryBackend()
	c := colour.Colour{R: 0xF2, G: 0x72, B: 0x4A}

	s := New(backend, WithDefaultPersona("Narrator", c))
	s.Load()

	self, _ := s.Personas.AtIndex(0)
	assert.Equal(t, "Narrator", self.Name)
	assert.Equal(t, c, self.Colour)
}
