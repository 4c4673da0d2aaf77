// Package app owns the process-wide application state: the persona
// registry, the chat registry, and their synchronization to storage.
// It is constructed once, loaded once, and handed to the UI; every
// mutating operation mirrors the change to the backend before
// returning.
package app

import (
	"log/slog"

	"github.com/google/uuid"

	"antar/internal/colour"
	"antar/internal/models"
	"antar/internal/storage"
)

// DefaultPersonaColour is the colour of the seeded "Me" persona.
var DefaultPersonaColour = colour.Colour{R: 0x49, G: 0x55, B: 0x65}

// State is the application-state container.
type State struct {
	Personas *models.PersonaRegistry
	Chats    *models.ChatRegistry

	backend storage.Backend
	log     *slog.Logger

	defaultPersona models.Persona

	// Defaults seeded during Load are not written until the first
	// mutation that depends on them; these flags track what is still
	// unwritten so that mutation flushes it.
	personasDirty bool
	indexDirty    bool
}

// chatIndex is the "chats" storage record: the chat order and the
// active pointer, with message logs excluded.
type chatIndex struct {
	ChatIDs    []uuid.UUID `json:"chat_ids"`
	ActiveChat *uuid.UUID  `json:"active_chat"`
}

// Option configures a State before Load.
type Option func(*State)

// WithDefaultPersona overrides the persona seeded on first run.
func WithDefaultPersona(name string, c colour.Colour) Option {
	return func(s *State) {
		s.defaultPersona = models.Persona{Name: name, Colour: c}
	}
}

// WithLogger sets the logger used for storage-failure warnings.
func WithLogger(log *slog.Logger) Option {
	return func(s *State) { s.log = log }
}

// New creates an unloaded State bound to a backend.
func New(backend storage.Backend, opts ...Option) *State {
	s := &State{
		backend:        backend,
		log:            slog.Default(),
		defaultPersona: models.Persona{Name: "Me", Colour: DefaultPersonaColour},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load populates both registries from storage, seeding defaults where
// records are missing. Defaults are not written back; the first
// mutation persists them.
func (s *State) Load() {
	seeded := false
	s.Personas = storage.Load(s.backend, storage.KeyPersonas, func() *models.PersonaRegistry {
		seeded = true
		return models.NewPersonaRegistry(s.defaultPersona)
	})
	if s.Personas == nil || s.Personas.Count() == 0 {
		s.Personas = models.NewPersonaRegistry(s.defaultPersona)
		seeded = true
	}
	s.personasDirty = seeded
	self, _ := s.Personas.AtIndex(0)

	idx := storage.Load(s.backend, storage.KeyChats, func() chatIndex { return chatIndex{} })

	s.Chats = models.NewChatRegistry()
	for _, id := range idx.ChatIDs {
		chat := storage.Load(s.backend, storage.ChatKey(id), func() *models.Chat {
			c := models.NewChat(self.ID)
			c.ID = id
			return c
		})
		if chat == nil || chat.ID != id {
			c := models.NewChat(self.ID)
			c.ID = id
			chat = c
		}
		s.Chats.Insert(chat)
	}

	if idx.ActiveChat != nil {
		if err := s.Chats.SetActive(*idx.ActiveChat); err != nil {
			s.log.Warn("stored active chat no longer exists", "id", *idx.ActiveChat)
		}
	}

	if s.Chats.Count() == 0 {
		s.Chats.CreateChat(self.ID)
		s.indexDirty = true
	}
	if _, ok := s.Chats.ActiveID(); !ok && s.Chats.Count() > 0 {
		ids := s.Chats.IDs()
		_ = s.Chats.SetActive(ids[len(ids)-1])
	}
}

// AddPersona registers a new global persona and persists the registry.
func (s *State) AddPersona(name string, c colour.Colour) uuid.UUID {
	id := s.Personas.Add(name, c)
	s.savePersonas()
	return id
}

// PersonaFor resolves a persona id. Dangling ids simply report false;
// callers skip rendering instead of failing.
func (s *State) PersonaFor(id uuid.UUID) (models.Persona, bool) {
	return s.Personas.Get(id)
}

// ActiveChat returns the currently selected chat, if any.
func (s *State) ActiveChat() (*models.Chat, bool) {
	return s.Chats.Active()
}

// NewChat creates a chat seeded with the default persona, makes it
// active, and persists both the chat record and the index.
func (s *State) NewChat() uuid.UUID {
	self, _ := s.Personas.AtIndex(0)
	return s.NewChatWith(self.ID)
}

// NewChatWith creates a chat seeded with the given persona.
func (s *State) NewChatWith(firstPersonaID uuid.UUID) uuid.UUID {
	id := s.Chats.CreateChat(firstPersonaID)
	if chat, ok := s.Chats.Get(id); ok {
		s.saveChat(chat)
	}
	s.saveChatIndex()
	return id
}

// SetActiveChat switches the active chat and persists the index.
// Unknown ids return models.ErrNotFound and change nothing.
func (s *State) SetActiveChat(id uuid.UUID) error {
	if err := s.Chats.SetActive(id); err != nil {
		return err
	}
	s.saveChatIndex()
	return nil
}

// DeleteActiveChat removes the active chat and its storage record,
// then activates the most recently created remaining chat. When the
// registry empties, a fresh default chat takes its place so the UI is
// never left without a chat.
func (s *State) DeleteActiveChat() bool {
	id, ok := s.Chats.DeleteActive()
	if !ok {
		return false
	}
	if err := s.backend.Delete(storage.ChatKey(id)); err != nil {
		s.log.Warn("delete chat record failed", "id", id, "error", err)
	}

	if ids := s.Chats.IDs(); len(ids) > 0 {
		_ = s.Chats.SetActive(ids[len(ids)-1])
		s.saveChatIndex()
	} else {
		self, _ := s.Personas.AtIndex(0)
		s.NewChatWith(self.ID)
	}
	return true
}

// SendMessage appends the active chat's draft as a message and
// persists that chat's record. It reports false when there is no
// active chat or the draft is empty.
func (s *State) SendMessage() (models.Message, bool) {
	chat, ok := s.Chats.Active()
	if !ok {
		return models.Message{}, false
	}
	msg, sent := chat.Send()
	if !sent {
		return models.Message{}, false
	}
	s.saveChat(chat)
	return msg, true
}

// AddPersonaToActiveChat adds an existing persona to the active chat
// and makes it the composing persona. Unknown persona ids return
// models.ErrNotFound.
func (s *State) AddPersonaToActiveChat(id uuid.UUID) (bool, error) {
	if _, ok := s.Personas.Get(id); !ok {
		return false, models.ErrNotFound
	}
	chat, ok := s.Chats.Active()
	if !ok {
		return false, models.ErrNotFound
	}
	added := chat.AddPersona(id)
	s.saveChat(chat)
	return added, nil
}

// CycleActivePersona moves the active chat's composing persona to the
// next or previous one added to it.
func (s *State) CycleActivePersona(dir models.Direction) (uuid.UUID, bool) {
	chat, ok := s.Chats.Active()
	if !ok {
		return uuid.Nil, false
	}
	id := chat.CycleActivePersona(dir)
	s.saveChat(chat)
	return id, true
}

// RenameActiveChat renames the active chat and persists its record.
func (s *State) RenameActiveChat(newName string) bool {
	chat, ok := s.Chats.Active()
	if !ok {
		return false
	}
	chat.Rename(newName)
	s.saveChat(chat)
	return true
}

// SetDraft updates the active chat's draft. Drafts are transient and
// never written to storage.
func (s *State) SetDraft(text string) {
	if chat, ok := s.Chats.Active(); ok {
		chat.SetDraft(text)
	}
}

func (s *State) savePersonas() {
	if err := storage.Save(s.backend, storage.KeyPersonas, s.Personas); err != nil {
		s.log.Warn("persist personas failed", "error", err)
		return
	}
	s.personasDirty = false
}

func (s *State) saveChatIndex() {
	idx := chatIndex{ChatIDs: s.Chats.IDs()}
	if id, ok := s.Chats.ActiveID(); ok {
		idx.ActiveChat = &id
	}
	if err := storage.Save(s.backend, storage.KeyChats, idx); err != nil {
		s.log.Warn("persist chat index failed", "error", err)
		return
	}
	s.indexDirty = false
}

// saveChat writes one chat record. A record is only reachable through
// the index and only renderable through the persona registry, so any
// of those still holding unwritten boot defaults is flushed first.
func (s *State) saveChat(chat *models.Chat) {
	if s.personasDirty {
		s.savePersonas()
	}
	if s.indexDirty {
		s.saveChatIndex()
	}
	if err := storage.Save(s.backend, storage.ChatKey(chat.ID), chat); err != nil {
		s.log.Warn("persist chat failed", "id", chat.ID, "error", err)
	}
}
