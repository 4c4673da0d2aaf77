package models

import "github.com/google/uuid"

// ChatRegistry is the insertion-ordered collection of chats plus the
// active-chat pointer. The pointer may be unset after the last chat is
// deleted; when set it always refers to an existing entry.
type ChatRegistry struct {
	order  []uuid.UUID
	byID   map[uuid.UUID]*Chat
	active uuid.UUID
	hasAct bool
}

// NewChatRegistry creates an empty registry.
func NewChatRegistry() *ChatRegistry {
	return &ChatRegistry{byID: make(map[uuid.UUID]*Chat)}
}

// CreateChat builds a new chat seeded with firstPersonaID, inserts it,
// makes it active, and returns its id.
func (r *ChatRegistry) CreateChat(firstPersonaID uuid.UUID) uuid.UUID {
	chat := NewChat(firstPersonaID)
	r.Insert(chat)
	r.active = chat.ID
	r.hasAct = true
	return chat.ID
}

// Insert appends an already-built chat without touching the active
// pointer. Used when rebuilding the registry from storage.
func (r *ChatRegistry) Insert(chat *Chat) {
	if _, ok := r.byID[chat.ID]; !ok {
		r.order = append(r.order, chat.ID)
	}
	r.byID[chat.ID] = chat
}

// Get returns the chat for id, if present.
func (r *ChatRegistry) Get(id uuid.UUID) (*Chat, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// SetActive switches the active chat. Unknown ids yield ErrNotFound so
// a stale UI action can be ignored instead of crashing.
func (r *ChatRegistry) SetActive(id uuid.UUID) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	r.active = id
	r.hasAct = true
	return nil
}

// Active returns the active chat, if one is selected.
func (r *ChatRegistry) Active() (*Chat, bool) {
	if !r.hasAct {
		return nil, false
	}
	return r.byID[r.active], true
}

// ActiveID returns the active chat id, if one is selected.
func (r *ChatRegistry) ActiveID() (uuid.UUID, bool) {
	return r.active, r.hasAct
}

// DeleteActive removes the active chat and clears the active pointer.
// It returns the removed id. Selecting a replacement is the caller's
// policy, not the registry's.
func (r *ChatRegistry) DeleteActive() (uuid.UUID, bool) {
	if !r.hasAct {
		return uuid.Nil, false
	}
	id := r.active
	delete(r.byID, id)
	for i, cid := range r.order {
		if cid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.active = uuid.Nil
	r.hasAct = false
	return id, true
}

// Count returns the number of chats.
func (r *ChatRegistry) Count() int { return len(r.order) }

// IDs returns the chat ids in insertion order.
func (r *ChatRegistry) IDs() []uuid.UUID {
	out := make([]uuid.UUID, len(r.order))
	copy(out, r.order)
	return out
}

// All returns the chats in insertion order.
func (r *ChatRegistry) All() []*Chat {
	out := make([]*Chat, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
