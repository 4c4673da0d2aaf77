package models

import (
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
)

// Direction selects which neighbour CycleActivePersona moves to.
type Direction int

const (
	Next Direction = iota
	Prev
)

// Chat is one named conversation: its message log, the subset of
// personas added to it, and the persona currently composing. Draft is
// composition-in-progress text and is never persisted.
type Chat struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	Messages        MessageLog  `json:"messages"`
	AddedPersonaIDs []uuid.UUID `json:"added_persona_ids"`
	ActivePersonaID uuid.UUID   `json:"active_persona_id"`
	Draft           string      `json:"-"`
}

// NewChat creates a chat seeded with one persona, which becomes the
// active one. The name defaults to the local date.
func NewChat(firstPersonaID uuid.UUID) *Chat {
	return &Chat{
		ID:              uuid.New(),
		Name:            time.Now().Format("Mon, Jan 02, 2006"),
		AddedPersonaIDs: []uuid.UUID{firstPersonaID},
		ActivePersonaID: firstPersonaID,
	}
}

// Send appends the draft as a new message from the active persona and
// clears the draft. An empty draft is a no-op returning false; callers
// are expected to guard, but a direct call never half-applies.
func (c *Chat) Send() (Message, bool) {
	if c.Draft == "" {
		return Message{}, false
	}
	msg := Message{
		ID:       uuid.New(),
		Text:     c.Draft,
		SenderID: c.ActivePersonaID,
	}
	c.Messages.Append(msg)
	c.Draft = ""
	return msg, true
}

// AddPersona makes id the active persona and adds it to the chat's
// persona set. It reports whether the id was newly added. The active
// switch happens even when the persona was already present.
func (c *Chat) AddPersona(id uuid.UUID) bool {
	c.ActivePersonaID = id
	for _, pid := range c.AddedPersonaIDs {
		if pid == id {
			return false
		}
	}
	c.AddedPersonaIDs = append(c.AddedPersonaIDs, id)
	return true
}

// CycleActivePersona moves the active persona to its next or previous
// neighbour in insertion order, wrapping at both ends, and returns the
// new active id.
func (c *Chat) CycleActivePersona(dir Direction) uuid.UUID {
	n := len(c.AddedPersonaIDs)
	if n == 0 {
		return c.ActivePersonaID
	}
	i := 0
	for j, pid := range c.AddedPersonaIDs {
		if pid == c.ActivePersonaID {
			i = j
			break
		}
	}
	switch dir {
	case Next:
		i = (i + 1) % n
	case Prev:
		i = (i - 1 + n) % n
	}
	c.ActivePersonaID = c.AddedPersonaIDs[i]
	return c.ActivePersonaID
}

// Rename replaces the chat's name.
func (c *Chat) Rename(newName string) {
	c.Name = newName
}

// SetDraft replaces the in-progress draft text.
func (c *Chat) SetDraft(s string) {
	c.Draft = s
}

// FilterValue implements list.Item for the chat sidebar.
func (c *Chat) FilterValue() string { return c.Name }

// Title implements list.Item for the chat sidebar.
func (c *Chat) Title() string { return c.Name }

// Description implements list.Item for the chat sidebar.
func (c *Chat) Description() string {
	last, ok := c.Messages.Last()
	if !ok {
		return "No messages yet"
	}
	return runewidth.Truncate(last.Text, 50, "...")
}

var _ list.Item = (*Chat)(nil)
