package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Message is one sent chat message. SenderID is a weak reference into
// the persona registry: readers must tolerate an id that no longer
// resolves by skipping the message, never by failing.
type Message struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	SenderID uuid.UUID `json:"sender_id"`
}

// MessageLog is the append-only, send-ordered message sequence owned
// by one chat.
type MessageLog struct {
	msgs []Message
}

// Append adds a message at the end of the log.
func (l *MessageLog) Append(m Message) {
	l.msgs = append(l.msgs, m)
}

// Len returns the number of messages.
func (l *MessageLog) Len() int { return len(l.msgs) }

// All returns the messages in send order. The returned slice is the
// log's backing storage; callers must not mutate it.
func (l *MessageLog) All() []Message { return l.msgs }

// Last returns the most recent message, if any.
func (l *MessageLog) Last() (Message, bool) {
	if len(l.msgs) == 0 {
		return Message{}, false
	}
	return l.msgs[len(l.msgs)-1], true
}

// Get returns the message with the given id.
func (l *MessageLog) Get(id uuid.UUID) (Message, bool) {
	for _, m := range l.msgs {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}

// MarshalJSON encodes the log as a message array.
func (l MessageLog) MarshalJSON() ([]byte, error) {
	if l.msgs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.msgs)
}

// UnmarshalJSON decodes a message array.
func (l *MessageLog) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &l.msgs)
}

// UpdateContent rewrites the text of the message with the given id.
func (l *MessageLog) UpdateContent(id uuid.UUID, f func(text string) string) error {
	for i := range l.msgs {
		if l.msgs[i].ID == id {
			l.msgs[i].Text = f(l.msgs[i].Text)
			return nil
		}
	}
	return ErrNotFound
}

// UpdateSender reassigns the message with the given id to another sender.
func (l *MessageLog) UpdateSender(id, senderID uuid.UUID) error {
	for i := range l.msgs {
		if l.msgs[i].ID == id {
			l.msgs[i].SenderID = senderID
			return nil
		}
	}
	return ErrNotFound
}
