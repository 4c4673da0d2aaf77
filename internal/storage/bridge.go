package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Storage keys. Chat records are sharded per id so appending a message
// rewrites one chat, never the whole list.
const (
	KeyPersonas = "personas"
	KeyChats    = "chats"

	chatKeyPrefix = "chat_"
)

// ChatKey returns the record key for a single chat.
func ChatKey(id uuid.UUID) string {
	return chatKeyPrefix + id.String()
}

// Load decodes the value stored under key. A missing key, a backend
// error, or a decode failure all fall back to buildDefault; the
// default is NOT written back — the first explicit Save persists it.
func Load[T any](b Backend, key string, buildDefault func() T) T {
	data, ok, err := b.Get(key)
	if err != nil {
		slog.Warn("storage read failed, using default", "key", key, "error", err)
		return buildDefault()
	}
	if !ok {
		return buildDefault()
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		slog.Warn("storage record undecodable, using default", "key", key, "error", err)
		return buildDefault()
	}
	return v
}

// Save encodes v and overwrites the record under key unconditionally.
func Save[T any](b Backend, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := b.Set(key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
