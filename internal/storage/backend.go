// Package storage persists application state as JSON records in a
// key-value backend. One record holds the persona registry, one the
// chat index, and each chat gets its own record so sending a message
// rewrites a single chat, not the whole chat list.
package storage

// Backend is the injected key-value store. Implementations do not
// interpret values; the bridge owns serialization.
type Backend interface {
	// Get returns the value stored under key, and whether the key exists.
	Get(key string) ([]byte, bool, error)
	// Set overwrites the value stored under key. Last writer wins.
	Set(key string, value []byte) error
	// Delete removes the key. Deleting a missing key is not an error.
	Delete(key string) error
	Close() error
}

// MemoryBackend is a map-backed Backend for tests and ephemeral runs.
type MemoryBackend struct {
	values map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

func (m *MemoryBackend) Get(key string) ([]byte, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(key string, value []byte) error {
	buf := make([]byte, len(value))
	copy(buf, value)
	m.values[key] = buf
	return nil
}

func (m *MemoryBackend) Delete(key string) error {
	delete(m.values, key)
	return nil
}

func (m *MemoryBackend) Close() error { return nil }
