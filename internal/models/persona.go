package models

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"antar/internal/colour"
)

// ErrNotFound is returned when an id is absent from a registry.
var ErrNotFound = errors.New("models: id not found")

// Persona is a named, coloured identity the user can compose messages as.
type Persona struct {
	ID     uuid.UUID     `json:"id"`
	Name   string        `json:"name"`
	Colour colour.Colour `json:"colour"`
}

// PersonaRegistry is the insertion-ordered collection of all personas.
// The first entry is the default "self" persona. Personas are never
// removed.
type PersonaRegistry struct {
	order []uuid.UUID
	byID  map[uuid.UUID]Persona
}

// NewPersonaRegistry creates a registry seeded with one persona. The
// seed's ID is ignored; a fresh one is generated.
func NewPersonaRegistry(seed Persona) *PersonaRegistry {
	r := &PersonaRegistry{byID: make(map[uuid.UUID]Persona)}
	r.Add(seed.Name, seed.Colour)
	return r
}

// Add appends a persona with a fresh id and returns the id. Names are
// not validated; the empty string is allowed.
func (r *PersonaRegistry) Add(name string, c colour.Colour) uuid.UUID {
	id := uuid.New()
	r.order = append(r.order, id)
	r.byID[id] = Persona{ID: id, Name: name, Colour: c}
	return id
}

// Get returns the persona for id, if present.
func (r *PersonaRegistry) Get(id uuid.UUID) (Persona, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// IndexOf returns the insertion index of id, or -1 when absent.
func (r *PersonaRegistry) IndexOf(id uuid.UUID) int {
	for i, pid := range r.order {
		if pid == id {
			return i
		}
	}
	return -1
}

// AtIndex returns the persona at insertion index i.
func (r *PersonaRegistry) AtIndex(i int) (Persona, bool) {
	if i < 0 || i >= len(r.order) {
		return Persona{}, false
	}
	return r.byID[r.order[i]], true
}

// Count returns the number of personas.
func (r *PersonaRegistry) Count() int { return len(r.order) }

// All returns the personas in insertion order.
func (r *PersonaRegistry) All() []Persona {
	out := make([]Persona, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// MarshalJSON encodes the registry as an ordered persona list.
func (r *PersonaRegistry) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.All())
}

// UnmarshalJSON decodes an ordered persona list, preserving order and
// the stored ids.
func (r *PersonaRegistry) UnmarshalJSON(data []byte) error {
	var personas []Persona
	if err := json.Unmarshal(data, &personas); err != nil {
		return err
	}
	r.order = make([]uuid.UUID, 0, len(personas))
	r.byID = make(map[uuid.UUID]Persona, len(personas))
	for _, p := range personas {
		r.order = append(r.order, p.ID)
		r.byID[p.ID] = p
	}
	return nil
}
