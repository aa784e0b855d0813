package interview

import (
	"errors"
	"sync"
)

// ErrRoomNotFound is returned when no session exists for a room id.
var ErrRoomNotFound = errors.New("room session not found")

// Store is the registry of live sessions keyed by room id. Lookups on
// missing rooms fail explicitly; they never hand back an empty session.
// Sessions are kept for the process lifetime.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*Session
}

// NewStore creates an empty session registry.
func NewStore() *Store {
	return &Store{rooms: make(map[string]*Session)}
}

// Create registers a new session for the room and returns it. Creating a
// session for a room that already exists replaces the old one — restart
// semantics, not an error.
func (s *Store) Create(roomID, candidateName string, questions []Question) *Session {
	sess := NewSession(roomID, candidateName, questions)
	s.mu.Lock()
	s.rooms[roomID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the live session for a room, or ErrRoomNotFound.
func (s *Store) Get(roomID string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.rooms[roomID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrRoomNotFound
	}
	return sess, nil
}

// Rooms returns the ids of all registered rooms.
func (s *Store) Rooms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of registered rooms.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
