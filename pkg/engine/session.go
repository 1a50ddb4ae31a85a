package engine

import (
	"sync"
)

// Session is the mutable per-session state. EscalationStage stays in [1,5],
// WrongCount never goes below 0, TrustScore is deliberately unclamped.
type Session struct {
	CharacterID     string
	WrongCount      int
	EscalationStage int
	TrustScore      int
}

func newSession(characterID string) Session {
	return Session{CharacterID: characterID, EscalationStage: 1}
}

type sessionEntry struct {
	mu sync.Mutex
	s  Session
}

// Store owns all session lifecycle. Each session has its own mutex so a
// read-modify-write for one session never blocks unrelated sessions; the
// store-level mutex only guards the map itself.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*sessionEntry)}
}

// Update runs fn as an atomic read-modify-write on the session, creating it
// on first touch. Rebinding an existing session to a different character
// discards the old counters entirely; playthroughs sharing a session id are
// isolated from each other. Returns a snapshot taken after fn ran.
func (st *Store) Update(sessionID, characterID string, fn func(*Session)) Session {
	st.mu.Lock()
	e, ok := st.sessions[sessionID]
	if !ok {
		e = &sessionEntry{s: newSession(characterID)}
		st.sessions[sessionID] = e
	}
	st.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.s.CharacterID != characterID {
		e.s = newSession(characterID)
	}
	if fn != nil {
		fn(&e.s)
	}
	return e.s
}

// Get returns a snapshot of the session without creating it.
func (st *Store) Get(sessionID string) (Session, bool) {
	st.mu.Lock()
	e, ok := st.sessions[sessionID]
	st.mu.Unlock()
	if !ok {
		return Session{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.s, true
}

// Reset removes the session and reports whether it existed. Idempotent.
func (st *Store) Reset(sessionID string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[sessionID]
	delete(st.sessions, sessionID)
	return ok
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
