package paletteservice

import (
	"sync"

	"github.com/google/uuid"

	palettedomain "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain"
)

// sessionStore owns every live session. Each session is mutated only while
// the store lock is held.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*palettedomain.Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: map[string]*palettedomain.Session{}}
}

// create registers a session and runs fn on it before it becomes visible.
func (st *sessionStore) create(controls palettedomain.Controls, fn func(*palettedomain.Session) error) (string, *SessionView, error) {
	session := palettedomain.NewSession(controls)
	if err := fn(session); err != nil {
		return "", nil, err
	}

	id := uuid.NewString()
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[id] = session
	return id, newSessionView(id, session), nil
}

// with runs fn on the session under the store lock and returns its resulting view.
func (st *sessionStore) with(id string, fn func(*palettedomain.Session) error) (*SessionView, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	session, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	return newSessionView(id, session), nil
}

func (st *sessionStore) remove(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
