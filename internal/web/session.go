package web

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/indiesemi/gate2jira/internal/jira"
)

// SessionTTL is how long a connected browser session stays usable.
const SessionTTL = 30 * time.Minute

// Session is what /connect learned, kept until the import runs: the
// verified credentials and the uploaded workbook.
type Session struct {
	ID       string
	Creds    jira.Credentials
	User     *jira.User
	FileName string
	Workbook []byte
	Gates    []string
	Projects []jira.Project
	Expires  time.Time
}

// SessionStore holds sessions in memory, keyed by a random id.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates an empty store whose sessions live for ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Put stores s under a new id and returns the id.
func (st *SessionStore) Put(s *Session) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	s.ID = uuid.NewString()
	s.Expires = st.now().Add(st.ttl)
	st.sessions[s.ID] = s
	return s.ID
}

// Get returns the live session with id.
func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	if st.now().After(s.Expires) {
		delete(st.sessions, id)
		return nil, false
	}
	return s, true
}

// Delete forgets a session.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Cleanup drops expired sessions and returns how many were removed.
func (st *SessionStore) Cleanup() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := st.now()
	n := 0
	for id, s := range st.sessions {
		if now.After(s.Expires) {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
