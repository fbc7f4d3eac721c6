package pairing

import (
	"sync"
	"time"

	"fleetwatch/models"
)

// session records which employee is currently "present" at a terminal,
// awaiting equipment taps.
type session struct {
	employee  models.Employee
	startedAt time.Time
}

// sessionStore keeps at most one registration session per terminal.
// Expiry is lazy: a stale session is purged by the read that finds it,
// under the store lock, so the check and the purge are atomic.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	timeout  time.Duration

	// now is swapped out in tests.
	now func() time.Time
}

func newSessionStore(timeout time.Duration) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*session),
		timeout:  timeout,
		now:      time.Now,
	}
}

// startOrReplace begins a session for the employee at the terminal,
// replacing any previous one and resetting the timer.
func (s *sessionStore) startOrReplace(terminalID string, employee models.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[terminalID] = &session{employee: employee, startedAt: s.now()}
}

// get returns the active session's employee, purging the session first if
// it has exceeded the timeout.
func (s *sessionStore) get(terminalID string) (models.Employee, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[terminalID]
	if !ok {
		return models.Employee{}, false
	}
	if s.now().Sub(sess.startedAt) > s.timeout {
		delete(s.sessions, terminalID)
		return models.Employee{}, false
	}
	return sess.employee, true
}

// touch resets the session timer without changing the employee.
func (s *sessionStore) touch(terminalID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[terminalID]; ok {
		sess.startedAt = s.now()
	}
}

// end removes the session, reporting whether one was active. A stale
// session counts as absent.
func (s *sessionStore) end(terminalID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[terminalID]
	if !ok {
		return false
	}
	delete(s.sessions, terminalID)
	if s.now().Sub(sess.startedAt) > s.timeout {
		return false
	}
	return true
}
