// Package gate holds, per terminal, the set of dashboard users currently
// allowed to approve equipment assignments there.
package gate

import "sync"

// Watcher answers whether a terminal currently has a live subscriber.
// The connection hub satisfies this.
type Watcher interface {
	HasSubscriber(terminalID string) bool
}

// Gate is the per-terminal authorization set. A terminal with an empty
// set is removed entirely.
type Gate struct {
	mu     sync.RWMutex
	grants map[string]map[string]struct{} // terminal id -> user ids

	// allowWithoutLogin is the operational escape hatch: when set, the
	// authorization predicate always passes.
	allowWithoutLogin bool
}

// New creates an empty gate.
func New(allowWithoutLogin bool) *Gate {
	return &Gate{
		grants:            make(map[string]map[string]struct{}),
		allowWithoutLogin: allowWithoutLogin,
	}
}

// Grant adds userID to the terminal's set, creating the set if absent.
func (g *Gate) Grant(terminalID, userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	users, ok := g.grants[terminalID]
	if !ok {
		users = make(map[string]struct{})
		g.grants[terminalID] = users
	}
	users[userID] = struct{}{}
}

// Revoke removes userID from the terminal's set, deleting the terminal
// entry when it becomes empty.
func (g *Gate) Revoke(terminalID, userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	users, ok := g.grants[terminalID]
	if !ok {
		return
	}
	delete(users, userID)
	if len(users) == 0 {
		delete(g.grants, terminalID)
	}
}

// RevokeAllForUser removes userID from every terminal's set. Used on
// logout and session teardown.
func (g *Gate) RevokeAllForUser(userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for terminalID, users := range g.grants {
		delete(users, userID)
		if len(users) == 0 {
			delete(g.grants, terminalID)
		}
	}
}

// IsAuthorizedAndWatched reports whether the terminal has at least one
// granted user AND at least one live subscriber. Both are required;
// neither alone is sufficient. Under the escape-hatch configuration the
// predicate always passes.
func (g *Gate) IsAuthorizedAndWatched(terminalID string, watcher Watcher) bool {
	if g.allowWithoutLogin {
		return true
	}

	g.mu.RLock()
	users, ok := g.grants[terminalID]
	granted := ok && len(users) > 0
	g.mu.RUnlock()

	if !granted {
		return false
	}
	return watcher.HasSubscriber(terminalID)
}
