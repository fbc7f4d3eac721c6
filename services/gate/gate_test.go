package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubWatcher struct {
	watched map[string]bool
}

func (s stubWatcher) HasSubscriber(terminalID string) bool {
	return s.watched[terminalID]
}

func TestPredicateIsConjunctive(t *testing.T) {
	g := New(false)
	watching := stubWatcher{watched: map[string]bool{"esp-1": true}}
	notWatching := stubWatcher{watched: map[string]bool{}}

	// Neither grant nor watcher.
	assert.False(t, g.IsAuthorizedAndWatched("esp-1", notWatching))

	// Watcher alone is not enough.
	assert.False(t, g.IsAuthorizedAndWatched("esp-1", watching))

	// Grant alone is not enough.
	g.Grant("esp-1", "user-1")
	assert.False(t, g.IsAuthorizedAndWatched("esp-1", notWatching))

	// Both together pass.
	assert.True(t, g.IsAuthorizedAndWatched("esp-1", watching))
}

func TestEscapeHatchAlwaysPasses(t *testing.T) {
	g := New(true)
	assert.True(t, g.IsAuthorizedAndWatched("anything", stubWatcher{}))
}

func TestRevokeRemovesEmptyTerminalEntry(t *testing.T) {
	g := New(false)
	g.Grant("esp-1", "user-1")
	g.Grant("esp-1", "user-2")

	g.Revoke("esp-1", "user-1")
	assert.Contains(t, g.grants, "esp-1")

	g.Revoke("esp-1", "user-2")
	assert.NotContains(t, g.grants, "esp-1", "empty grant sets must be deleted")

	// Revoking on an unknown terminal is a no-op.
	g.Revoke("esp-9", "user-1")
}

func TestRevokeAllForUser(t *testing.T) {
	g := New(false)
	g.Grant("esp-1", "user-1")
	g.Grant("esp-2", "user-1")
	g.Grant("esp-2", "user-2")

	g.RevokeAllForUser("user-1")

	assert.NotContains(t, g.grants, "esp-1")
	assert.Contains(t, g.grants, "esp-2")

	watching := stubWatcher{watched: map[string]bool{"esp-2": true}}
	assert.True(t, g.IsAuthorizedAndWatched("esp-2", watching))
}
