package pairing

import (
	"testing"
	"time"

	"fleetwatch/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionExpiresLazily(t *testing.T) {
	store := newSessionStore(60 * time.Second)
	current := time.Now()
	store.now = func() time.Time { return current }

	store.startOrReplace("esp-1", models.Employee{ID: "e1", FirstName: "Anna"})

	_, ok := store.get("esp-1")
	require.True(t, ok)

	// Just past the timeout the session reads as absent and is purged.
	current = current.Add(61 * time.Second)
	_, ok = store.get("esp-1")
	assert.False(t, ok)
	assert.NotContains(t, store.sessions, "esp-1", "stale session must be purged by the read")
}

func TestTouchExtendsSession(t *testing.T) {
	store := newSessionStore(60 * time.Second)
	current := time.Now()
	store.now = func() time.Time { return current }

	store.startOrReplace("esp-1", models.Employee{ID: "e1"})

	current = current.Add(50 * time.Second)
	store.touch("esp-1")

	current = current.Add(50 * time.Second)
	emp, ok := store.get("esp-1")
	require.True(t, ok, "touch must reset the timer")
	assert.Equal(t, "e1", emp.ID)
}

func TestStartOrReplaceSwapsEmployee(t *testing.T) {
	store := newSessionStore(60 * time.Second)
	store.startOrReplace("esp-1", models.Employee{ID: "e1"})
	store.startOrReplace("esp-1", models.Employee{ID: "e2"})

	emp, ok := store.get("esp-1")
	require.True(t, ok)
	assert.Equal(t, "e2", emp.ID)
}

func TestEndReportsWhetherSessionWasActive(t *testing.T) {
	store := newSessionStore(60 * time.Second)
	current := time.Now()
	store.now = func() time.Time { return current }

	assert.False(t, store.end("esp-1"))

	store.startOrReplace("esp-1", models.Employee{ID: "e1"})
	assert.True(t, store.end("esp-1"))
	assert.False(t, store.end("esp-1"))

	// An expired session counts as absent.
	store.startOrReplace("esp-1", models.Employee{ID: "e1"})
	current = current.Add(2 * time.Minute)
	assert.False(t, store.end("esp-1"))
}
