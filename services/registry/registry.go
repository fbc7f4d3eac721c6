// Package registry tracks field terminal liveness and their latest
// telemetry in memory. State is process-local and intentionally lost on
// restart.
package registry

import (
	"sync"
	"time"

	"fleetwatch/models"

	"go.uber.org/zap"
)

// Registry owns the in-memory terminal records. All access goes through
// its methods; callers receive copies so a snapshot can never observe a
// half-updated record.
type Registry struct {
	mu        sync.RWMutex
	terminals map[string]*models.Terminal
	logger    *zap.Logger
}

// New creates an empty registry.
func New(logger *zap.Logger) *Registry {
	return &Registry{
		terminals: make(map[string]*models.Terminal),
		logger:    logger,
	}
}

// RegisterOrTouch creates the terminal on first sight; on repeat calls it
// marks the terminal online and refreshes its connection time. Unknown
// terminal ids are implicitly valid.
func (r *Registry) RegisterOrTouch(id, name string) models.Terminal {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	t, ok := r.terminals[id]
	if !ok {
		if name == "" {
			name = models.DefaultTerminalName(id)
		}
		t = &models.Terminal{ID: id, Name: name}
		r.terminals[id] = t
		r.logger.Info("terminal registered", zap.String("terminalID", id), zap.String("name", name))
	}
	t.IsOnline = true
	t.ConnectedAt = &now
	return *t
}

// UpdateData replaces the terminal's latest telemetry, implicitly
// registering the terminal if unseen, and marks it online.
func (r *Registry) UpdateData(id string, data map[string]interface{}) models.Terminal {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	t, ok := r.terminals[id]
	if !ok {
		t = &models.Terminal{ID: id, Name: models.DefaultTerminalName(id)}
		t.ConnectedAt = &now
		r.terminals[id] = t
		r.logger.Info("terminal registered", zap.String("terminalID", id), zap.String("name", t.Name))
	}
	t.LatestData = &models.TerminalData{Timestamp: now, Data: data}
	t.LastSeen = &now
	t.IsOnline = true
	return *t
}

// Get returns a copy of the terminal record, if known.
func (r *Registry) Get(id string) (models.Terminal, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.terminals[id]
	if !ok {
		return models.Terminal{}, false
	}
	return *t, true
}

// SweepOffline flips terminals silent for longer than the window to
// offline and returns exactly the newly flipped ones. Terminals that were
// already offline are not re-returned.
func (r *Registry) SweepOffline(now time.Time, window time.Duration) []models.Terminal {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-window)
	var flipped []models.Terminal
	for _, t := range r.terminals {
		if !t.IsOnline || t.LastSeen == nil {
			continue
		}
		if t.LastSeen.Before(cutoff) {
			t.IsOnline = false
			flipped = append(flipped, *t)
			r.logger.Info("terminal marked offline", zap.String("terminalID", t.ID))
		}
	}
	return flipped
}

// Snapshot returns the aggregate fleet view. It is taken under the same
// lock as mutations, so the counts always agree with the per-terminal
// liveness flags.
func (r *Registry) Snapshot() models.FleetSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := models.FleetSnapshot{
		Devices: make(map[string]models.Terminal, len(r.terminals)),
	}
	for id, t := range r.terminals {
		snap.Devices[id] = *t
		snap.TotalDevices++
		if t.IsOnline {
			snap.OnlineDevices++
		}
	}
	snap.OfflineDevices = snap.TotalDevices - snap.OnlineDevices
	return snap
}
