package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRegistry() *Registry {
	return New(zap.NewNop())
}

func TestUpdateDataMarksOnlineAndAdvancesLastSeen(t *testing.T) {
	reg := newTestRegistry()

	first := reg.UpdateData("esp-001", map[string]interface{}{"temp": 21.5})
	require.True(t, first.IsOnline)
	require.NotNil(t, first.LastSeen)
	require.NotNil(t, first.LatestData)
	assert.Equal(t, 21.5, first.LatestData.Data["temp"])

	second := reg.UpdateData("esp-001", map[string]interface{}{"temp": 22.0})
	require.NotNil(t, second.LastSeen)
	assert.True(t, second.IsOnline)
	assert.False(t, second.LastSeen.Before(*first.LastSeen), "lastSeen must be monotonically non-decreasing")
	assert.Equal(t, 22.0, second.LatestData.Data["temp"], "latest_data is replaced wholesale")
	assert.NotContains(t, second.LatestData.Data, "old")
}

func TestUpdateDataImplicitlyRegisters(t *testing.T) {
	reg := newTestRegistry()

	terminal := reg.UpdateData("warehouse-42", map[string]interface{}{})
	assert.Equal(t, "ESP32-use-42", terminal.Name)

	got, ok := reg.Get("warehouse-42")
	require.True(t, ok)
	assert.Equal(t, terminal.ID, got.ID)
}

func TestRegisterOrTouchKeepsExistingName(t *testing.T) {
	reg := newTestRegistry()

	created := reg.RegisterOrTouch("esp-7", "Dock A")
	assert.Equal(t, "Dock A", created.Name)
	assert.NotNil(t, created.ConnectedAt)

	touched := reg.RegisterOrTouch("esp-7", "ignored")
	assert.Equal(t, "Dock A", touched.Name)
	assert.True(t, touched.IsOnline)
}

func TestSweepOfflineFlipsExactlyOnce(t *testing.T) {
	reg := newTestRegistry()
	reg.UpdateData("stale", map[string]interface{}{})
	reg.UpdateData("fresh", map[string]interface{}{})

	future := time.Now().Add(15 * time.Minute)

	flipped := reg.SweepOffline(future, 10*time.Minute)
	require.Len(t, flipped, 2)

	// A second sweep must not re-report already-offline terminals.
	again := reg.SweepOffline(future.Add(time.Minute), 10*time.Minute)
	assert.Empty(t, again)

	got, ok := reg.Get("stale")
	require.True(t, ok)
	assert.False(t, got.IsOnline)
}

func TestSweepOfflineSparesRecentTerminals(t *testing.T) {
	reg := newTestRegistry()
	reg.UpdateData("esp-1", map[string]interface{}{})

	flipped := reg.SweepOffline(time.Now(), 10*time.Minute)
	assert.Empty(t, flipped)

	got, _ := reg.Get("esp-1")
	assert.True(t, got.IsOnline)
}

func TestSnapshotCountsAgreeWithFlags(t *testing.T) {
	reg := newTestRegistry()
	reg.UpdateData("a", map[string]interface{}{})
	reg.UpdateData("b", map[string]interface{}{})
	reg.UpdateData("c", map[string]interface{}{})

	reg.SweepOffline(time.Now().Add(time.Hour), 10*time.Minute)
	reg.UpdateData("a", map[string]interface{}{})

	snap := reg.Snapshot()
	assert.Equal(t, 3, snap.TotalDevices)
	assert.Equal(t, 1, snap.OnlineDevices)
	assert.Equal(t, 2, snap.OfflineDevices)

	online := 0
	for _, d := range snap.Devices {
		if d.IsOnline {
			online++
		}
	}
	assert.Equal(t, snap.OnlineDevices, online)
}
