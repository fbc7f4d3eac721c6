// models/terminal.go
package models

import (
	"fmt"
	"time"
)

// TerminalData is the latest telemetry payload reported by a terminal,
// replaced wholesale on every update.
type TerminalData struct {
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Terminal is the in-memory record of one ESP32 field terminal.
// It lives in the device registry for the lifetime of the process and is
// never deleted, only marked offline.
type Terminal struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	LatestData  *TerminalData `json:"latest_data"`
	ConnectedAt *time.Time    `json:"connected_at"`
	LastSeen    *time.Time    `json:"last_seen"`
	IsOnline    bool          `json:"is_online"`
}

// DefaultTerminalName derives a display name from the terminal id when
// none was supplied at registration.
func DefaultTerminalName(id string) string {
	suffix := id
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return fmt.Sprintf("ESP32-%s", suffix)
}

// FleetSnapshot is the aggregate view of the registry pushed to dashboards.
type FleetSnapshot struct {
	TotalDevices   int                 `json:"total_devices"`
	OnlineDevices  int                 `json:"online_devices"`
	OfflineDevices int                 `json:"offline_devices"`
	Devices        map[string]Terminal `json:"devices"`
}
