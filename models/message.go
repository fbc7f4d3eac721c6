// models/message.go
package models

// Server-to-client message types on the live channel.
const (
	MsgTypeDeviceList         = "device_list"
	MsgTypeESPData            = "esp32_data"
	MsgTypeRegistrationStatus = "registration_status"
	MsgTypeDeviceStatus       = "device_status_update"
)

// Client-to-server commands on the live channel.
const (
	CommandSubscribe   = "subscribe"
	CommandUnsubscribe = "unsubscribe"
)

// ChannelCommand is a client request on the live channel.
type ChannelCommand struct {
	Command  string `json:"command"`
	DeviceID string `json:"device_id,omitempty"`
}

// ESPDataMessage carries a terminal's raw telemetry to its subscribers.
type ESPDataMessage struct {
	Type     string                 `json:"type"`
	DeviceID string                 `json:"device_id"`
	Data     map[string]interface{} `json:"data"`
}

// DeviceListMessage carries the fleet snapshot to every connection.
type DeviceListMessage struct {
	Type string        `json:"type"`
	Data FleetSnapshot `json:"data"`
}

// RegistrationStatusMessage carries a human-readable pairing status to
// subscribers of one terminal.
type RegistrationStatusMessage struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DeviceStatusMessage notifies all connections about liveness changes.
type DeviceStatusMessage struct {
	Type string        `json:"type"`
	Data FleetSnapshot `json:"data"`
}
