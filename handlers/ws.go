package handlers

import (
	"encoding/json"
	"net/http"

	"fleetwatch/models"
	"fleetwatch/services/hub"
	"fleetwatch/services/registry"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboards are served from arbitrary origins in deployment.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler serves the persistent dashboard channel.
type WSHandler struct {
	Hub      *hub.Hub
	Registry *registry.Registry
}

// NewWSHandler creates the live channel handler.
func NewWSHandler(h *hub.Hub, reg *registry.Registry) *WSHandler {
	return &WSHandler{Hub: h, Registry: reg}
}

// Serve handles GET /ws: upgrades the connection, registers it with the
// hub, then loops over client commands until the connection drops.
func (h *WSHandler) Serve(c *gin.Context) {
	logger := getLogger(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := hub.NewClient(conn)
	h.Hub.Accept(client)
	go client.WritePump()

	h.Hub.BroadcastDeviceList()

	defer h.Hub.Close(client)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd models.ChannelCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			logger.Warn("invalid channel command", zap.Error(err))
			continue
		}

		switch cmd.Command {
		case models.CommandSubscribe:
			h.Hub.Subscribe(client, cmd.DeviceID)
			// Replay the latest cached telemetry so the dashboard does not
			// wait for the terminal's next report.
			if terminal, ok := h.Registry.Get(cmd.DeviceID); ok && terminal.LatestData != nil {
				h.Hub.Send(client, models.ESPDataMessage{
					Type:     models.MsgTypeESPData,
					DeviceID: cmd.DeviceID,
					Data:     terminal.LatestData.Data,
				})
			}
		case models.CommandUnsubscribe:
			h.Hub.Unsubscribe(client)
		}
	}
}
