package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fleetwatch/services/gate"
	"fleetwatch/services/hub"
	"fleetwatch/services/pairing"
	"fleetwatch/services/registry"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTelemetryRouter wires the ingest route against real in-process
// services. The repositories stay nil: payloads without a badge never
// reach them.
func newTelemetryRouter(reg *registry.Registry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	h := hub.New(reg, logger)
	p := pairing.NewService(reg, h, gate.New(false), nil, nil, nil, time.Minute, logger)

	r := gin.New()
	r.POST("/api/data/:deviceID", NewTelemetryHandler(p).ReceiveData)
	return r
}

func TestReceiveDataAcceptsTelemetryAndUpdatesRegistry(t *testing.T) {
	reg := registry.New(zap.NewNop())
	router := newTelemetryRouter(reg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/data/esp-1",
		strings.NewReader(`{"temp": 21.5, "humidity": 40}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	terminal, ok := reg.Get("esp-1")
	require.True(t, ok)
	assert.True(t, terminal.IsOnline)
	require.NotNil(t, terminal.LatestData)
	assert.Equal(t, 21.5, terminal.LatestData.Data["temp"])
}

func TestReceiveDataRejectsMalformedJSON(t *testing.T) {
	reg := registry.New(zap.NewNop())
	router := newTelemetryRouter(reg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/data/esp-1",
		strings.NewReader(`{"temp": `))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, ok := reg.Get("esp-1")
	assert.False(t, ok, "rejected payloads must not register the terminal")
}
