package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fleetwatch/services/registry"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDeviceRouter(reg *registry.Registry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDeviceHandler(reg)
	r := gin.New()
	r.GET("/api/devices", h.ListDevices)
	r.GET("/api/devices/:deviceID", h.GetDevice)
	return r
}

func TestListDevicesReturnsSnapshot(t *testing.T) {
	reg := registry.New(zap.NewNop())
	reg.UpdateData("esp-1", map[string]interface{}{"temp": 20.0})
	reg.UpdateData("esp-2", map[string]interface{}{})
	reg.SweepOffline(time.Now().Add(time.Hour), 10*time.Minute)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/devices", nil)
	newDeviceRouter(reg).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		TotalDevices   int                    `json:"total_devices"`
		OnlineDevices  int                    `json:"online_devices"`
		OfflineDevices int                    `json:"offline_devices"`
		Devices        map[string]interface{} `json:"devices"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.TotalDevices)
	assert.Equal(t, 0, body.OnlineDevices)
	assert.Equal(t, 2, body.OfflineDevices)
	assert.Contains(t, body.Devices, "esp-1")
}

func TestGetDeviceReportsStatus(t *testing.T) {
	reg := registry.New(zap.NewNop())
	reg.UpdateData("esp-1", map[string]interface{}{})
	router := newDeviceRouter(reg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/devices/esp-1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "online", body["status"])
	assert.NotNil(t, body["device"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/devices/ghost", nil))
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body["status"])
}
