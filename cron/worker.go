package cron

import (
	"context"
	"sync"
	"time"

	"fleetwatch/models"
	"fleetwatch/services/hub"
	"fleetwatch/services/registry"

	"go.uber.org/zap"
)

// StartDeviceSweeper runs the periodic offline sweep until the context is
// cancelled. Terminals silent for longer than the window are flipped
// offline and every dashboard connection is notified. A failure inside
// one tick is logged and the sweep resumes on the next.
func StartDeviceSweeper(
	ctx context.Context,
	wg *sync.WaitGroup,
	reg *registry.Registry,
	h *hub.Hub,
	interval time.Duration,
	window time.Duration,
	logger *zap.Logger,
) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logger.Info("device sweeper started",
			zap.Duration("interval", interval),
			zap.Duration("window", window))

		for {
			select {
			case <-ctx.Done():
				logger.Info("device sweeper stopped")
				return
			case now := <-ticker.C:
				sweep(reg, h, now, window, logger)
			}
		}
	}()
}

func sweep(reg *registry.Registry, h *hub.Hub, now time.Time, window time.Duration, logger *zap.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic in device sweep", zap.Any("error", r))
		}
	}()

	flipped := reg.SweepOffline(now, window)
	if len(flipped) == 0 {
		return
	}

	logger.Info("terminals went offline", zap.Int("count", len(flipped)))
	h.BroadcastAll(models.DeviceStatusMessage{
		Type: models.MsgTypeDeviceStatus,
		Data: reg.Snapshot(),
	})
}
