package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type refresher interface {
	Refresh(ctx context.Context) int
}

// StartPoller launches a background goroutine that re-polls every settled
// device at a fixed cadence. A non-positive interval disables polling. It
// returns immediately and reports whether a poller was started.
func StartPoller(ctx context.Context, fleet refresher, interval time.Duration, log logrus.FieldLogger) bool {
	if interval <= 0 {
		log.Debug("periodic polling disabled")
		return false
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if n := fleet.Refresh(ctx); n > 0 {
				log.WithField("devices", n).Debug("poll tick")
			}
		}
	}()
	return true
}
