package session

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/drake/afdc/logger"
	"github.com/drake/afdc/network"
)

// monitorInterval is how often transport counters are logged at debug level.
const monitorInterval = 30 * time.Second

// monitor periodically logs the connection's counters until ctx is
// canceled or stop is closed.
func monitor(ctx context.Context, conn *network.Connection, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Debug("monitor started", "address", conn.Address())
	for {
		select {
		case <-ctx.Done():
			logger.Debug("monitor stopped")
			return
		case <-stop:
			logger.Debug("monitor stopped")
			return
		case <-ticker.C:
			args := append(statsArgs(conn.Stats()), "goroutines", runtime.NumGoroutine())
			logger.Debug("transport stats", args...)
		}
	}
}

func statsArgs(st network.Stats) []any {
	lastRead := "never"
	if !st.LastReadTime.IsZero() {
		lastRead = fmt.Sprintf("%v ago", time.Since(st.LastReadTime).Round(time.Second))
	}
	return []any{
		"address", st.Address,
		"bytes_read", st.BytesRead,
		"bytes_written", st.BytesWritten,
		"lines", st.LinesEmitted,
		"last_read", lastRead,
	}
}
