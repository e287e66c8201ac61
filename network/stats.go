package network

import "time"

// Stats holds per-connection traffic counters.
type Stats struct {
	Address      string
	BytesRead    uint64
	BytesWritten uint64
	LinesEmitted uint64
	LastReadTime time.Time
}
