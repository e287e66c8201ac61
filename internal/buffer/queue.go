// Package buffer decouples a fast producer from a slow consumer.
package buffer

import (
	"github.com/drake/afdc/logger"
)

// Queue returns a FIFO pipe between a producer and a consumer. Up to
// highWater items wait in a growing slice; past that, sends on in block
// until the consumer catches up. Nothing is ever dropped. Closing in
// delivers what is still queued and then closes out.
//
//	in, out := buffer.Queue[tea.Msg](100, 50000)
//	in <- msg
//	next := <-out
func Queue[T any](initialCap, highWater int) (chan<- T, <-chan T) {
	if highWater < 1 {
		highWater = 1
	}
	in := make(chan T)
	out := make(chan T)
	go relay(in, out, initialCap, highWater)
	return in, out
}

func relay[T any](in <-chan T, out chan<- T, initialCap, highWater int) {
	defer close(out)

	pending := make([]T, 0, initialCap)
	src := in
	stalled := false

	for src != nil || len(pending) > 0 {
		// Only offer the head when there is one.
		var dst chan<- T
		var head T
		if len(pending) > 0 {
			dst = out
			head = pending[0]
		}

		// Stop receiving at the high-water mark; producers wait on in.
		recv := src
		if len(pending) >= highWater {
			recv = nil
			if !stalled {
				stalled = true
				logger.Warn("queue full, producers waiting", "pending", len(pending))
			}
		} else if stalled {
			stalled = false
			logger.Debug("queue accepting again", "pending", len(pending))
		}

		select {
		case v, ok := <-recv:
			if !ok {
				src = nil
				continue
			}
			pending = append(pending, v)

		case dst <- head:
			var zero T
			pending[0] = zero
			pending = pending[1:]
		}
	}
}
