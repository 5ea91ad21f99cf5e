// Package capture controls the background capture worker.
//
// Request handlers push Start/Stop signals onto a one-way queue; the
// worker is the only consumer and handles signals in arrival order.
// Delivery is fire-and-forget: there is no acknowledgment, and a send
// that cannot be queued is logged and lost.
package capture

import "savebridge/internal/logx"

// Op distinguishes the two capture signals.
type Op int

const (
	// Start begins capturing the named target.
	Start Op = iota
	// Stop ends the current capture, if any.
	Stop
)

// Signal is one control message for the worker. Target is set only for
// Start.
type Signal struct {
	Op     Op
	Target string
}

// Channel is the multi-producer/single-consumer queue between request
// handlers and the worker. The sender side is shared by every concurrent
// dispatch; the receiver belongs to the worker for its whole lifetime.
type Channel struct {
	ch chan Signal
}

// NewChannel creates a signal queue with the given capacity.
func NewChannel(size int) *Channel {
	if size <= 0 {
		size = 16
	}
	return &Channel{ch: make(chan Signal, size)}
}

// Send enqueues a signal without blocking. When the queue is full (the
// worker is dead or wedged) the signal is dropped with a warning; the
// caller's dispatch completes regardless.
func (c *Channel) Send(sig Signal) {
	select {
	case c.ch <- sig:
	default:
		logx.Log.Warn().Int("op", int(sig.Op)).Str("target", sig.Target).Msg("capture queue full, dropping signal")
	}
}

// Signals returns the receiver side of the queue.
func (c *Channel) Signals() <-chan Signal {
	return c.ch
}
