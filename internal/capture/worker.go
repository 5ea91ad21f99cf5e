package capture

import (
	"context"
	"time"

	"savebridge/internal/event"
	"savebridge/internal/frontapp"
	"savebridge/internal/logx"
)

// Frame is one periodic capture sample, broadcast to the UI while a
// capture is running. Field names are the UI contract.
type Frame struct {
	Target     string `json:"target"`
	FrontApp   string `json:"front_app"`
	Active     bool   `json:"active"`
	CapturedAt int64  `json:"captured_at"`
}

// Worker owns the receiver side of the signal queue. While started it
// samples the foreground process on a fixed interval and broadcasts a
// Frame through the event bridge; Stop pauses sampling until the next
// Start.
type Worker struct {
	signals   *Channel
	inspector frontapp.Inspector
	events    event.Sender
	interval  time.Duration
}

// NewWorker creates a capture worker.
func NewWorker(signals *Channel, inspector frontapp.Inspector, events event.Sender, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Worker{
		signals:   signals,
		inspector: inspector,
		events:    events,
		interval:  interval,
	}
}

// Run consumes signals until ctx is canceled. Signals are handled in
// arrival order; two racing senders are ordered by whichever enqueued
// first.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var (
		started bool
		target  string
	)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-w.signals.Signals():
			switch sig.Op {
			case Start:
				started = true
				target = sig.Target
				logx.Log.Info().Str("target", target).Msg("capture started")
			case Stop:
				started = false
				logx.Log.Info().Msg("capture stopped")
			}
		case <-ticker.C:
			if !started {
				continue
			}
			w.sample(target)
		}
	}
}

func (w *Worker) sample(target string) {
	front, err := w.inspector.FrontAppName()
	if err != nil {
		logx.Log.Warn().Err(err).Msg("capture sample failed")
		return
	}
	w.events.Send(event.Broadcast{Detail: Frame{
		Target:     target,
		FrontApp:   front,
		Active:     front == target,
		CapturedAt: time.Now().UnixMilli(),
	}})
}
