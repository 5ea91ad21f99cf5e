package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-json-experiment/json"

	"savebridge/internal/logx"
)

// Surface evaluates JavaScript in the UI's script context.
type Surface interface {
	Eval(script string)
}

// Bridge consumes host events and injects them into the UI. Injection is
// fire-and-forget: a failed or dropped injection is logged, never retried.
type Bridge struct {
	events    chan Event
	surface   Surface
	shutdown  func()
	closeOnce sync.Once
}

// NewBridge creates a bridge over the given surface. shutdown is invoked
// exactly once, on the first CloseWindow event.
func NewBridge(surface Surface, shutdown func()) *Bridge {
	return &Bridge{
		events:   make(chan Event, 64),
		surface:  surface,
		shutdown: shutdown,
	}
}

// Send enqueues an event for injection. It never blocks; when the queue
// is full the event is dropped with a warning.
func (b *Bridge) Send(ev Event) {
	select {
	case b.events <- ev:
	default:
		logx.Log.Warn().Type("event", ev).Msg("event queue full, dropping")
	}
}

// Run consumes events until ctx is canceled.
func (b *Bridge) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-b.events:
			b.dispatch(ev)
		}
	}
}

func (b *Bridge) dispatch(ev Event) {
	switch e := ev.(type) {
	case CloseWindow:
		b.closeOnce.Do(b.shutdown)
	case Custom:
		script, err := customEventScript(e.Name, e.Detail)
		if err != nil {
			logx.Log.Warn().Err(err).Str("event", e.Name).Msg("cannot render custom event")
			return
		}
		b.surface.Eval(script)
	case Broadcast:
		script, err := broadcastScript(e.Detail)
		if err != nil {
			logx.Log.Warn().Err(err).Msg("cannot render broadcast")
			return
		}
		b.surface.Eval(script)
	}
}

// customEventScript renders a named event as a document-level CustomEvent
// dispatch. name must be a static identifier, not UI-supplied text.
func customEventScript(name string, detail any) (string, error) {
	data, err := json.Marshal(detail)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`(() => {
	const event = new CustomEvent(%q, { detail: %s });
	document.dispatchEvent(event);
})();`, name, data), nil
}

// broadcastScript renders an anonymous push as a window-level "message"
// event carrying the payload in event.data.
func broadcastScript(detail any) (string, error) {
	data, err := json.Marshal(detail)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`(() => {
	var event = document.createEvent('Event');
	event.initEvent('message', false, true);
	event.data = %s;
	window.dispatchEvent(event);
})();`, data), nil
}
