package capture

import (
	"context"
	"sync"
	"testing"
	"time"

	"savebridge/internal/event"
)

type fakeInspector struct {
	mu   sync.Mutex
	name string
}

func (f *fakeInspector) FrontAppName() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.name, nil
}

type collectingSender struct {
	mu     sync.Mutex
	events []event.Event
}

func (c *collectingSender) Send(ev event.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *collectingSender) frames() []Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Frame
	for _, ev := range c.events {
		if b, ok := ev.(event.Broadcast); ok {
			if f, ok := b.Detail.(Frame); ok {
				out = append(out, f)
			}
		}
	}
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestWorkerBroadcastsWhileStarted(t *testing.T) {
	ch := NewChannel(4)
	sender := &collectingSender{}
	w := NewWorker(ch, &fakeInspector{name: "Game.exe"}, sender, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	ch.Send(Signal{Op: Start, Target: "Game.exe"})
	waitFor(t, func() bool { return len(sender.frames()) >= 2 })

	for _, f := range sender.frames() {
		if f.Target != "Game.exe" {
			t.Errorf("frame target = %q, want Game.exe", f.Target)
		}
		if !f.Active {
			t.Errorf("frame should be active while the target is frontmost")
		}
	}
}

func TestWorkerStopsOnStopSignal(t *testing.T) {
	ch := NewChannel(4)
	sender := &collectingSender{}
	w := NewWorker(ch, &fakeInspector{name: "Game.exe"}, sender, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	ch.Send(Signal{Op: Start, Target: "Game.exe"})
	waitFor(t, func() bool { return len(sender.frames()) >= 1 })

	ch.Send(Signal{Op: Stop})
	// Give the stop time to land, then ensure the flow dries up.
	time.Sleep(30 * time.Millisecond)
	n := len(sender.frames())
	time.Sleep(50 * time.Millisecond)
	if got := len(sender.frames()); got > n+1 {
		t.Errorf("frames kept flowing after stop: %d -> %d", n, got)
	}
}

func TestWorkerIdleUntilStarted(t *testing.T) {
	ch := NewChannel(4)
	sender := &collectingSender{}
	w := NewWorker(ch, &fakeInspector{name: "Game.exe"}, sender, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(40 * time.Millisecond)
	if got := len(sender.frames()); got != 0 {
		t.Errorf("expected no frames before start, got %d", got)
	}
}

func TestChannelSendNeverBlocks(t *testing.T) {
	ch := NewChannel(2)
	// No consumer: every send past capacity must drop, not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			ch.Send(Signal{Op: Stop})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send blocked on a full queue")
	}
}
