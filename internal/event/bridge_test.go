package event

import (
	"strings"
	"sync"
	"testing"
)

type recordingSurface struct {
	mu      sync.Mutex
	scripts []string
}

func (s *recordingSurface) Eval(script string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts = append(s.scripts, script)
}

func (s *recordingSurface) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.scripts...)
}

func TestCustomEventInjection(t *testing.T) {
	surface := &recordingSurface{}
	b := NewBridge(surface, func() {})

	b.dispatch(Custom{Name: "update_available", Detail: map[string]string{"version": "1.2.3"}})

	scripts := surface.all()
	if len(scripts) != 1 {
		t.Fatalf("expected 1 eval, got %d", len(scripts))
	}
	script := scripts[0]
	if !strings.Contains(script, `new CustomEvent("update_available"`) {
		t.Errorf("script missing event name: %s", script)
	}
	if !strings.Contains(script, `"version"`) || !strings.Contains(script, `"1.2.3"`) {
		t.Errorf("script missing detail payload: %s", script)
	}
	if !strings.Contains(script, "document.dispatchEvent") {
		t.Errorf("custom events must dispatch on document: %s", script)
	}
}

func TestBroadcastInjection(t *testing.T) {
	surface := &recordingSurface{}
	b := NewBridge(surface, func() {})

	b.dispatch(Broadcast{Detail: map[string]int{"frame": 7}})

	scripts := surface.all()
	if len(scripts) != 1 {
		t.Fatalf("expected 1 eval, got %d", len(scripts))
	}
	script := scripts[0]
	if !strings.Contains(script, "initEvent('message'") {
		t.Errorf("broadcast must use the message channel: %s", script)
	}
	if !strings.Contains(script, `"frame"`) {
		t.Errorf("script missing payload: %s", script)
	}
	if !strings.Contains(script, "window.dispatchEvent") {
		t.Errorf("broadcasts must dispatch on window: %s", script)
	}
}

func TestCloseWindowNeverTouchesSurface(t *testing.T) {
	surface := &recordingSurface{}
	b := NewBridge(surface, func() {})

	b.dispatch(CloseWindow{})

	if got := surface.all(); len(got) != 0 {
		t.Errorf("close must not eval anything, got %v", got)
	}
}

func TestCloseWindowShutsDownExactlyOnce(t *testing.T) {
	calls := 0
	b := NewBridge(&recordingSurface{}, func() { calls++ })

	b.dispatch(CloseWindow{})
	b.dispatch(CloseWindow{})
	b.dispatch(CloseWindow{})

	if calls != 1 {
		t.Errorf("shutdown called %d times, want 1", calls)
	}
}

func TestUnrenderableDetailIsDropped(t *testing.T) {
	surface := &recordingSurface{}
	b := NewBridge(surface, func() {})

	// Channels cannot be marshaled; the event is logged and dropped.
	b.dispatch(Custom{Name: "bad", Detail: make(chan int)})

	if got := surface.all(); len(got) != 0 {
		t.Errorf("expected no eval for unrenderable detail, got %v", got)
	}
}
