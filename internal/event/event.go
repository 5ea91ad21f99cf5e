// Package event carries host-originated notifications into the UI.
//
// Events flow one way: host-side code (request handlers, the update
// checker, the capture worker) produces them, the Bridge consumes each one
// exactly once and renders it into the webview's script context. There is
// no delivery confirmation and no replay; an event injected before the
// page is ready is permanently lost.
package event

// Event is one host-originated notification.
type Event interface {
	isEvent()
}

// CloseWindow requests host shutdown. It never touches the UI surface.
type CloseWindow struct{}

// Custom is a named notification dispatched as a DOM CustomEvent. The UI
// is expected to hold a listener keyed by Name.
type Custom struct {
	Name   string
	Detail any
}

// Broadcast is an anonymous push dispatched as a window-level "message"
// event. Used for streaming and periodic data where per-event identity is
// unnecessary.
type Broadcast struct {
	Detail any
}

func (CloseWindow) isEvent() {}
func (Custom) isEvent()      {}
func (Broadcast) isEvent()   {}

// Sender is the producer half of the bridge, shared by every handler and
// background task.
type Sender interface {
	Send(Event)
}
