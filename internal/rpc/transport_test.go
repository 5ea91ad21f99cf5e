package rpc

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/gorilla/websocket"
)

func setupTransport(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var notes atomic.Int32
	router := NewRouter([]Route{
		NotifyRoute("note", func(ctx context.Context) {
			notes.Add(1)
		}),
		CallRoute("hello", func(ctx context.Context) (any, error) {
			return "world", nil
		}),
		ParamRoute("echo", func(ctx context.Context, s string) (any, error) {
			return s, nil
		}),
	})
	ts := httptest.NewServer(NewTransport(router))
	t.Cleanup(ts.Close)
	return ts, &notes
}

func connectWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readFrame(t *testing.T, ws *websocket.Conn) map[string]any {
	t.Helper()
	_, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	var frame map[string]any
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("Unparseable frame %s: %v", data, err)
	}
	return frame
}

func TestTransportEcho(t *testing.T) {
	ts, _ := setupTransport(t)
	ws := connectWS(t, ts)

	if err := ws.WriteMessage(websocket.TextMessage, []byte(`{"id":1,"method":"echo","params":["hello"]}`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	frame := readFrame(t, ws)
	if frame["id"] != float64(1) {
		t.Errorf("id = %v", frame["id"])
	}
	if frame["result"] != "hello" {
		t.Errorf("result = %v", frame["result"])
	}
	if _, hasErr := frame["error"]; hasErr {
		t.Errorf("unexpected error field: %v", frame["error"])
	}
}

func TestTransportUnknownMethod(t *testing.T) {
	ts, _ := setupTransport(t)
	ws := connectWS(t, ts)

	if err := ws.WriteMessage(websocket.TextMessage, []byte(`{"id":2,"method":"not_a_real_method"}`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	frame := readFrame(t, ws)
	if frame["id"] != float64(2) {
		t.Errorf("id = %v", frame["id"])
	}
	if frame["error"] != "Wrong RPC method, got: not_a_real_method" {
		t.Errorf("error = %v", frame["error"])
	}
}

func TestTransportNotifyProducesNoFrame(t *testing.T) {
	ts, notes := setupTransport(t)
	ws := connectWS(t, ts)

	// A notify followed by a call: the first frame back must belong to
	// the call, proving the notify answered with silence.
	if err := ws.WriteMessage(websocket.TextMessage, []byte(`{"id":1,"method":"note"}`)); err != nil {
		t.Fatal(err)
	}
	if err := ws.WriteMessage(websocket.TextMessage, []byte(`{"id":2,"method":"hello"}`)); err != nil {
		t.Fatal(err)
	}

	frame := readFrame(t, ws)
	if frame["id"] != float64(2) || frame["result"] != "world" {
		t.Errorf("first frame = %v, want the call's response", frame)
	}
	if got := notes.Load(); got != 1 {
		t.Errorf("notify handler ran %d times, want 1", got)
	}
}

func TestTransportDispatchOrder(t *testing.T) {
	ts, _ := setupTransport(t)
	ws := connectWS(t, ts)

	// Requests on one connection are handled synchronously in arrival
	// order; responses come back in the same order.
	for i := 0; i < 5; i++ {
		msg := []byte(`{"id":` + string(rune('0'+i)) + `,"method":"hello"}`)
		if err := ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 5; i++ {
		frame := readFrame(t, ws)
		if frame["id"] != float64(i) {
			t.Fatalf("response %d carries id %v", i, frame["id"])
		}
	}
}

func TestTransportInvalidJSON(t *testing.T) {
	ts, _ := setupTransport(t)
	ws := connectWS(t, ts)

	if err := ws.WriteMessage(websocket.TextMessage, []byte(`{nope`)); err != nil {
		t.Fatal(err)
	}

	frame := readFrame(t, ws)
	if frame["error"] != "invalid JSON" {
		t.Errorf("error = %v", frame["error"])
	}
}

func TestTransportStringID(t *testing.T) {
	ts, _ := setupTransport(t)
	ws := connectWS(t, ts)

	if err := ws.WriteMessage(websocket.TextMessage, []byte(`{"id":"abc","method":"hello"}`)); err != nil {
		t.Fatal(err)
	}

	frame := readFrame(t, ws)
	// The id is opaque: a string token must come back as the same string.
	if frame["id"] != "abc" {
		t.Errorf("id = %v", frame["id"])
	}
}
