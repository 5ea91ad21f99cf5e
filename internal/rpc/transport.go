package rpc

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-json-experiment/json"
	"github.com/gorilla/websocket"

	"savebridge/internal/logx"
)

// Transport serves the RPC channel over a loopback WebSocket. One
// connection exists per page load; the bridge trusts its single
// co-located caller, so every origin is accepted.
type Transport struct {
	router   *Router
	upgrader websocket.Upgrader
}

// NewTransport creates the websocket endpoint for the given router.
func NewTransport(router *Router) *Transport {
	return &Transport{
		router: router,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP implements http.Handler for WebSocket upgrades.
func (t *Transport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := newConn(ws, t.router)
	go c.writePump()
	c.readPump(r.Context())
}

// conn is one UI connection. Requests are dispatched synchronously on the
// read loop, one at a time in arrival order: a slow handler stalls every
// later call, exactly like the single UI thread it stands in for.
type conn struct {
	ws        *websocket.Conn
	router    *Router
	send      chan []byte
	closeOnce sync.Once
}

func newConn(ws *websocket.Conn, router *Router) *conn {
	return &conn{
		ws:     ws,
		router: router,
		send:   make(chan []byte, 256),
	}
}

func (c *conn) readPump(ctx context.Context) {
	defer func() {
		c.close()
		c.ws.Close()
	}()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			logx.Log.Warn().Err(err).Msg("unparseable request frame")
			c.enqueue(&Response{Error: "invalid JSON"})
			continue
		}

		if resp := c.router.Dispatch(ctx, &req); resp != nil {
			c.enqueue(resp)
		}
	}
}

func (c *conn) enqueue(resp *Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		logx.Log.Error().Err(err).Msg("cannot marshal response")
		return
	}
	select {
	case c.send <- data:
	default:
		logx.Log.Warn().Msg("send buffer full, dropping response")
	}
}

func (c *conn) writePump() {
	defer c.ws.Close()

	for data := range c.send {
		if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func (c *conn) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}
