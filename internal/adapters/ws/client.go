package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum action envelope size allowed from peer.
	maxMessageSize = 4096
)

// ClientLimits bounds how fast one connection may dispatch actions
type ClientLimits struct {
	PerSecond float64
	Burst     int
}

// DefaultClientLimits allows bursts of clicking without letting a script flood the dispatcher
func DefaultClientLimits() ClientLimits {
	return ClientLimits{PerSecond: 10, Burst: 20}
}

// Client is one websocket connection. send is never closed; the hub
// signals a dropped client through stopped instead.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	stopped  chan struct{}
	stopOnce sync.Once
	remote   string
	limiter  *rate.Limiter
}

func newClient(hub *Hub, conn *websocket.Conn, remote string) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		stopped: make(chan struct{}),
		remote:  remote,
		limiter: rate.NewLimiter(rate.Limit(hub.limits.PerSecond), hub.limits.Burst),
	}
}

// stop tells the write pump to hang up; safe to call more than once
func (c *Client) stop() {
	c.stopOnce.Do(func() { close(c.stopped) })
}

// queue sends a message to this client only; it is dropped if the buffer is full
func (c *Client) queue(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Error("failed to encode client frame", zap.Error(err))
		return
	}
	select {
	case <-c.stopped:
		return
	default:
	}
	select {
	case c.send <- payload:
	default:
	}
}

// readPump decodes action envelopes and dispatches them
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read failed", zap.String("remote", c.remote), zap.Error(err))
			}
			return
		}
		c.handle(context.WithoutCancel(ctx), raw)
	}
}

func (c *Client) handle(ctx context.Context, raw []byte) {
	action, err := engine.DecodeAction(raw)
	if err != nil {
		c.queue(Message{Type: MessageError, Error: err.Error()})
		return
	}
	if engine.IsSystemAction(action.Type()) {
		c.queue(Message{Type: MessageError, Action: string(action.Type()), Error: fmt.Sprintf("%s cannot be sent by clients", action.Type())})
		return
	}
	if !c.limiter.Allow() {
		c.queue(Message{Type: MessageError, Action: string(action.Type()), Error: "too many actions, slow down"})
		return
	}

	res := c.hub.sink.Dispatch(ctx, action)
	if res.Err != nil {
		c.queue(Message{Type: MessageRejected, Action: string(action.Type()), Error: res.Err.Error()})
	}
}

// writePump forwards queued frames and keeps the connection alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.stopped:
			// The hub dropped this client.
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
