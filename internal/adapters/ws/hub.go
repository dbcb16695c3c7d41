package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/session"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
)

// Message types sent to clients
const (
	MessageState    = "state"
	MessageRejected = "rejected"
	MessageError    = "error"
)

// Message is the server to client envelope
type Message struct {
	Type   string      `json:"type"`
	State  *game.State `json:"state,omitempty"`
	Action string      `json:"action,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// StateSource exposes the current game state read-only
type StateSource interface {
	State() *game.State
}

// Hub maintains the set of connected clients, broadcasts every state change
// to them and feeds their actions into the dispatcher.
type Hub struct {
	sink   session.ActionSink
	source StateSource

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex
	logger     *zap.Logger

	upgrader websocket.Upgrader
	limits   ClientLimits
}

var _ session.Listener = (*Hub)(nil)

// NewHub creates a hub; Run must be running before clients connect
func NewHub(sink session.ActionSink, source StateSource, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		sink:       sink,
		source:     source,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.Named("WSHub"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// the feed is consumed by local tools and browser UIs on other ports
			CheckOrigin: func(*http.Request) bool { return true },
		},
		limits: DefaultClientLimits(),
	}
}

// SetClientLimits overrides the per-connection action rate limit
func (h *Hub) SetClientLimits(l ClientLimits) {
	h.limits = l
}

// Run handles registration and broadcasts until ctx ends
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				client.stop()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("websocket hub shutting down")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("websocket client connected", zap.String("remote", client.remote))
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.stop()
				h.logger.Info("websocket client disconnected", zap.String("remote", client.remote))
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// slow consumer
					client.stop()
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount returns the number of registered clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// OnTransition broadcasts the new state. It never blocks; a full queue drops the frame.
func (h *Hub) OnTransition(_ context.Context, tr session.Transition) {
	if !tr.Changed() || tr.Result.State == nil {
		return
	}
	payload, err := json.Marshal(Message{Type: MessageState, State: tr.Result.State})
	if err != nil {
		h.logger.Error("failed to encode state frame", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("broadcast queue full, dropping state frame")
	}
}

// ServeHTTP upgrades the connection and starts the client pumps
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(h, conn, r.RemoteAddr)
	if h.source != nil {
		if s := h.source.State(); s != nil {
			client.queue(Message{Type: MessageState, State: s})
		}
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(r.Context())
}
