package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"trench/internal/game"

	"github.com/gorilla/websocket"
)

// Hub fans the game's console feed out to websocket clients. Clients are
// read-only; anything they send is drained and dropped.
type Hub struct {
	log        *slog.Logger
	feed       *game.Feed
	clients    map[*wsClient]bool
	register   chan *wsClient
	unregister chan *wsClient
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub(log *slog.Logger, feed *game.Feed) *Hub {
	return &Hub{
		log:        log,
		feed:       feed,
		clients:    make(map[*wsClient]bool),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
	}
}

// Run pumps feed events to every connected client until ctx ends. Slow
// clients get dropped rather than stalling the rest.
func (h *Hub) Run(ctx context.Context) {
	events, cancel := h.feed.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case ev := <-events:
			payload, err := json.Marshal(ev)
			if err != nil {
				h.log.Error("marshal event", "err", err)
				continue
			}
			for c := range h.clients {
				select {
				case c.send <- payload:
				default:
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade", "err", err)
		return
	}
	c := &wsClient{conn: conn, send: make(chan []byte, 256)}
	h.register <- c

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) readPump(c *wsClient) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *wsClient) {
	defer c.conn.Close()
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
}
