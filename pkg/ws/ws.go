// Package ws streams payment countdown and status updates to browsers
// over WebSocket. Clients subscribe to a topic (one per payment session)
// and the payment engine publishes JSON frames to it:
//
//	// route:
//	r.Get("/ws/payments/{id}", "ws.payment", func(w http.ResponseWriter, r *http.Request) {
//	    ws.Subscribe(w, r, ws.PaymentHub, "payment:"+chi.URLParam(r, "id"))
//	})
//
//	// publisher:
//	ws.PaymentHub.Publish("payment:"+id, frame)
package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dnguyen-dev/bistro/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins by default — restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SetCheckOrigin replaces the default (allow-all) origin checker.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// PaymentHub carries countdown ticks and status transitions for active
// payment sessions. Started by the server at boot.
var PaymentHub = NewHub()

// ─── Client ───────────────────────────────────────────────────────────────────

// Client is a single WebSocket subscriber bound to one topic.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	topic string
	send  chan []byte
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		// Subscribers are read-only; we drain frames purely to detect closes.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "error", err)
			}
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ─── Hub ──────────────────────────────────────────────────────────────────────

type publication struct {
	topic string
	data  []byte
}

// Hub routes published frames to the clients subscribed to each topic.
type Hub struct {
	topics     map[string]map[*Client]bool
	publish    chan publication
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a Hub. Call hub.Run() in a goroutine at startup.
func NewHub() *Hub {
	return &Hub{
		topics:     make(map[string]map[*Client]bool),
		publish:    make(chan publication, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub event loop. Must be run in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if h.topics[client.topic] == nil {
				h.topics[client.topic] = make(map[*Client]bool)
			}
			h.topics[client.topic][client] = true
			logger.Debug("ws: client subscribed", "topic", client.topic)

		case client := <-h.unregister:
			if subs, ok := h.topics[client.topic]; ok && subs[client] {
				delete(subs, client)
				close(client.send)
				if len(subs) == 0 {
					delete(h.topics, client.topic)
				}
			}

		case pub := <-h.publish:
			for client := range h.topics[pub.topic] {
				select {
				case client.send <- pub.data:
				default:
					close(client.send)
					delete(h.topics[pub.topic], client)
				}
			}
		}
	}
}

// Publish sends raw bytes to every subscriber of the topic.
func (h *Hub) Publish(topic string, data []byte) {
	h.publish <- publication{topic: topic, data: data}
}

// PublishJSON marshals v and publishes it to the topic.
func (h *Hub) PublishJSON(topic string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("ws: marshal publication", "topic", topic, "error", err)
		return
	}
	h.Publish(topic, data)
}

// ─── Subscribe ───────────────────────────────────────────────────────────────

// Subscribe upgrades the HTTP connection and attaches the client to a topic.
func Subscribe(w http.ResponseWriter, r *http.Request, hub *Hub, topic string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("ws: upgrade failed", "error", err)
		return
	}
	client := &Client{hub: hub, conn: conn, topic: topic, send: make(chan []byte, 256)}
	hub.register <- client
	go client.writePump()
	go client.readPump()
}
