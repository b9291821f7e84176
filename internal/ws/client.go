package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

// Envelope is the wire frame: a named event and its JSON payload.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Client wraps one websocket connection and implements game.Conn for the
// coordinators. matchID is only touched by the read goroutine; playerID is
// also logged from coordinator goroutines, so it lives under the mutex.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	log  *slog.Logger

	matchID string // set after a successful game:join

	mu       sync.Mutex
	playerID string // lobby- or session-assigned display id
	closed   bool
	watchSeq int
	watchers map[int]func()
	sendOnce sync.Once
}

func newClient(hub *Hub, conn *websocket.Conn, log *slog.Logger) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		log:      log,
		watchers: make(map[int]func()),
	}
}

// Send queues an event for delivery. A peer that cannot drain its buffer
// loses events rather than stalling a coordinator.
func (c *Client) Send(event string, payload any) {
	data, err := json.Marshal(outbound{Type: event, Payload: payload})
	if err != nil {
		c.log.Error("marshal event", "event", event, "error", err)
		return
	}
	select {
	case c.send <- data:
	default:
		c.log.Warn("send buffer full, dropping event", "event", event, "player", c.player())
	}
}

func (c *Client) setPlayer(id string) {
	c.mu.Lock()
	c.playerID = id
	c.mu.Unlock()
}

func (c *Client) player() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

// Watch registers fn to run at most once when the connection terminates.
func (c *Client) Watch(fn func()) (cancel func()) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		go fn()
		return func() {}
	}
	c.watchSeq++
	id := c.watchSeq
	c.watchers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.watchers, id)
		c.mu.Unlock()
	}
}

func (c *Client) fireClose() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	fns := make([]func(), 0, len(c.watchers))
	for _, fn := range c.watchers {
		fns = append(fns, fn)
	}
	c.watchers = nil
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// shutdown flushes and closes the write side; used when admission fails.
func (c *Client) shutdown() {
	c.sendOnce.Do(func() { close(c.send) })
}

func (c *Client) readPump() {
	defer func() {
		c.fireClose()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			c.log.Debug("read closed", "player", c.player(), "error", err)
			return
		}
		c.hub.route(c, msg)
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
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
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
