package chat

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// Client is one websocket connection. Its rooms and name belong to the hub
// and are only touched while the hub holds its lock.
type Client struct {
	id      string
	name    string
	addr    string
	conn    *websocket.Conn
	send    chan []byte
	hub     *Hub
	limiter *rate.Limiter
	rooms   map[string]struct{}
	logger  *slog.Logger
}

func newClient(conn *websocket.Conn, hub *Hub, addr string) *Client {
	id := uuid.NewString()
	conn.SetReadLimit(hub.opts.MaxMessageSize)
	return &Client{
		id:      id,
		addr:    addr,
		conn:    conn,
		send:    make(chan []byte, hub.opts.SendBuffer),
		hub:     hub,
		limiter: rate.NewLimiter(hub.opts.MessageRate, hub.opts.MessageBurst),
		rooms:   make(map[string]struct{}),
		logger:  hub.logger.With("client", id),
	}
}

// displayName is the name the client joined with, or a short form of its id.
func (c *Client) displayName() string {
	if c.name != "" {
		return c.name
	}
	return "guest-" + c.id[:8]
}

func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
			c.logger.Debug("closing chat connection", "error", err)
		}
	}()

	pongWait := c.hub.opts.PongWait
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			c.logReadError(err)
			return
		}

		var in inbound
		in.from = c
		if !c.limiter.Allow() {
			in.reject = "rate limit exceeded"
		} else if err := json.Unmarshal(raw, &in.msg); err != nil {
			in.reject = "invalid message"
		}
		in.msg.normalize()

		if c.hub.submit(in) != nil {
			return
		}
	}
}

func (c *Client) logReadError(err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		c.logger.Warn("chat message too large", "addr", c.addr, "limit", c.hub.opts.MaxMessageSize)
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway),
		errors.Is(err, io.EOF), isExpectedCloseError(err):
		c.logger.Debug("chat client went away", "addr", c.addr)
	default:
		c.logger.Debug("chat read failed", "addr", c.addr, "error", err)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
			c.logger.Debug("closing chat connection", "error", err)
		}
	}()

	writeWait := c.hub.opts.WriteWait
	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				if !isExpectedCloseError(err) {
					c.logger.Debug("chat write failed", "error", err)
				}
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
