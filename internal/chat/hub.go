package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shaharia-lab/jobportal/internal/metrics"
)

// inbound is a unit of work for the hub loop. A nil from means the message
// was posted over HTTP. A non-empty reject sends an error event back to from
// instead of handling msg.
type inbound struct {
	from   *Client
	msg    Message
	reject string
}

// Hub tracks connected clients and their rooms. All membership changes happen
// on the Run goroutine; the mutex only guards reads from HTTP handlers.
type Hub struct {
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	inbound    chan inbound

	opts   Options
	logger *slog.Logger
	now    func() time.Time

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub creates a hub. Start it with Run.
func NewHub(opts Options, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound, 256),
		opts:       opts.withDefaults(),
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// Run processes registrations and messages until Shutdown is called.
func (h *Hub) Run() {
	defer close(h.done)
	h.logger.Info("chat ready")

	for {
		select {
		case <-h.ctx.Done():
			h.closeAll()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			metrics.ChatConnections.Inc()
			h.logger.Debug("chat client connected", "client", c.id, "addr", c.addr, "total", total)

			h.wg.Add(2)
			go func() {
				defer h.wg.Done()
				c.writePump()
			}()
			go func() {
				defer h.wg.Done()
				c.readPump()
			}()

		case c := <-h.unregister:
			h.remove(c)

		case in := <-h.inbound:
			h.handle(in)
		}
	}
}

// Shutdown stops the run loop, closes every connection and waits for the
// client pumps to exit, up to timeout.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.cancel()
	<-h.done

	finished := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-time.After(timeout):
		h.logger.Warn("chat shutdown timed out; some connections may still be open")
		return context.DeadlineExceeded
	}
}

// Rooms lists active rooms sorted by name.
func (h *Hub) Rooms() []RoomInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]RoomInfo, 0, len(h.rooms))
	for name := range h.rooms {
		out = append(out, h.roomInfoLocked(name))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Room < out[j].Room })
	return out
}

// Room describes one room. An unknown room has no members.
func (h *Hub) Room(name string) RoomInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.roomInfoLocked(name)
}

// Connections reports the number of connected clients.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Post delivers a receive_message to every member of room on behalf of sender.
func (h *Hub) Post(room, sender, text string) error {
	msg := Message{Event: EventSendMessage, Room: room, Sender: sender, Text: text}
	msg.normalize()
	if msg.Room == "" {
		return ErrEmptyRoom
	}
	if strings.TrimSpace(msg.Text) == "" {
		return ErrEmptyText
	}
	if msg.Sender == "" {
		msg.Sender = ServerSender
	}
	return h.submit(inbound{msg: msg})
}

func (h *Hub) submit(in inbound) error {
	select {
	case h.inbound <- in:
		return nil
	case <-h.ctx.Done():
		return ErrHubClosed
	}
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.ctx.Done():
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.ctx.Done():
	}
}

func (h *Hub) roomInfoLocked(name string) RoomInfo {
	members := make([]string, 0, len(h.rooms[name]))
	for c := range h.rooms[name] {
		members = append(members, c.displayName())
	}
	sort.Strings(members)
	return RoomInfo{Room: name, Members: members}
}

func (h *Hub) handle(in inbound) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if in.from != nil {
		if _, ok := h.clients[in.from]; !ok {
			return
		}
		if in.reject != "" {
			h.sendError(in.from, in.msg.Room, in.reject)
			return
		}
	}

	msg := in.msg
	switch msg.Event {
	case EventJoinRoom:
		h.handleJoin(in.from, msg)
	case EventLeaveRoom:
		h.handleLeave(in.from, msg)
	case EventSendMessage:
		h.handleSend(in.from, msg)
	case EventTyping:
		h.handleTyping(in.from, msg)
	default:
		h.sendError(in.from, msg.Room, "unknown event")
	}
}

func (h *Hub) handleJoin(c *Client, msg Message) {
	if c == nil {
		return
	}
	if msg.Room == "" {
		h.sendError(c, "", ErrEmptyRoom.Error())
		return
	}
	if msg.Sender != "" {
		c.name = msg.Sender
	}
	members, ok := h.rooms[msg.Room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[msg.Room] = members
	}
	if _, already := members[c]; already {
		return
	}
	members[c] = struct{}{}
	c.rooms[msg.Room] = struct{}{}

	h.logger.Debug("chat client joined room", "client", c.id, "room", msg.Room)
	h.deliver(msg.Room, Message{Event: EventUserJoined, Room: msg.Room, Sender: c.displayName()}, c)
}

func (h *Hub) handleLeave(c *Client, msg Message) {
	if c == nil {
		return
	}
	if _, ok := c.rooms[msg.Room]; !ok {
		h.sendError(c, msg.Room, "not a member of this room")
		return
	}
	h.leaveRoomLocked(c, msg.Room)
}

func (h *Hub) handleSend(c *Client, msg Message) {
	if msg.Room == "" {
		h.sendError(c, "", ErrEmptyRoom.Error())
		return
	}
	if strings.TrimSpace(msg.Text) == "" {
		h.sendError(c, msg.Room, ErrEmptyText.Error())
		return
	}

	sender := msg.Sender
	if c != nil {
		if _, ok := c.rooms[msg.Room]; !ok {
			h.sendError(c, msg.Room, "not a member of this room")
			return
		}
		sender = c.displayName()
	}
	h.deliver(msg.Room, Message{Event: EventReceiveMessage, Room: msg.Room, Sender: sender, Text: msg.Text}, nil)
}

func (h *Hub) handleTyping(c *Client, msg Message) {
	if c == nil {
		return
	}
	if _, ok := c.rooms[msg.Room]; !ok {
		return
	}
	h.deliver(msg.Room, Message{Event: EventTyping, Room: msg.Room, Sender: c.displayName()}, c)
}

// leaveRoomLocked removes c from room and tells the remaining members.
func (h *Hub) leaveRoomLocked(c *Client, room string) {
	delete(c.rooms, room)
	members := h.rooms[room]
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, room)
		return
	}
	h.deliver(room, Message{Event: EventUserLeft, Room: room, Sender: c.displayName()}, nil)
}

// deliver stamps msg and queues it for every member of room except skip.
// Members whose send buffer is full are disconnected.
func (h *Hub) deliver(room string, msg Message, skip *Client) {
	msg.Timestamp = h.now()
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("chat message not encoded", "room", room, "error", err)
		return
	}

	var slow []*Client
	for c := range h.rooms[room] {
		if c == skip {
			continue
		}
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		h.logger.Warn("chat client dropped: send buffer full", "client", c.id, "addr", c.addr)
		h.removeLocked(c)
	}
}

func (h *Hub) sendError(c *Client, room, text string) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(Message{Event: EventError, Room: room, Text: text, Timestamp: h.now()})
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked forgets c, leaves its rooms and closes its send channel, which
// makes the write pump close the connection.
func (h *Hub) removeLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for room := range c.rooms {
		h.leaveRoomLocked(c, room)
	}
	close(c.send)
	metrics.ChatConnections.Dec()
	h.logger.Debug("chat client disconnected", "client", c.id, "total", len(h.clients))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		close(c.send)
		if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
			h.logger.Debug("closing chat connection", "client", c.id, "error", err)
		}
		metrics.ChatConnections.Dec()
	}
	h.clients = make(map[*Client]struct{})
	h.rooms = make(map[string]map[*Client]struct{})
	h.logger.Info("chat hub stopped")
}
