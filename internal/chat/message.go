// Package chat implements the real-time room chat served on /socket. A single
// Hub owns room membership; each websocket connection is a Client with its own
// read and write pumps.
package chat

import (
	"errors"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// Events sent by clients.
const (
	EventJoinRoom    = "join_room"
	EventLeaveRoom   = "leave_room"
	EventSendMessage = "send_message"
	EventTyping      = "typing"
)

// Events sent by the server. EventTyping is relayed as-is.
const (
	EventReceiveMessage = "receive_message"
	EventUserJoined     = "user_joined"
	EventUserLeft       = "user_left"
	EventError          = "error"
)

// ServerSender is the sender name on messages posted over HTTP.
const ServerSender = "server"

var (
	// ErrEmptyRoom is returned when a message names no room.
	ErrEmptyRoom = errors.New("room is required")
	// ErrEmptyText is returned when a message has no text.
	ErrEmptyText = errors.New("text is required")
	// ErrHubClosed is returned after the hub has shut down.
	ErrHubClosed = errors.New("chat hub closed")
)

// Message is the JSON frame exchanged over the socket in both directions.
type Message struct {
	Event     string    `json:"event"`
	Room      string    `json:"room,omitempty"`
	Sender    string    `json:"sender,omitempty"`
	Text      string    `json:"text,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RoomInfo describes a room and the names of its members.
type RoomInfo struct {
	Room    string   `json:"room"`
	Members []string `json:"members"`
}

func (m *Message) normalize() {
	m.Event = strings.TrimSpace(m.Event)
	m.Room = strings.TrimSpace(m.Room)
	m.Sender = strings.TrimSpace(m.Sender)
}

// isExpectedCloseError reports errors that only mean the peer already went away.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	return errors.Is(err, net.ErrClosed) ||
		errors.Is(err, websocket.ErrCloseSent) ||
		errors.Is(err, syscall.EPIPE)
}
