package chat

import (
	"time"

	"golang.org/x/time/rate"
)

// Options tunes per-connection limits. Zero fields take the defaults below.
type Options struct {
	// MaxMessageSize is the largest frame a client may send, in bytes.
	MaxMessageSize int64
	// PongWait is how long a connection may stay silent before it is dropped.
	PongWait time.Duration
	// PingPeriod must be shorter than PongWait.
	PingPeriod time.Duration
	// WriteWait bounds a single write to the peer.
	WriteWait time.Duration
	// MessageRate and MessageBurst limit how fast one client may send.
	MessageRate  rate.Limit
	MessageBurst int
	// SendBuffer is the number of outgoing frames queued per client.
	SendBuffer int
}

// DefaultOptions are the limits used in production.
var DefaultOptions = Options{
	MaxMessageSize: 4096,
	PongWait:       60 * time.Second,
	PingPeriod:     54 * time.Second,
	WriteWait:      10 * time.Second,
	MessageRate:    5,
	MessageBurst:   10,
	SendBuffer:     256,
}

func (o Options) withDefaults() Options {
	d := DefaultOptions
	if o.MaxMessageSize > 0 {
		d.MaxMessageSize = o.MaxMessageSize
	}
	if o.PongWait > 0 {
		d.PongWait = o.PongWait
	}
	if o.PingPeriod > 0 {
		d.PingPeriod = o.PingPeriod
	}
	if d.PingPeriod >= d.PongWait {
		d.PingPeriod = d.PongWait * 9 / 10
	}
	if o.WriteWait > 0 {
		d.WriteWait = o.WriteWait
	}
	if o.MessageRate > 0 {
		d.MessageRate = o.MessageRate
	}
	if o.MessageBurst > 0 {
		d.MessageBurst = o.MessageBurst
	}
	if o.SendBuffer > 0 {
		d.SendBuffer = o.SendBuffer
	}
	return d
}
