package dispatch

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Handler consumes one raw event payload. Handlers run synchronously
// in delivery order and must not block.
type Handler = func(data []byte)

// Stream is the long-lived push connection handlers attach to. The
// connection outlives any single game session, so whatever a session
// registers it must also remove.
type Stream interface {
	On(event string, fn func(data []byte))
	Off(event string)
}

// Table declares the complete event wiring of a session up front. The
// same table drives registration and removal, so teardown cannot miss
// a listener.
type Table map[string]Handler

type Dispatcher struct {
	mu     sync.Mutex
	stream Stream
	table  Table
	active bool
}

func New(stream Stream, table Table) *Dispatcher {
	return &Dispatcher{stream: stream, table: table}
}

// SubscribeAll registers every table entry on the stream.
func (d *Dispatcher) SubscribeAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active {
		return
	}
	for name, handler := range d.table {
		d.stream.On(name, handler)
	}
	d.active = true
	logrus.WithField("events", len(d.table)).Debug("subscribed game event handlers")
}

// UnsubscribeAll removes exactly the handlers SubscribeAll registered.
func (d *Dispatcher) UnsubscribeAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.active {
		return
	}
	for name := range d.table {
		d.stream.Off(name)
	}
	d.active = false
	logrus.Debug("unsubscribed game event handlers")
}

// Active reports whether the table is currently registered.
func (d *Dispatcher) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}
