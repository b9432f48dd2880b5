// Package testutil holds fakes shared by package tests.
package testutil

import (
	"encoding/json"
	"sync"

	"github.com/dkeye/projectchat/internal/core"
	"github.com/dkeye/projectchat/internal/domain"
)

// User returns a test identity.
func User(id string) *domain.Identity {
	return &domain.Identity{ID: domain.UserID(id), Username: "name-" + id}
}

// Event is a decoded frame as seen by a client.
type Event struct {
	Type    core.EventType  `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// FakeConn is an in-memory core.Connection that records every frame.
type FakeConn struct {
	id       core.ConnID
	identity *domain.Identity

	mu     sync.Mutex
	frames []core.Frame
	closed bool
	full   bool
}

func NewFakeConn(id string, user *domain.Identity) *FakeConn {
	return &FakeConn{id: core.ConnID(id), identity: user}
}

func (c *FakeConn) ID() core.ConnID             { return c.id }
func (c *FakeConn) Identity() *domain.Identity { return c.identity }

func (c *FakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return core.ErrConnClosed
	}
	if c.full {
		return core.ErrBackpressure
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *FakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *FakeConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// SetFull makes every following TrySend fail with core.ErrBackpressure.
func (c *FakeConn) SetFull(full bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.full = full
}

func (c *FakeConn) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, 0, len(c.frames))
	for _, f := range c.frames {
		var e Event
		if err := json.Unmarshal(f, &e); err == nil {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many events of type t were received.
func (c *FakeConn) Count(t core.EventType) int {
	n := 0
	for _, e := range c.Events() {
		if e.Type == t {
			n++
		}
	}
	return n
}
