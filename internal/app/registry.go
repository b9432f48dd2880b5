package app

import (
	"sync"

	"github.com/dkeye/projectchat/internal/core"
	"github.com/dkeye/projectchat/internal/domain"
	"github.com/rs/zerolog/log"
)

// Registry maps each user to the set of their live connections.
type Registry struct {
	mu     sync.RWMutex
	byConn map[core.ConnID]core.Connection
	byUser map[domain.UserID]map[core.ConnID]core.Connection
}

func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[core.ConnID]core.Connection),
		byUser: make(map[domain.UserID]map[core.ConnID]core.Connection),
	}
}

// Register adds conn to its owner's connection set. Re-registering is harmless.
func (r *Registry) Register(conn core.Connection) {
	uid := conn.Identity().ID
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byConn[conn.ID()] = conn
	set, ok := r.byUser[uid]
	if !ok {
		set = make(map[core.ConnID]core.Connection)
		r.byUser[uid] = set
	}
	set[conn.ID()] = conn
	log.Info().Str("module", "app.registry").Str("conn", string(conn.ID())).Str("user", string(uid)).Int("user_conns", len(set)).Msg("registered connection")
}

// Unregister removes conn. It reports whether conn was the user's last one.
func (r *Registry) Unregister(conn core.Connection) (last bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byConn[conn.ID()]; !ok {
		return false
	}
	delete(r.byConn, conn.ID())
	uid := conn.Identity().ID
	if set, ok := r.byUser[uid]; ok {
		delete(set, conn.ID())
		if len(set) == 0 {
			delete(r.byUser, uid)
			last = true
		}
	}
	log.Info().Str("module", "app.registry").Str("conn", string(conn.ID())).Str("user", string(uid)).Bool("last", last).Msg("unregistered connection")
	return last
}

// Connections returns a snapshot of the user's live connections.
func (r *Registry) Connections(uid domain.UserID) []core.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.byUser[uid]
	out := make([]core.Connection, 0, len(set))
	for _, c := range set {
		out = append(out, c)
	}
	return out
}

func (r *Registry) HasConnection(uid domain.UserID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[uid]) > 0
}

// SendToUser pushes f to every live connection of uid, best effort.
// It returns the number of connections that accepted the frame.
func (r *Registry) SendToUser(uid domain.UserID, f core.Frame) int {
	sent := 0
	for _, c := range r.Connections(uid) {
		if err := c.TrySend(f); err != nil {
			log.Debug().Err(err).Str("module", "app.registry").Str("conn", string(c.ID())).Msg("send to user dropped")
			continue
		}
		sent++
	}
	return sent
}

// Count returns the number of live connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}

// All returns a snapshot of every live connection.
func (r *Registry) All() []core.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.Connection, 0, len(r.byConn))
	for _, c := range r.byConn {
		out = append(out, c)
	}
	return out
}
