package core

import "github.com/dkeye/projectchat/internal/domain"

type ConnID string

// Connection binds a verified identity and its transport endpoint.
// This is what the registry and the rooms store and fan out to.
type Connection interface {
	SignalConnection
	ID() ConnID
	Identity() *domain.Identity
}
