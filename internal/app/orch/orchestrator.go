package orch

import (
	"time"

	"github.com/dkeye/projectchat/internal/app"
	"github.com/dkeye/projectchat/internal/core"
	"github.com/dkeye/projectchat/internal/domain"
	"github.com/rs/zerolog/log"
)

// Orchestrator owns the live chat state of one process and sequences every
// operation that touches more than one piece of it.
type Orchestrator struct {
	Registry    *app.Registry
	Rooms       *app.RoomManager
	Presence    *app.Presence
	Broadcaster *app.Broadcaster
	Chat        *app.ChatService

	// EchoToSender also delivers receive_message to the sender's own
	// connections. Clients then de-duplicate by message id.
	EchoToSender bool
}

type Options struct {
	TypingTimeout time.Duration
	Policy        app.Policy
	EchoToSender  bool
}

// New wires a fresh registry, room manager, broadcaster and presence
// coordinator around chat.
func New(chat *app.ChatService, opts Options) *Orchestrator {
	rooms := app.NewRoomManager()
	b := app.NewBroadcaster(rooms, opts.Policy)
	return &Orchestrator{
		Registry:     app.NewRegistry(),
		Rooms:        rooms,
		Presence:     app.NewPresence(b, opts.TypingTimeout),
		Broadcaster:  b,
		Chat:         chat,
		EchoToSender: opts.EchoToSender,
	}
}

// Connect admits a connection whose identity has already been verified.
func (o *Orchestrator) Connect(conn core.Connection) {
	o.Registry.Register(conn)
}

// Disconnect removes conn from the registry and from every room, then forces
// typing back to idle wherever the user has no joined connection left.
// All of it is done before Disconnect returns.
func (o *Orchestrator) Disconnect(conn core.Connection) {
	uid := conn.Identity().ID
	last := o.Registry.Unregister(conn)
	left := o.Rooms.LeaveAll(conn)
	cleared := o.Presence.ClearUser(uid, func(pid domain.ProjectID) bool {
		return last || !o.Rooms.UserInRoom(uid, pid)
	})
	conn.Close()
	log.Info().Str("module", "orch").Str("conn", string(conn.ID())).Str("user", string(uid)).
		Int("rooms_left", len(left)).Int("typing_cleared", len(cleared)).Bool("last", last).Msg("disconnected")
}

// Shutdown closes every live connection. Their read loops run Disconnect.
func (o *Orchestrator) Shutdown() {
	conns := o.Registry.All()
	for _, c := range conns {
		c.Close()
	}
	o.Presence.Close()
	log.Info().Str("module", "orch").Int("connections", len(conns)).Msg("closed all connections")
}
