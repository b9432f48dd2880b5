package orch

import (
	"context"
	"fmt"

	"github.com/dkeye/projectchat/internal/core"
	"github.com/dkeye/projectchat/internal/domain"
	"github.com/rs/zerolog/log"
)

// Join subscribes conn to the room of pid. Membership in the project is
// checked once here and not again per message. Joining twice is a no-op.
func (o *Orchestrator) Join(ctx context.Context, conn core.Connection, pid domain.ProjectID) error {
	if err := o.Chat.Authorize(ctx, pid, conn.Identity().ID); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("conn", string(conn.ID())).Str("project", string(pid)).Msg("join refused")
		return err
	}
	o.Rooms.Join(conn, pid)
	return nil
}

// Leave unsubscribes conn from pid. Leaving a room it is not in is a no-op.
func (o *Orchestrator) Leave(conn core.Connection, pid domain.ProjectID) {
	if !o.Rooms.Leave(conn, pid) {
		return
	}
	uid := conn.Identity().ID
	if !o.Rooms.UserInRoom(uid, pid) {
		o.Presence.StopTyping(uid, pid)
	}
}

func (o *Orchestrator) requireJoined(conn core.Connection, pid domain.ProjectID) error {
	if !o.Rooms.IsMember(conn, pid) {
		return fmt.Errorf("connection not joined to %s: %w", pid, domain.ErrForbidden)
	}
	return nil
}
