package orch

import (
	"context"

	"github.com/dkeye/projectchat/internal/core"
	"github.com/dkeye/projectchat/internal/domain"
)

// Send appends a message to the durable log and, only once that succeeded,
// pushes the canonical record to the project room.
func (o *Orchestrator) Send(ctx context.Context, id *domain.Identity, pid domain.ProjectID, text, attachment string) (*domain.ChatMessage, error) {
	msg, err := o.Chat.Append(ctx, pid, id.ID, text, attachment)
	if err != nil {
		return nil, err
	}
	o.Presence.StopTyping(id.ID, pid)

	exclude := id.ID
	if o.EchoToSender {
		exclude = ""
	}
	o.Broadcaster.Broadcast(pid, core.EventReceiveMessage, msg, exclude)
	return msg, nil
}

// Typing is accepted only for rooms the connection has joined.
func (o *Orchestrator) Typing(conn core.Connection, pid domain.ProjectID) error {
	if err := o.requireJoined(conn, pid); err != nil {
		return err
	}
	o.Presence.Typing(conn.Identity(), pid)
	return nil
}

func (o *Orchestrator) StopTyping(conn core.Connection, pid domain.ProjectID) error {
	if err := o.requireJoined(conn, pid); err != nil {
		return err
	}
	o.Presence.StopTyping(conn.Identity().ID, pid)
	return nil
}

// GetLog is the durable read path.
func (o *Orchestrator) GetLog(ctx context.Context, pid domain.ProjectID, requester domain.UserID, after uint64) (*domain.ChatLog, error) {
	return o.Chat.GetLog(ctx, pid, requester, after)
}
