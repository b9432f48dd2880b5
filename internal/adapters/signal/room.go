package signal

import (
	"context"

	"github.com/dkeye/projectchat/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleJoin(ctx context.Context, conn *wsConn, data []byte) {
	pid, ok := ctl.decodeProject(conn, data)
	if !ok {
		return
	}
	if err := ctl.Orch.Join(ctx, conn, pid); err != nil {
		ctl.sendErr(conn, err, pid)
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(conn.id)).Str("project", string(pid)).Msg("join")
	ctl.sendJSON(conn, struct {
		Type      string           `json:"type"`
		ProjectID domain.ProjectID `json:"project_id"`
	}{"room_joined", pid})
}

// handleLeave leaves one room; the connection itself stays open.
func (ctl *SignalWSController) handleLeave(conn *wsConn, data []byte) {
	pid, ok := ctl.decodeProject(conn, data)
	if !ok {
		return
	}
	ctl.Orch.Leave(conn, pid)
	log.Info().Str("module", "signal").Str("conn", string(conn.id)).Str("project", string(pid)).Msg("leave")
	ctl.sendJSON(conn, struct {
		Type      string           `json:"type"`
		ProjectID domain.ProjectID `json:"project_id"`
	}{"room_left", pid})
}
