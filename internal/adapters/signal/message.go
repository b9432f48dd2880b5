package signal

import (
	"context"
	"encoding/json"

	"github.com/dkeye/projectchat/internal/domain"
)

// handleSendMessage is the live-channel twin of POST /api/projects/:id/chat.
// The sender gets the canonical record back as message_sent, carried under
// payload like receive_message.
func (ctl *SignalWSController) handleSendMessage(ctx context.Context, conn *wsConn, data []byte) {
	var p struct {
		ProjectID  string `json:"project_id"`
		Text       string `json:"text"`
		Attachment string `json:"attachment"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.ProjectID == "" {
		ctl.sendError(conn, domain.CodeValidation, "project_id required", "")
		return
	}
	pid := domain.ProjectID(p.ProjectID)
	msg, err := ctl.Orch.Send(ctx, conn.identity, pid, p.Text, p.Attachment)
	if err != nil {
		ctl.sendErr(conn, err, pid)
		return
	}
	ctl.sendJSON(conn, struct {
		Type    string              `json:"type"`
		Payload *domain.ChatMessage `json:"payload"`
	}{"message_sent", msg})
}
