package signal

import "github.com/dkeye/projectchat/internal/domain"

func (ctl *SignalWSController) handlePing(conn *wsConn) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *SignalWSController) handleWhoAmI(conn *wsConn) {
	resp := struct {
		Type  string             `json:"type"`
		User  domain.Identity    `json:"user"`
		Rooms []domain.ProjectID `json:"rooms"`
	}{
		Type:  "whoami",
		User:  *conn.identity,
		Rooms: ctl.Orch.Rooms.RoomsOf(conn),
	}
	ctl.sendJSON(conn, resp)
}
