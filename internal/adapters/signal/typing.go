package signal

func (ctl *SignalWSController) handleTyping(conn *wsConn, data []byte) {
	pid, ok := ctl.decodeProject(conn, data)
	if !ok {
		return
	}
	if err := ctl.Orch.Typing(conn, pid); err != nil {
		ctl.sendErr(conn, err, pid)
	}
}

func (ctl *SignalWSController) handleStopTyping(conn *wsConn, data []byte) {
	pid, ok := ctl.decodeProject(conn, data)
	if !ok {
		return
	}
	if err := ctl.Orch.StopTyping(conn, pid); err != nil {
		ctl.sendErr(conn, err, pid)
	}
}
