package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/projectchat/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

func (ctl *SignalWSController) writePump(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("conn", string(c.id)).Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("writePump set deadline")
				c.Close()
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("writePump write error")
				c.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("writePump ping failed")
				c.Close()
				return
			}
		}
	}
}

// readPump owns the connection lifetime: whatever makes it stop (client
// close, broken pipe, missed pongs) ends in Disconnect.
func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, c *wsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(c.id)).Msg("readPump closing")
		ctl.Orch.Disconnect(c)
		if ctl.limiter != nil {
			ctl.limiter.Forget(c.id)
		}
		cancel()
	}()

	pongWait := ctl.opts.PingPeriod * 10 / 9
	if ctl.opts.ReadLimit > 0 {
		c.conn.SetReadLimit(ctl.opts.ReadLimit)
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("readPump read error")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		ctl.handleSignal(ctx, c, data)
	}
}

func (ctl *SignalWSController) handleSignal(ctx context.Context, c *wsConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("bad json")
		ctl.sendError(c, domain.CodeValidation, "bad_payload", "")
		return
	}
	if ctl.limiter != nil && !ctl.limiter.Allow(c.id) {
		ctl.sendError(c, "rate_limited", "too many events", "")
		return
	}

	switch env.Type {
	case "join_room":
		ctl.handleJoin(ctx, c, data)
	case "leave_room":
		ctl.handleLeave(c, data)
	case "typing":
		ctl.handleTyping(c, data)
	case "stop_typing":
		ctl.handleStopTyping(c, data)
	case "send_message":
		ctl.handleSendMessage(ctx, c, data)
	case "ping":
		ctl.handlePing(c)
	case "whoami":
		ctl.handleWhoAmI(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
		ctl.sendError(c, domain.CodeValidation, "unknown event type", "")
	}
}

func (ctl *SignalWSController) sendJSON(c *wsConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *SignalWSController) sendError(c *wsConn, code, msg string, pid domain.ProjectID) {
	resp := struct {
		Type      string           `json:"type"`
		Error     string           `json:"error"`
		Message   string           `json:"message,omitempty"`
		ProjectID domain.ProjectID `json:"project_id,omitempty"`
	}{
		Type:      "error",
		Error:     code,
		Message:   msg,
		ProjectID: pid,
	}
	ctl.sendJSON(c, resp)
}

func (ctl *SignalWSController) sendErr(c *wsConn, err error, pid domain.ProjectID) {
	ctl.sendError(c, domain.Code(err), err.Error(), pid)
}

// decodeProject reads {"project_id": ...} from a client event.
func (ctl *SignalWSController) decodeProject(c *wsConn, data []byte) (domain.ProjectID, bool) {
	var p struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.ProjectID == "" {
		ctl.sendError(c, domain.CodeValidation, "project_id required", "")
		return "", false
	}
	return domain.ProjectID(p.ProjectID), true
}
