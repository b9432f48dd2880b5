package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dkeye/projectchat/internal/auth"
	"github.com/dkeye/projectchat/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type SendRequest struct {
	Text       string `json:"text"`
	Attachment string `json:"attachment,omitempty"`
}

type SessionRequest struct {
	Token string `json:"token"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func statusOf(err error) int {
	switch domain.Code(err) {
	case domain.CodeAuthInvalid:
		return http.StatusUnauthorized
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) ErrorResponse {
	code := domain.Code(err)
	msg := err.Error()
	switch code {
	case domain.CodeStorage:
		msg = domain.ErrStorage.Error()
	case domain.CodeInternal:
		msg = "internal error"
	case domain.CodeAuthInvalid:
		msg = domain.ErrCredentialInvalid.Error()
		if errors.Is(err, domain.ErrCredentialRequired) {
			msg = domain.ErrCredentialRequired.Error()
		}
	}
	return ErrorResponse{Error: code, Message: msg}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusOf(err), errorBody(err))
}

// getChat handles GET /api/projects/:id/chat[?after=N].
func (h *handlers) getChat(c *gin.Context) {
	id := identityOf(c)
	pid := domain.ProjectID(c.Param("id"))

	var after uint64
	if raw := c.Query("after"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: domain.CodeValidation, Message: "after must be a sequence number"})
			return
		}
		after = n
	}

	chatLog, err := h.orch.GetLog(c.Request.Context(), pid, id.ID, after)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chatLog)
}

// postChat handles POST /api/projects/:id/chat.
func (h *handlers) postChat(c *gin.Context) {
	id := identityOf(c)
	pid := domain.ProjectID(c.Param("id"))

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: domain.CodeValidation, Message: "malformed payload"})
		return
	}
	msg, err := h.orch.Send(c.Request.Context(), id, pid, req.Text, req.Attachment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// createSession stores a verified token in the cookie session so browser
// websocket handshakes, which cannot carry headers, can present it.
func (h *handlers) createSession(c *gin.Context) {
	tok := auth.BearerToken(c.GetHeader("Authorization"))
	if tok == "" {
		var req SessionRequest
		_ = c.ShouldBindJSON(&req)
		tok = req.Token
	}
	id, err := h.verifier.Verify(tok)
	if err != nil {
		respondError(c, err)
		return
	}
	s := sessions.Default(c)
	s.Set(sessionTokenKey, tok)
	if err := s.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("save session")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, id)
}

func (h *handlers) deleteSession(c *gin.Context) {
	s := sessions.Default(c)
	s.Delete(sessionTokenKey)
	if err := s.Save(); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"rooms":       h.orch.Rooms.List(),
		"connections": h.orch.Registry.Count(),
	})
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
