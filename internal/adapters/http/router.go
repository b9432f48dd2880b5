package http

import (
	"context"

	"github.com/dkeye/projectchat/internal/adapters/signal"
	"github.com/dkeye/projectchat/internal/app/orch"
	"github.com/dkeye/projectchat/internal/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type handlers struct {
	orch     *orch.Orchestrator
	verifier IdentityVerifier
}

// SetupRouter wires the REST endpoints and the live channel upgrade.
//   - POST/DELETE /api/session               remember/forget a token in the cookie session
//   - GET/POST    /api/projects/:id/chat     durable read / send
//   - GET         /api/rooms                 live room diagnostics
//   - GET         /api/ws                    websocket upgrade
func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator, v IdentityVerifier) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true})
	r.Use(sessions.Sessions("ChatSessions", store))

	h := &handlers{orch: o, verifier: v}
	ws := signal.NewSignalWSController(o, signal.Options{
		ReadLimit:    cfg.ReadLimit,
		PingPeriod:   cfg.PingPeriod,
		SendBuffer:   cfg.Chat.SendBuffer,
		RateLimit:    cfg.Chat.RateLimit,
		RateInterval: cfg.Chat.RateInterval,
	})

	r.GET("/healthz", h.health)

	api := r.Group("/api")
	api.POST("/session", h.createSession)
	api.DELETE("/session", h.deleteSession)

	authed := api.Group("", Authenticate(v, false))
	authed.GET("/projects/:id/chat", h.getChat)
	authed.POST("/projects/:id/chat", h.postChat)
	authed.GET("/rooms", h.listRooms)

	api.GET("/ws", Authenticate(v, true), func(c *gin.Context) {
		ws.HandleSignal(ctx, c, identityOf(c))
	})

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")
	return r
}
