package http

import (
	"github.com/dkeye/projectchat/internal/auth"
	"github.com/dkeye/projectchat/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	identityKey     = "identity"
	sessionTokenKey = "token"
)

// IdentityVerifier is the stateless credential check.
type IdentityVerifier interface {
	Verify(credential string) (*domain.Identity, error)
}

// credential picks the bearer credential of a request: Authorization header
// first, then the token query parameter when allowed, then the token kept
// in the cookie session.
func credential(c *gin.Context, allowQuery bool) string {
	if tok := auth.BearerToken(c.GetHeader("Authorization")); tok != "" {
		return tok
	}
	if allowQuery {
		if tok := c.Query("token"); tok != "" {
			return tok
		}
	}
	if tok, ok := sessions.Default(c).Get(sessionTokenKey).(string); ok {
		return tok
	}
	return ""
}

// Authenticate verifies the credential on every request and refuses the
// request before any handler runs when it is missing or invalid.
// allowQuery is for websocket upgrades, where browsers cannot set headers.
func Authenticate(v IdentityVerifier, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := v.Verify(credential(c, allowQuery))
		if err != nil {
			log.Warn().Err(err).Str("module", "adapters.http").Str("path", c.FullPath()).Msg("credential refused")
			c.AbortWithStatusJSON(statusOf(err), errorBody(err))
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

func identityOf(c *gin.Context) *domain.Identity {
	return c.MustGet(identityKey).(*domain.Identity)
}
