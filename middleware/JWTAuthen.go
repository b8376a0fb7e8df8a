package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"taskmanager/httpx"
	"taskmanager/model"
)

const (
	CallerKey       = "userId"
	ClaimsKey       = "claims"
	RefreshTokenKey = "refreshToken"
)

// TokenParser is satisfied by services.TokenService.
type TokenParser interface {
	ParseAccess(raw string) (*model.AccessClaims, error)
	ParseRefresh(raw string) (*model.RefreshClaims, error)
}

func bearer(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// AccessTokenMiddleware admits requests carrying a valid access token and
// stores the caller's ID under CallerKey.
func AccessTokenMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			httpx.Error(c, model.Unauthorized("Not authorized, no token"))
			return
		}
		claims, err := tokens.ParseAccess(raw)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.Set(ClaimsKey, claims)
		c.Set(CallerKey, claims.UserID)
		c.Next()
	}
}

// RefreshTokenMiddleware checks the refresh token's signature only; whether
// it is still the current one is up to the handler.
func RefreshTokenMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			httpx.Error(c, model.Unauthorized("Refresh token is missing"))
			return
		}
		claims, err := tokens.ParseRefresh(raw)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.Set(CallerKey, claims.UserID)
		c.Set(RefreshTokenKey, raw)
		c.Next()
	}
}

// CronSecretMiddleware requires X-Cron-Secret to match secret. An empty
// secret disables the check.
func CronSecretMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		got := c.GetHeader("X-Cron-Secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			httpx.Error(c, model.Unauthorized("Invalid cron secret"))
			return
		}
		c.Next()
	}
}

// CallerID returns the authenticated user's ID set by AccessTokenMiddleware.
func CallerID(c *gin.Context) string {
	return c.GetString(CallerKey)
}
