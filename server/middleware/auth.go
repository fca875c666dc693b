package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/memoscribe/errors"
)

// ContextKeySubject is the Gin context key holding the token subject.
const ContextKeySubject = "auth_subject"

// AuthConfig configures the bearer token middleware.
type AuthConfig struct {
	// TokenValidator validates a token string and returns the claims.
	TokenValidator func(token string) (map[string]any, error)
	// SkipPaths are URL path prefixes that bypass authentication.
	SkipPaths []string
}

// Auth returns a Gin middleware that validates Bearer tokens using the
// configured TokenValidator. Validated claims are stored in the Gin context
// under their claim names; "sub" is also stored as ContextKeySubject.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header required.")
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortUnauthorized(c, "Invalid authorization header format.")
			return
		}

		claims, err := cfg.TokenValidator(strings.TrimSpace(token))
		if err != nil {
			abortUnauthorized(c, "Invalid token.")
			return
		}

		for key, value := range claims {
			c.Set(key, value)
		}
		if sub, ok := claims["sub"].(string); ok {
			c.Set(ContextKeySubject, sub)
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, reason string) {
	appErr := errors.Unauthorized(reason)
	c.Header("WWW-Authenticate", `Bearer realm="memoscribe"`)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
