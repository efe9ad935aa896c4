package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/auth"
	"github.com/yukikurage/project-task-api/internal/constants"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/models"
)

// RequireAuth resolves the bearer token (or the session fallback) and aborts
// with Unauthenticated, TokenExpired or TokenInvalid when it cannot.
func RequireAuth(provider *auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Error(apierrors.ErrUnauthenticated)
			c.Abort()
			return
		}

		user, claims, err := provider.Resolve(c.Request.Context(), token)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		setIdentity(c, user, claims)
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is present and
// otherwise continues anonymously.
func OptionalAuth(provider *auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if user, claims, err := provider.Resolve(c.Request.Context(), token); err == nil {
				setIdentity(c, user, claims)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated caller, nil when anonymous
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(constants.ContextKeyUser); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// CurrentClaims returns the claims of the token the caller presented
func CurrentClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(constants.ContextKeyClaims); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

func setIdentity(c *gin.Context, user *models.User, claims *auth.Claims) {
	c.Set(constants.ContextKeyUser, user)
	c.Set(constants.ContextKeyClaims, claims)
}

// extractToken prefers the Authorization header and falls back to the token
// stored in the session at login.
func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return ""
	}
	if token, ok := sessions.Default(c).Get(constants.SessionKeyToken).(string); ok {
		return token
	}
	return ""
}
