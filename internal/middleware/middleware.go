package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/roamly/api/internal/helpers"
	"github.com/roamly/api/internal/models"
	"github.com/roamly/api/internal/services"
)

const (
	CtxClaims = "claims"
	CtxActor  = "actor"

	requestIDHeader = "X-Request-ID"
	accessCookie    = "access_token"
)

// RequestID tags every request, reusing the client's id when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// StructuredLogger emits one slog line per request.
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString("request_id"),
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request", attrs...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("request", attrs...)
		default:
			logger.Info("request", attrs...)
		}
	}
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return token
		}
	}
	if cookie, err := c.Cookie(accessCookie); err == nil {
		return cookie
	}
	return ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse(http.StatusUnauthorized, message))
}

// AuthMiddleware validates the bearer token (or auth cookie), loads the
// account and rejects deleted or blocked users.
func AuthMiddleware(secret string, users models.UserRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c, "authentication required")
			return
		}

		claims, err := helpers.ValidateToken(token, secret)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		userID, err := claims.ObjectID()
		if err != nil {
			abortUnauthorized(c, "invalid token subject")
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			abortUnauthorized(c, "account no longer exists")
			return
		}
		if user.IsDeleted {
			abortUnauthorized(c, "account no longer exists")
			return
		}
		if user.IsActive == models.StateBlocked {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse(http.StatusForbidden, "this account has been blocked"))
			return
		}

		c.Set(CtxClaims, claims)
		c.Set(CtxActor, services.Actor{ID: user.ID, Role: user.Role})
		c.Next()
	}
}

// RequireRoles guards a route group to the given roles. Must run after
// AuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			abortUnauthorized(c, "authentication required")
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse(http.StatusForbidden, "insufficient permissions"))
	}
}

// ActorFrom pulls the authenticated actor out of the request context.
func ActorFrom(c *gin.Context) (services.Actor, bool) {
	v, ok := c.Get(CtxActor)
	if !ok {
		return services.Actor{}, false
	}
	actor, ok := v.(services.Actor)
	return actor, ok
}
