package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"mood_journal/internal/models"
	"mood_journal/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	identityKey = "identity"

	msgMissingSession      = "missing session"
	msgInvalidHeaderFormat = "invalid Authorization header format"
	msgInvalidSession      = "invalid or expired session"
)

// sessionMiddleware resolves the session from the cookie or a Bearer header
// and stores the identity in the Gin context.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	token, msg := h.sessionToken(c)
	if token == "" {
		abortWithError(c, http.StatusUnauthorized, codeUnauthenticated, msg)
		return
	}

	id, err := h.services.Resolve(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			abortWithError(c, http.StatusUnauthorized, codeUnauthenticated, msgInvalidSession)
			return
		}
		h.respondError(c, err, "session_resolve_failed")
		return
	}

	c.Set(identityKey, id)
	c.Next()
}

// sessionToken returns the presented token, or "" and the reason it is missing.
func (h *Handler) sessionToken(c *gin.Context) (string, string) {
	if v, err := c.Cookie(h.cookie.Name); err == nil && v != "" {
		return v, ""
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return "", msgMissingSession
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", msgInvalidHeaderFormat
	}
	return parts[1], ""
}

func identityFrom(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

// requestLogger logs one line per request once the handler chain has run.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
	)
}
