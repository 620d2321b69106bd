package handlers

import (
	"errors"
	"net/http"

	"mood_journal/internal/service"

	"github.com/gin-gonic/gin"
)

// Error codes carried in the error envelope.
const (
	codeUnauthenticated   = "UNAUTHENTICATED"
	codeDuplicateUsername = "DUPLICATE_USERNAME"
	codeValidationFailed  = "VALIDATION_FAILED"
	codeInternal          = "INTERNAL_ERROR"

	msgInvalidCredentials = "invalid credentials"
	msgInternal           = "internal server error"
)

// errorResponse is the single error envelope returned by every endpoint.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func abortWithError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: msg, Code: code})
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
	abortWithError(c, http.StatusBadRequest, codeValidationFailed, err.Error())
}

// respondError maps a service error onto the envelope. Causes of 5xx are
// logged under logKey and never echoed to the client.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrValidation):
		abortWithError(c, http.StatusBadRequest, codeValidationFailed, err.Error())
	case errors.Is(err, service.ErrDuplicateUsername):
		abortWithError(c, http.StatusConflict, codeDuplicateUsername, err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		h.log.Infow(logKey, append([]interface{}{"err", err}, kv...)...)
		abortWithError(c, http.StatusUnauthorized, codeUnauthenticated, msgInvalidCredentials)
	default:
		h.log.Errorw(logKey, append([]interface{}{"err", err}, kv...)...)
		abortWithError(c, http.StatusInternalServerError, codeInternal, msgInternal)
	}
}
