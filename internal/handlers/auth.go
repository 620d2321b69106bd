package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	msgUserCreated = "Successfully created new user!"
	msgLoggedIn    = "Successfully logged in!"
	msgLoggedOut   = "Successfully logged out!"

	msgMissingBasicAuth = "basic auth credentials required"
)

// Credentials payload for registration.
type registerRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"s3cr3t"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 envelope on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.badRequest(c, err)
		return false
	}
	return true
}

// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Credentials"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /user [post]
func (h *Handler) register(c *gin.Context) {
	var input registerRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	id, err := h.services.Register(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondError(c, err, "auth_register_failed", "username", input.Username)
		return
	}

	h.log.Infow("auth_user_registered", "user_id", id, "username", input.Username)
	c.JSON(http.StatusOK, messageResponse{Message: msgUserCreated})
}

// @Summary      Log in
// @Description  Credentials are read from the Basic Authorization header. Sets the session cookie.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /login [post]
// @Security     BasicAuth
func (h *Handler) login(c *gin.Context) {
	username, password, ok := c.Request.BasicAuth()
	if !ok || username == "" || password == "" {
		abortWithError(c, http.StatusUnauthorized, codeUnauthenticated, msgMissingBasicAuth)
		return
	}

	token, sess, err := h.services.Login(c.Request.Context(), username, password)
	if err != nil {
		h.respondError(c, err, "auth_login_failed", "username", username)
		return
	}

	h.setSessionCookie(c, token, int(h.cookie.MaxAge.Seconds()))
	h.log.Infow("auth_logged_in", "username", sess.Username, "expires_at", sess.ExpiresAt)
	c.JSON(http.StatusOK, messageResponse{Message: msgLoggedIn})
}

// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /logout [get]
// @Security     SessionCookie
func (h *Handler) logout(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, codeUnauthenticated, msgMissingSession)
		return
	}

	if err := h.services.Logout(c.Request.Context(), id.SessionID); err != nil {
		h.respondError(c, err, "auth_logout_failed", "username", id.Username)
		return
	}

	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, messageResponse{Message: msgLoggedOut})
}

// setSessionCookie writes the session cookie; maxAge < 0 deletes it.
func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
