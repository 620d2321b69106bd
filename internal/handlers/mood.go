package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	welcomeText = "Welcome to Mood Journal! To get started, please use the guide."

	msgNoMoodRecords = "No mood records currently stored!"
	msgMoodAdded     = "Mood record successfully added!"

	moodRecordsKey = "mood records"
	statusOK       = "ok"
)

type addMoodRequest struct {
	Description string `json:"description" binding:"required" example:"Calm and rested"`
}

// @Summary      Welcome
// @Tags         system
// @Produce      plain
// @Success      200  {string}  string
// @Router       / [get]
func (h *Handler) index(c *gin.Context) {
	c.String(http.StatusOK, welcomeText)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// @Summary      List mood records
// @Description  Returns all of the current user's records in insertion order, or a message when there are none.
// @Tags         mood
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "mood records | message"
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /mood [get]
// @Security     SessionCookie
func (h *Handler) getMoods(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, codeUnauthenticated, msgMissingSession)
		return
	}

	entries, err := h.services.ListForUser(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "mood_list_failed", "username", id.Username)
		return
	}

	if len(entries) == 0 {
		c.JSON(http.StatusOK, messageResponse{Message: msgNoMoodRecords})
		return
	}
	c.JSON(http.StatusOK, gin.H{moodRecordsKey: entries})
}

// @Summary      Add mood record
// @Description  Today's record; the streak continues when a record exists for yesterday.
// @Tags         mood
// @Accept       json
// @Produce      json
// @Param        body  body      addMoodRequest  true  "Mood payload"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /mood [post]
// @Security     SessionCookie
func (h *Handler) addMood(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, codeUnauthenticated, msgMissingSession)
		return
	}

	var req addMoodRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	entry, err := h.services.AddEntry(c.Request.Context(), id, req.Description)
	if err != nil {
		h.respondError(c, err, "mood_add_failed", "username", id.Username)
		return
	}

	h.log.Infow("mood_added", "username", id.Username, "date", entry.Date, "streak", entry.Streak)
	c.JSON(http.StatusOK, messageResponse{Message: msgMoodAdded})
}
