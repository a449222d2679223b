package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Get mirrored state
// @Description  Device state and scheduled job as last polled; may lag by one poll interval
// @Tags         state
// @Produce      json
// @Success      200  {object}  models.Snapshot
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Snapshot())
}

// @Summary      Refresh state now
// @Tags         state
// @Produce      json
// @Success      200  {object}  models.Snapshot
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/state/refresh [post]
// @Security     BearerAuth
func (h *Handler) refreshState(c *gin.Context) {
	if err := h.services.RefreshState(c.Request.Context()); err != nil {
		h.respondServiceError(c, "state_refresh_failed", err)
		return
	}
	c.JSON(http.StatusOK, h.services.Snapshot())
}

// @Summary      Activate view
// @Description  Starts polling the device controller
// @Tags         view
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/view/activate [post]
// @Security     BearerAuth
func (h *Handler) activateView(c *gin.Context) {
	h.services.StartPolling()
	c.JSON(http.StatusOK, gin.H{"status": statusPolling})
}

// @Summary      Deactivate view
// @Description  Stops polling; returns once no poll is running
// @Tags         view
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/view/deactivate [post]
// @Security     BearerAuth
func (h *Handler) deactivateView(c *gin.Context) {
	h.services.StopPolling()
	c.JSON(http.StatusOK, gin.H{"status": statusIdle})
}
