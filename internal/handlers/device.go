package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// runDeviceCommand sends one command and answers with the refreshed mirror.
func (h *Handler) runDeviceCommand(c *gin.Context, name string, send func(ctx context.Context) error) {
	if err := send(c.Request.Context()); err != nil {
		h.respondServiceError(c, "device_command_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  statusSent,
		"command": name,
		"state":   h.services.Snapshot(),
	})
}

// @Summary      Start up printer
// @Description  Switches printer and light on
// @Tags         device
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, command, state"
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/device/startup [post]
// @Security     BearerAuth
func (h *Handler) startUp(c *gin.Context) {
	h.runDeviceCommand(c, "startup", h.services.StartUp)
}

// @Summary      Shut down printer
// @Description  Starts the cooldown after which printer and light turn off
// @Tags         device
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/device/shutdown [post]
// @Security     BearerAuth
func (h *Handler) shutDown(c *gin.Context) {
	h.runDeviceCommand(c, "shutdown", h.services.ShutDown)
}

// @Summary      Cancel shutdown
// @Tags         device
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/device/cancel-shutdown [post]
// @Security     BearerAuth
func (h *Handler) cancelShutDown(c *gin.Context) {
	h.runDeviceCommand(c, "cancel-shutdown", h.services.CancelShutDown)
}

// @Summary      Toggle light
// @Tags         device
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/device/light [post]
// @Security     BearerAuth
func (h *Handler) toggleLight(c *gin.Context) {
	h.runDeviceCommand(c, "light", h.services.ToggleLight)
}
