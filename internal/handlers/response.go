package handlers

import (
	"errors"
	"net/http"

	"autoprint/internal/repository"
	"autoprint/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK           = "ok"
	statusSent         = "sent"
	statusScheduled    = "scheduled"
	statusCancelled    = "cancelled"
	statusPolling      = "polling"
	statusIdle         = "idle"
	errInvalidBodyPref = "invalid body: "
	errControllerDown  = "device controller unreachable"
	errBusy            = "request already in progress"
	errValidation      = "validation failed"
	errInternal        = "internal error"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondServiceError maps core errors onto HTTP statuses.
func (h *Handler) respondServiceError(c *gin.Context, logKey string, err error) {
	var ve *repository.ValidationError
	var te *repository.TransportError
	switch {
	case errors.As(err, &ve):
		if h.log != nil {
			h.log.Infow(logKey, "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        errValidation,
			"field_errors": h.services.FieldErrors(),
		})
	case errors.Is(err, service.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": errBusy})
	case errors.Is(err, service.ErrInvalidTime),
		errors.Is(err, service.ErrInvalidTrigger),
		errors.Is(err, service.ErrInvalidPath):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &te):
		h.logAndJSONError(c, http.StatusBadGateway, errControllerDown, logKey, err, "status_code", te.StatusCode)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, logKey, err)
	}
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
