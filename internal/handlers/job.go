package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Schedule job
// @Description  Submits the current draft. Field-scoped rejections come back as field_errors
// @Tags         job
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, job"
// @Failure      400  {object}  map[string]interface{}  "error, field_errors"
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/job [post]
// @Security     BearerAuth
func (h *Handler) submitJob(c *gin.Context) {
	job, err := h.services.SubmitJob(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "job_submit_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusScheduled, "job": job})
}

// @Summary      Cancel job
// @Tags         job
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/job [delete]
// @Security     BearerAuth
func (h *Handler) cancelJob(c *gin.Context) {
	if err := h.services.CancelJob(c.Request.Context()); err != nil {
		h.respondServiceError(c, "job_cancel_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusCancelled})
}

// @Summary      Get field errors
// @Description  Messages of the last rejected submission, one slot per field
// @Tags         job
// @Produce      json
// @Success      200  {object}  models.FieldErrors
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/job/errors [get]
// @Security     BearerAuth
func (h *Handler) getFieldErrors(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.FieldErrors())
}
