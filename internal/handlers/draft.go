package handlers

import (
	"net/http"

	"autoprint/internal/models"

	"github.com/gin-gonic/gin"
)

// draftResponse is the draft plus its start time as a local wall-clock string.
type draftResponse struct {
	models.JobDraft
	TimeDisplay string `json:"time_display,omitempty"`
}

// BrowseRequest selects a file from the storage browser.
type BrowseRequest struct {
	// Storage path of the file, relative to the root
	Path string `json:"path" binding:"required" example:"cal/ring.gcode"`
}

func (h *Handler) draftView(d models.JobDraft) draftResponse {
	out := draftResponse{JobDraft: d}
	if h.services.Clock != nil {
		out.TimeDisplay = h.services.Clock.ToDisplay(d.StartTimeEpochMs)
	}
	return out
}

// @Summary      Get draft
// @Tags         draft
// @Produce      json
// @Success      200  {object}  draftResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/draft [get]
// @Security     BearerAuth
func (h *Handler) getDraft(c *gin.Context) {
	c.JSON(http.StatusOK, h.draftView(h.services.CurrentDraft()))
}

// @Summary      Update draft
// @Description  Only the fields present are changed; a folder change re-lists its files
// @Tags         draft
// @Accept       json
// @Produce      json
// @Param        body  body      models.DraftPatch  true  "Draft fields"
// @Success      200   {object}  draftResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/draft [put]
// @Security     BearerAuth
func (h *Handler) updateDraft(c *gin.Context) {
	var patch models.DraftPatch
	if ok := h.bindJSONOrBadRequest(c, &patch); !ok {
		return
	}
	d, err := h.services.UpdateDraft(c.Request.Context(), patch)
	if err != nil {
		h.respondServiceError(c, "draft_update_failed", err)
		return
	}
	c.JSON(http.StatusOK, h.draftView(d))
}

// @Summary      Select file from browser
// @Tags         draft
// @Accept       json
// @Produce      json
// @Param        body  body      BrowseRequest  true  "Storage path"
// @Success      200   {object}  draftResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/draft/browse [post]
// @Security     BearerAuth
func (h *Handler) browseSelect(c *gin.Context) {
	var req BrowseRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	d, err := h.services.BrowseSelect(c.Request.Context(), req.Path)
	if err != nil {
		h.respondServiceError(c, "draft_browse_failed", err)
		return
	}
	c.JSON(http.StatusOK, h.draftView(d))
}

// @Summary      Clear folder selection
// @Description  Leaves the draft without folder and file; the file list reports pending
// @Tags         draft
// @Produce      json
// @Success      200  {object}  draftResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/draft/folder [delete]
// @Security     BearerAuth
func (h *Handler) clearFolder(c *gin.Context) {
	c.JSON(http.StatusOK, h.draftView(h.services.ClearFolder()))
}
