package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      List folders
// @Description  Flattened folder paths, root first
// @Tags         storage
// @Produce      json
// @Success      200  {object}  map[string][]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/folders [get]
// @Security     BearerAuth
func (h *Handler) getFolders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"folders": h.services.FolderPaths()})
}

// @Summary      Refresh folders
// @Description  Re-reads the storage tree; on failure the previous list is kept
// @Tags         storage
// @Produce      json
// @Success      200  {object}  map[string][]string
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/folders/refresh [post]
// @Security     BearerAuth
func (h *Handler) refreshFolders(c *gin.Context) {
	if err := h.services.RefreshFolders(c.Request.Context()); err != nil {
		h.respondServiceError(c, "folder_refresh_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"folders": h.services.FolderPaths()})
}

// @Summary      List files of the selected folder
// @Tags         storage
// @Produce      json
// @Success      200  {object}  models.FileList
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/files [get]
// @Security     BearerAuth
func (h *Handler) getFiles(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.FileList())
}
