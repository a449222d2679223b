package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const operatorCtxKey = "operator"

func (h *Handler) operatorMiddleware(c *gin.Context) {
	if !h.opts.AuthEnabled {
		c.Next()
		return
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		// Browsers cannot set headers on a WebSocket upgrade.
		if t := c.Query("access_token"); t != "" && c.FullPath() == "/ws" {
			header = "Bearer " + t
		}
	}
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	operator, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(operatorCtxKey, operator)
	c.Next()
}
