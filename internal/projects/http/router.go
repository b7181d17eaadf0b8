package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group (mounted at /projects).
// The list is served both with and without the trailing slash.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/", h.list)
	rg.GET("/:project_id", h.get)
}
