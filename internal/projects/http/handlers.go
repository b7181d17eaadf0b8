package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rcos/telescope-api/internal/api/http/middleware"
	"github.com/rcos/telescope-api/internal/projects/domain"
)

func (h *Handler) list(c *gin.Context) {
	var semesterID *string
	if v, ok := c.GetQuery("semester_id"); ok {
		semesterID = &v
	}

	items, err := h.svc.List(c.Request.Context(), semesterID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	// Identifiers are integers; anything else cannot name a project.
	id, err := strconv.ParseInt(c.Param("project_id"), 10, 64)
	if err != nil {
		h.fail(c, domain.ErrNotFound)
		return
	}

	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotImplemented):
		c.JSON(http.StatusNotImplemented, gin.H{"ok": false, "error": "Not Implemented"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Project not found"})
	default:
		h.log.ErrorContext(c.Request.Context(), "project request failed",
			"path", c.Request.URL.Path,
			"request_id", middleware.GetRequestID(c.Request.Context()),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal server error"})
	}
}
