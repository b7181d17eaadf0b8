package http

import (
	"log/slog"

	"github.com/rcos/telescope-api/internal/projects/service"
)

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc *service.ProjectService
	log *slog.Logger
}

func New(svc *service.ProjectService, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}
