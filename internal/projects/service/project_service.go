package service

import (
	"context"

	"github.com/rcos/telescope-api/internal/projects/domain"
)

// Store is the read side of project persistence. The SQL repository and the
// redis cache both satisfy it.
type Store interface {
	List(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, id int64) (*domain.Project, error)
}

// ProjectService handles project lookups
type ProjectService struct {
	store Store
}

// NewProjectService creates a new project service
func NewProjectService(store Store) *ProjectService {
	return &ProjectService{
		store: store,
	}
}

// List returns all projects. Filtering by semester is not supported yet, so any
// semesterID yields domain.ErrNotImplemented without touching the store.
func (s *ProjectService) List(ctx context.Context, semesterID *string) ([]domain.Project, error) {
	if semesterID != nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.List(ctx)
}

// Get returns a single project
func (s *ProjectService) Get(ctx context.Context, id int64) (*domain.Project, error) {
	return s.store.Get(ctx, id)
}
