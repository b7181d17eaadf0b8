package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("project not found")
	ErrNotImplemented = errors.New("not implemented")
)

// Project is a single RCOS project as stored in the projects table.
// It is storage-agnostic and shared by the repository, cache and HTTP layers.
type Project struct {
	ID             int64     `json:"project_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Languages      []string  `json:"languages"`
	Stack          []string  `json:"stack"`
	CoverImageURL  *string   `json:"cover_image_url"`
	HomepageURL    *string   `json:"homepage_url"`
	RepositoryURLs []string  `json:"repository_urls"`
	CreatedAt      time.Time `json:"created_at"`
}

// Normalize replaces nil slices with empty ones so they encode as [] rather than null.
func (p *Project) Normalize() {
	if p.Languages == nil {
		p.Languages = []string{}
	}
	if p.Stack == nil {
		p.Stack = []string{}
	}
	if p.RepositoryURLs == nil {
		p.RepositoryURLs = []string{}
	}
}
