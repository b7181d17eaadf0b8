package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/rcos/telescope-api/internal/projects/domain"
)

const projectColumns = `project_id, title, description, languages, stack,
       cover_image_url, homepage_url, repository_urls, created_at`

// ProjectRepository provides read access to the projects table.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// List returns every project ordered by identifier.
func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	const q = `
SELECT ` + projectColumns + `
FROM projects
ORDER BY project_id;
`
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

// Get returns the project with the given identifier, or domain.ErrNotFound.
func (r *ProjectRepository) Get(ctx context.Context, id int64) (*domain.Project, error) {
	const q = `
SELECT ` + projectColumns + `
FROM projects
WHERE project_id = $1;
`
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	p, err := scanProject(conn.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}
	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*domain.Project, error) {
	var (
		p                       domain.Project
		languages, stack, repos pq.StringArray
		coverImageURL, homepage sql.NullString
	)
	err := s.Scan(
		&p.ID, &p.Title, &p.Description, &languages, &stack,
		&coverImageURL, &homepage, &repos, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Languages = languages
	p.Stack = stack
	p.RepositoryURLs = repos
	if coverImageURL.Valid {
		p.CoverImageURL = &coverImageURL.String
	}
	if homepage.Valid {
		p.HomepageURL = &homepage.String
	}
	p.Normalize()
	return &p, nil
}
