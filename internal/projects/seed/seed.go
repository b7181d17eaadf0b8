// Package seed loads project fixtures from YAML into the projects table.
// It backs the worker's seed command and is meant for local development.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lib/pq"
	"gopkg.in/yaml.v3"

	"github.com/rcos/telescope-api/internal/projects/domain"
)

type file struct {
	Projects []entry `yaml:"projects"`
}

type entry struct {
	ID             int64    `yaml:"project_id"`
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description"`
	Languages      []string `yaml:"languages"`
	Stack          []string `yaml:"stack"`
	CoverImageURL  string   `yaml:"cover_image_url"`
	HomepageURL    string   `yaml:"homepage_url"`
	RepositoryURLs []string `yaml:"repository_urls"`
}

// Parse decodes a fixture file. Every project needs a positive, unique project_id
// and a non-empty title.
func Parse(r io.Reader) ([]domain.Project, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.Project{}, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	seen := make(map[int64]struct{}, len(f.Projects))
	out := make([]domain.Project, 0, len(f.Projects))
	for i, e := range f.Projects {
		if e.ID <= 0 {
			return nil, fmt.Errorf("project #%d: project_id must be positive", i+1)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("project #%d: duplicate project_id %d", i+1, e.ID)
		}
		seen[e.ID] = struct{}{}

		title := strings.TrimSpace(e.Title)
		if title == "" {
			return nil, fmt.Errorf("project %d: title required", e.ID)
		}

		p := domain.Project{
			ID:             e.ID,
			Title:          title,
			Description:    e.Description,
			Languages:      e.Languages,
			Stack:          e.Stack,
			CoverImageURL:  optional(e.CoverImageURL),
			HomepageURL:    optional(e.HomepageURL),
			RepositoryURLs: e.RepositoryURLs,
		}
		p.Normalize()
		out = append(out, p)
	}
	return out, nil
}

// Apply upserts the projects in a single transaction and returns how many rows
// were written.
func Apply(ctx context.Context, db *sql.DB, projects []domain.Project) (int, error) {
	const q = `
INSERT INTO projects (project_id, title, description, languages, stack,
                      cover_image_url, homepage_url, repository_urls)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (project_id) DO UPDATE SET
    title = EXCLUDED.title,
    description = EXCLUDED.description,
    languages = EXCLUDED.languages,
    stack = EXCLUDED.stack,
    cover_image_url = EXCLUDED.cover_image_url,
    homepage_url = EXCLUDED.homepage_url,
    repository_urls = EXCLUDED.repository_urls;
`
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range projects {
		_, err := tx.ExecContext(ctx, q,
			p.ID, p.Title, p.Description,
			pq.Array(p.Languages), pq.Array(p.Stack),
			p.CoverImageURL, p.HomepageURL,
			pq.Array(p.RepositoryURLs),
		)
		if err != nil {
			return 0, fmt.Errorf("upsert project %d: %w", p.ID, err)
		}
	}

	// keep the serial ahead of explicit ids
	const bump = `SELECT setval(pg_get_serial_sequence('projects', 'project_id'), GREATEST((SELECT MAX(project_id) FROM projects), 1));`
	if len(projects) > 0 {
		if _, err := tx.ExecContext(ctx, bump); err != nil {
			return 0, fmt.Errorf("advance project_id sequence: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed transaction: %w", err)
	}
	return len(projects), nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
