// Package repository provides PostgreSQL persistence for outreach email
// templates.
package repository

import (
	"context"
	"errors"
	"time"

	"educater_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Template is a reusable outreach email. Placeholders like {{schoolName}}
// are substituted at send time.
type Template struct {
	ID        uuid.UUID
	Track     string
	Title     string
	Subject   string
	Content   string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateParams contains parameters for creating a template.
type CreateParams struct {
	Track     string
	Title     string
	Subject   string
	Content   string
	CreatedBy string
}

// UpdateParams is a partial template update.
type UpdateParams struct {
	Track   *string
	Title   *string
	Subject *string
	Content *string
}

// Repository defines persistence operations for templates.
type Repository interface {
	List(ctx context.Context) ([]Template, error)
	GetByID(ctx context.Context, id uuid.UUID) (Template, error)
	Create(ctx context.Context, params CreateParams) (Template, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Template, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const templateColumns = `
	id, track, title, subject, content, created_by, created_at, updated_at
`

// Repo implements Repository backed by pgx.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new templates repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (Template, error) {
	var t Template
	err := row.Scan(&t.ID, &t.Track, &t.Title, &t.Subject, &t.Content, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *Repo) List(ctx context.Context) ([]Template, error) {
	query := `SELECT ` + templateColumns + `FROM email_templates ORDER BY track, title`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list templates", err)
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to scan template", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Template, error) {
	query := `SELECT ` + templateColumns + `FROM email_templates WHERE id = $1`

	t, err := scanTemplate(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Template{}, apperr.NotFound("template not found")
		}
		return Template{}, apperr.Wrap(apperr.KindInternal, "failed to load template", err)
	}
	return t, nil
}

func (r *Repo) Create(ctx context.Context, params CreateParams) (Template, error) {
	query := `
		INSERT INTO email_templates (track, title, subject, content, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + templateColumns

	t, err := scanTemplate(r.pool.QueryRow(ctx, query,
		params.Track, params.Title, params.Subject, params.Content, params.CreatedBy,
	))
	if err != nil {
		return Template{}, apperr.Wrap(apperr.KindInternal, "failed to create template", err)
	}
	return t, nil
}

func (r *Repo) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Template, error) {
	query := `
		UPDATE email_templates SET
			track = COALESCE($2, track),
			title = COALESCE($3, title),
			subject = COALESCE($4, subject),
			content = COALESCE($5, content),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + templateColumns

	t, err := scanTemplate(r.pool.QueryRow(ctx, query, id, params.Track, params.Title, params.Subject, params.Content))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Template{}, apperr.NotFound("template not found")
		}
		return Template{}, apperr.Wrap(apperr.KindInternal, "failed to update template", err)
	}
	return t, nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM email_templates WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to delete template", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("template not found")
	}
	return nil
}

// Compile-time check
var _ Repository = (*Repo)(nil)
