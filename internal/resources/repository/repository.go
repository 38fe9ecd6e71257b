// Package repository provides PostgreSQL persistence for the resource
// libraries.
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

// Library discriminates the two resource collections: the sales toolkit and
// the training library.
type Library string

const (
	LibraryTools    Library = "tools"
	LibraryTraining Library = "training"
)

// IsValid reports whether the library is one of the known collections.
func (l Library) IsValid() bool {
	return l == LibraryTools || l == LibraryTraining
}

// Resource is one entry in a resource library.
type Resource struct {
	ID          uuid.UUID
	Library     Library
	Title       string
	Description string
	Category    string
	FileKey     string
	ContentType string
	SizeBytes   int64
	UploadedBy  string
	CreatedAt   time.Time
}

// CreateParams contains parameters for registering a resource.
type CreateParams struct {
	Library     Library
	Title       string
	Description string
	Category    string
	FileKey     string
	ContentType string
	SizeBytes   int64
	UploadedBy  string
}

// Repository defines persistence operations for resources.
type Repository interface {
	List(ctx context.Context, library Library) ([]Resource, error)
	GetByID(ctx context.Context, id uuid.UUID) (Resource, error)
	Create(ctx context.Context, params CreateParams) (Resource, error)
	Delete(ctx context.Context, id uuid.UUID) (Resource, error)
}

const resourceColumns = `
	id, library, title, description, category, file_key, content_type, size_bytes, uploaded_by, created_at
`

// Repo implements Repository backed by pgx.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new resources repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResource(row rowScanner) (Resource, error) {
	var res Resource
	err := row.Scan(
		&res.ID, &res.Library, &res.Title, &res.Description, &res.Category,
		&res.FileKey, &res.ContentType, &res.SizeBytes, &res.UploadedBy, &res.CreatedAt,
	)
	return res, err
}

func (r *Repo) List(ctx context.Context, library Library) ([]Resource, error) {
	query := `SELECT ` + resourceColumns + `FROM resources WHERE library = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, library)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list resources", err)
	}
	defer rows.Close()

	var resources []Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to scan resource", err)
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Resource, error) {
	query := `SELECT ` + resourceColumns + `FROM resources WHERE id = $1`

	res, err := scanResource(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Resource{}, apperr.NotFound("resource not found")
		}
		return Resource{}, apperr.Wrap(apperr.KindInternal, "failed to load resource", err)
	}
	return res, nil
}

func (r *Repo) Create(ctx context.Context, params CreateParams) (Resource, error) {
	query := `
		INSERT INTO resources (library, title, description, category, file_key, content_type, size_bytes, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + resourceColumns

	res, err := scanResource(r.pool.QueryRow(ctx, query,
		params.Library, params.Title, params.Description, params.Category,
		params.FileKey, params.ContentType, params.SizeBytes, params.UploadedBy,
	))
	if err != nil {
		return Resource{}, apperr.Wrap(apperr.KindInternal, "failed to create resource", err)
	}
	return res, nil
}

// Delete removes a resource row and returns it so the caller can clean up
// the stored object.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) (Resource, error) {
	query := `DELETE FROM resources WHERE id = $1 RETURNING ` + resourceColumns

	res, err := scanResource(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Resource{}, apperr.NotFound("resource not found")
		}
		return Resource{}, apperr.Wrap(apperr.KindInternal, "failed to delete resource", err)
	}
	return res, nil
}

// Compile-time check
var _ Repository = (*Repo)(nil)
