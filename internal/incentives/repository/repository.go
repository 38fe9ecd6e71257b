// Package repository provides PostgreSQL persistence for incentive
// announcements.
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

// Incentive is a company-wide announcement of a sales incentive.
type Incentive struct {
	ID          uuid.UUID
	Title       string
	Description string
	ImageKey    *string
	CreatedBy   string
	CreatedAt   time.Time
}

// CreateParams contains parameters for announcing an incentive.
type CreateParams struct {
	Title       string
	Description string
	ImageKey    *string
	CreatedBy   string
}

// Repository defines persistence operations for incentives.
type Repository interface {
	List(ctx context.Context) ([]Incentive, error)
	GetByID(ctx context.Context, id uuid.UUID) (Incentive, error)
	Create(ctx context.Context, params CreateParams) (Incentive, error)
	Delete(ctx context.Context, id uuid.UUID) (Incentive, error)
}

const incentiveColumns = `
	id, title, description, image_key, created_by, created_at
`

// Repo implements Repository backed by pgx.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new incentives repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIncentive(row rowScanner) (Incentive, error) {
	var inc Incentive
	err := row.Scan(&inc.ID, &inc.Title, &inc.Description, &inc.ImageKey, &inc.CreatedBy, &inc.CreatedAt)
	return inc, err
}

func (r *Repo) List(ctx context.Context) ([]Incentive, error) {
	query := `SELECT ` + incentiveColumns + `FROM incentives ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list incentives", err)
	}
	defer rows.Close()

	var incentives []Incentive
	for rows.Next() {
		inc, err := scanIncentive(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to scan incentive", err)
		}
		incentives = append(incentives, inc)
	}
	return incentives, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Incentive, error) {
	query := `SELECT ` + incentiveColumns + `FROM incentives WHERE id = $1`

	inc, err := scanIncentive(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Incentive{}, apperr.NotFound("incentive not found")
		}
		return Incentive{}, apperr.Wrap(apperr.KindInternal, "failed to load incentive", err)
	}
	return inc, nil
}

func (r *Repo) Create(ctx context.Context, params CreateParams) (Incentive, error) {
	query := `
		INSERT INTO incentives (title, description, image_key, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + incentiveColumns

	inc, err := scanIncentive(r.pool.QueryRow(ctx, query,
		params.Title, params.Description, params.ImageKey, params.CreatedBy,
	))
	if err != nil {
		return Incentive{}, apperr.Wrap(apperr.KindInternal, "failed to create incentive", err)
	}
	return inc, nil
}

// Delete removes an incentive and returns the deleted row so the caller can
// clean up its stored image.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) (Incentive, error) {
	query := `DELETE FROM incentives WHERE id = $1 RETURNING ` + incentiveColumns

	inc, err := scanIncentive(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Incentive{}, apperr.NotFound("incentive not found")
		}
		return Incentive{}, apperr.Wrap(apperr.KindInternal, "failed to delete incentive", err)
	}
	return inc, nil
}

// Compile-time check
var _ Repository = (*Repo)(nil)
