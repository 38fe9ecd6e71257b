// Package repository provides PostgreSQL persistence for rep profiles.
package repository

import (
	"context"
	"errors"

	"educater_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const repColumns = `
	id, name, email, phone, role, avatar_key,
	bank_name, account_holder, account_number, branch_code, bank_proof_key,
	created_at, updated_at
`

// Repo implements Repository backed by pgx.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new reps repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRep(row rowScanner) (Rep, error) {
	var rep Rep
	err := row.Scan(
		&rep.ID, &rep.Name, &rep.Email, &rep.Phone, &rep.Role, &rep.AvatarKey,
		&rep.BankName, &rep.AccountHolder, &rep.AccountNumber, &rep.BranchCode, &rep.BankProofKey,
		&rep.CreatedAt, &rep.UpdatedAt,
	)
	return rep, err
}

func (r *Repo) List(ctx context.Context) ([]Rep, error) {
	query := `SELECT ` + repColumns + `FROM reps ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list reps", err)
	}
	defer rows.Close()

	var reps []Rep
	for rows.Next() {
		rep, err := scanRep(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to scan rep", err)
		}
		reps = append(reps, rep)
	}
	return reps, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, id string) (Rep, error) {
	query := `SELECT ` + repColumns + `FROM reps WHERE id = $1`

	rep, err := scanRep(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Rep{}, apperr.NotFound("rep not found")
		}
		return Rep{}, apperr.Wrap(apperr.KindInternal, "failed to load rep", err)
	}
	return rep, nil
}

func (r *Repo) Create(ctx context.Context, params CreateParams) (Rep, error) {
	query := `
		INSERT INTO reps (id, name, email, phone, role, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + repColumns

	rep, err := scanRep(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.Email, params.Phone, params.Role, params.PasswordHash,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Rep{}, apperr.Conflict("a rep with this email or id already exists")
		}
		return Rep{}, apperr.Wrap(apperr.KindInternal, "failed to create rep", err)
	}
	return rep, nil
}

func (r *Repo) Update(ctx context.Context, id string, params UpdateParams) (Rep, error) {
	query := `
		UPDATE reps SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			bank_name = COALESCE($5, bank_name),
			account_holder = COALESCE($6, account_holder),
			account_number = COALESCE($7, account_number),
			branch_code = COALESCE($8, branch_code),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + repColumns

	rep, err := scanRep(r.pool.QueryRow(ctx, query, id,
		params.Name, params.Email, params.Phone,
		params.BankName, params.AccountHolder, params.AccountNumber, params.BranchCode,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Rep{}, apperr.NotFound("rep not found")
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Rep{}, apperr.Conflict("a rep with this email already exists")
		}
		return Rep{}, apperr.Wrap(apperr.KindInternal, "failed to update rep", err)
	}
	return rep, nil
}

func (r *Repo) SetAvatarKey(ctx context.Context, id, fileKey string) error {
	return r.setFileKey(ctx, id, "avatar_key", fileKey)
}

func (r *Repo) SetBankProofKey(ctx context.Context, id, fileKey string) error {
	return r.setFileKey(ctx, id, "bank_proof_key", fileKey)
}

func (r *Repo) setFileKey(ctx context.Context, id, column, fileKey string) error {
	// column is a compile-time constant at every call site, never user input.
	query := `UPDATE reps SET ` + column + ` = $2, updated_at = now() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, fileKey)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to update rep file key", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("rep not found")
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reps WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to delete rep", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("rep not found")
	}
	return nil
}

// Compile-time check
var _ Repository = (*Repo)(nil)
