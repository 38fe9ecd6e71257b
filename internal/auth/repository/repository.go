// Package repository provides PostgreSQL persistence for authentication.
package repository

import (
	"context"
	"errors"
	"time"

	"educater_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements Repository backed by pgx.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new auth repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	const query = `
		SELECT id, name, email, role, password_hash
		FROM reps
		WHERE lower(email) = lower($1)`

	var a Account
	err := r.pool.QueryRow(ctx, query, email).Scan(&a.ID, &a.Name, &a.Email, &a.Role, &a.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, apperr.NotFound("account not found")
		}
		return Account{}, apperr.Wrap(apperr.KindInternal, "failed to load account", err)
	}
	return a, nil
}

func (r *Repo) GetAccountByID(ctx context.Context, id string) (Account, error) {
	const query = `
		SELECT id, name, email, role, password_hash
		FROM reps
		WHERE id = $1`

	var a Account
	err := r.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.Email, &a.Role, &a.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, apperr.NotFound("account not found")
		}
		return Account{}, apperr.Wrap(apperr.KindInternal, "failed to load account", err)
	}
	return a, nil
}

func (r *Repo) UpdatePassword(ctx context.Context, repID, passwordHash string) error {
	const query = `UPDATE reps SET password_hash = $2, updated_at = now() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, repID, passwordHash)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to update password", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("account not found")
	}
	return nil
}

func (r *Repo) UpsertAdminAccount(ctx context.Context, id, name, email, passwordHash string) error {
	const query = `
		INSERT INTO reps (id, name, email, role, password_hash)
		VALUES ($1, $2, $3, 'admin', $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			role = 'admin',
			password_hash = EXCLUDED.password_hash,
			updated_at = now()`

	if _, err := r.pool.Exec(ctx, query, id, name, email, passwordHash); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to upsert admin account", err)
	}
	return nil
}

func (r *Repo) CreateRefreshToken(ctx context.Context, repID, tokenHash string, expiresAt time.Time) error {
	const query = `
		INSERT INTO refresh_tokens (token_hash, rep_id, expires_at)
		VALUES ($1, $2, $3)`

	if _, err := r.pool.Exec(ctx, query, tokenHash, repID, expiresAt); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to store refresh token", err)
	}
	return nil
}

func (r *Repo) GetRefreshToken(ctx context.Context, tokenHash string) (string, time.Time, error) {
	const query = `
		SELECT rep_id, expires_at
		FROM refresh_tokens
		WHERE token_hash = $1 AND revoked_at IS NULL`

	var repID string
	var expiresAt time.Time
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(&repID, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperr.NotFound("refresh token not found")
		}
		return "", time.Time{}, apperr.Wrap(apperr.KindInternal, "failed to load refresh token", err)
	}
	return repID, expiresAt, nil
}

func (r *Repo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	const query = `
		UPDATE refresh_tokens SET revoked_at = now()
		WHERE token_hash = $1 AND revoked_at IS NULL`

	if _, err := r.pool.Exec(ctx, query, tokenHash); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to revoke refresh token", err)
	}
	return nil
}

func (r *Repo) RevokeAllRefreshTokens(ctx context.Context, repID string) error {
	const query = `
		UPDATE refresh_tokens SET revoked_at = now()
		WHERE rep_id = $1 AND revoked_at IS NULL`

	if _, err := r.pool.Exec(ctx, query, repID); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to revoke refresh tokens", err)
	}
	return nil
}

func (r *Repo) CreateAuthToken(ctx context.Context, repID, tokenHash string, tokenType TokenType, expiresAt time.Time) error {
	const query = `
		INSERT INTO auth_tokens (token_hash, rep_id, token_type, expires_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.pool.Exec(ctx, query, tokenHash, repID, tokenType, expiresAt); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to store auth token", err)
	}
	return nil
}

func (r *Repo) GetAuthToken(ctx context.Context, tokenHash string, tokenType TokenType) (string, time.Time, error) {
	const query = `
		SELECT rep_id, expires_at
		FROM auth_tokens
		WHERE token_hash = $1 AND token_type = $2 AND used_at IS NULL`

	var repID string
	var expiresAt time.Time
	err := r.pool.QueryRow(ctx, query, tokenHash, tokenType).Scan(&repID, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperr.NotFound("token not found")
		}
		return "", time.Time{}, apperr.Wrap(apperr.KindInternal, "failed to load auth token", err)
	}
	return repID, expiresAt, nil
}

func (r *Repo) UseAuthToken(ctx context.Context, tokenHash string, tokenType TokenType) error {
	const query = `
		UPDATE auth_tokens SET used_at = now()
		WHERE token_hash = $1 AND token_type = $2 AND used_at IS NULL`

	if _, err := r.pool.Exec(ctx, query, tokenHash, tokenType); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to mark token used", err)
	}
	return nil
}

// Compile-time check
var _ Repository = (*Repo)(nil)
