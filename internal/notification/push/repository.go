// Package push persists device push tokens so announcements can reach reps
// who are not connected.
package push

import (
	"context"
	"time"

	"educater_backend/platform/apperr"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Token is one registered device token.
type Token struct {
	RepID     string
	Token     string
	Platform  string
	CreatedAt time.Time
}

// Repository stores push tokens in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new push token repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Register upserts a device token. A token that moves to another rep (new
// sign-in on the same device) is reassigned.
func (r *Repository) Register(ctx context.Context, repID, token, platform string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO push_tokens (rep_id, token, platform)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE SET rep_id = EXCLUDED.rep_id, platform = EXCLUDED.platform`,
		repID, token, platform,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to register push token", err)
	}
	return nil
}

// Unregister removes a device token, typically on sign-out.
func (r *Repository) Unregister(ctx context.Context, repID, token string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM push_tokens WHERE rep_id = $1 AND token = $2`,
		repID, token,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to remove push token", err)
	}
	return nil
}

// ListByRep returns a rep's registered device tokens.
func (r *Repository) ListByRep(ctx context.Context, repID string) ([]Token, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT rep_id, token, platform, created_at FROM push_tokens WHERE rep_id = $1`,
		repID,
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list push tokens", err)
	}
	defer rows.Close()

	var tokens []Token
	for rows.Next() {
		var t Token
		if err := rows.Scan(&t.RepID, &t.Token, &t.Platform, &t.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to scan push token", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
