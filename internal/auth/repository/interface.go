package repository

import (
	"context"
	"time"
)

// TokenType discriminates rows in the auth_tokens table.
type TokenType string

const (
	TokenTypePasswordReset TokenType = "password_reset"
)

// Account is a sales rep's credential view. Profile data lives with the reps
// module; auth only reads what it needs to sign people in.
type Account struct {
	ID           string
	Name         string
	Email        string
	Role         string
	PasswordHash string
}

// Repository defines the persistence operations for authentication.
type Repository interface {
	GetAccountByEmail(ctx context.Context, email string) (Account, error)
	GetAccountByID(ctx context.Context, id string) (Account, error)
	UpdatePassword(ctx context.Context, repID, passwordHash string) error
	// UpsertAdminAccount creates or refreshes the built-in admin's
	// credentials without touching the rest of the rep profile.
	UpsertAdminAccount(ctx context.Context, id, name, email, passwordHash string) error

	CreateRefreshToken(ctx context.Context, repID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (string, time.Time, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, repID string) error

	CreateAuthToken(ctx context.Context, repID, tokenHash string, tokenType TokenType, expiresAt time.Time) error
	GetAuthToken(ctx context.Context, tokenHash string, tokenType TokenType) (string, time.Time, error)
	UseAuthToken(ctx context.Context, tokenHash string, tokenType TokenType) error
}
