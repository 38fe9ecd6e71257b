package repository

import (
	"context"
	"time"
)

// Rep is a sales rep's full profile, including the banking details used for
// commission payouts.
type Rep struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	Role          string
	AvatarKey     *string
	BankName      string
	AccountHolder string
	AccountNumber string
	BranchCode    string
	BankProofKey  *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateParams contains parameters for registering a rep.
type CreateParams struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Role         string
	PasswordHash string
}

// UpdateParams is a partial profile update. Nil pointers leave the stored
// value untouched.
type UpdateParams struct {
	Name          *string
	Email         *string
	Phone         *string
	BankName      *string
	AccountHolder *string
	AccountNumber *string
	BranchCode    *string
}

// Repository defines persistence operations for rep profiles.
type Repository interface {
	List(ctx context.Context) ([]Rep, error)
	GetByID(ctx context.Context, id string) (Rep, error)
	Create(ctx context.Context, params CreateParams) (Rep, error)
	Update(ctx context.Context, id string, params UpdateParams) (Rep, error)
	SetAvatarKey(ctx context.Context, id, fileKey string) error
	SetBankProofKey(ctx context.Context, id, fileKey string) error
	Delete(ctx context.Context, id string) error
}
