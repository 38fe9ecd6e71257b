// Package transport defines the HTTP request and response types for reps.
package transport

import (
	"time"

	"educater_backend/internal/reps/repository"
)

// CreateRepRequest is the request body for registering a rep.
type CreateRepRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"max=32"`
	Role     string `json:"role" validate:"required,oneof=rep admin"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UpdateRepRequest is a partial profile update. Omitted fields are left
// untouched.
type UpdateRepRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	BankName      *string `json:"bankName,omitempty" validate:"omitempty,max=120"`
	AccountHolder *string `json:"accountHolder,omitempty" validate:"omitempty,max=120"`
	AccountNumber *string `json:"accountNumber,omitempty" validate:"omitempty,max=32"`
	BranchCode    *string `json:"branchCode,omitempty" validate:"omitempty,max=16"`
}

// ToParams converts the request into repository update parameters.
func (r UpdateRepRequest) ToParams() repository.UpdateParams {
	return repository.UpdateParams{
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		BankName:      r.BankName,
		AccountHolder: r.AccountHolder,
		AccountNumber: r.AccountNumber,
		BranchCode:    r.BranchCode,
	}
}

// UploadRequest asks for a presigned upload URL.
type UploadRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=127"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,min=1"`
}

// RepResponse is the response body for a rep profile. Banking details are
// only included for the rep themselves and for admins.
type RepResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Role          string    `json:"role"`
	HasAvatar     bool      `json:"hasAvatar"`
	BankName      string    `json:"bankName,omitempty"`
	AccountHolder string    `json:"accountHolder,omitempty"`
	AccountNumber string    `json:"accountNumber,omitempty"`
	BranchCode    string    `json:"branchCode,omitempty"`
	HasBankProof  bool      `json:"hasBankProof"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FromRep maps a rep to its full response shape.
func FromRep(rep repository.Rep) RepResponse {
	return RepResponse{
		ID:            rep.ID,
		Name:          rep.Name,
		Email:         rep.Email,
		Phone:         rep.Phone,
		Role:          rep.Role,
		HasAvatar:     rep.AvatarKey != nil,
		BankName:      rep.BankName,
		AccountHolder: rep.AccountHolder,
		AccountNumber: rep.AccountNumber,
		BranchCode:    rep.BranchCode,
		HasBankProof:  rep.BankProofKey != nil,
		CreatedAt:     rep.CreatedAt,
		UpdatedAt:     rep.UpdatedAt,
	}
}

// FromRepPublic maps a rep to the shape other reps may see: no banking
// details.
func FromRepPublic(rep repository.Rep) RepResponse {
	return RepResponse{
		ID:        rep.ID,
		Name:      rep.Name,
		Email:     rep.Email,
		Role:      rep.Role,
		HasAvatar: rep.AvatarKey != nil,
		CreatedAt: rep.CreatedAt,
		UpdatedAt: rep.UpdatedAt,
	}
}
