// Package service implements rep profile management: CRUD, phone
// normalization, and presigned uploads for avatars and bank-proof documents.
package service

import (
	"context"

	"educater_backend/internal/auth/password"
	"educater_backend/internal/reps/repository"
	"educater_backend/internal/storage"
	"educater_backend/platform/apperr"
	"educater_backend/platform/logger"
	"educater_backend/platform/phone"

	"github.com/google/uuid"
)

// Service provides rep profile operations.
type Service struct {
	repo   repository.Repository
	store  storage.Service
	bucket string
	log    *logger.Logger
}

// New creates a new reps service. bucket is the rep-documents bucket.
func New(repo repository.Repository, store storage.Service, bucket string, log *logger.Logger) *Service {
	return &Service{repo: repo, store: store, bucket: bucket, log: log}
}

// List returns all rep profiles.
func (s *Service) List(ctx context.Context) ([]repository.Rep, error) {
	return s.repo.List(ctx)
}

// Get returns one rep by ID.
func (s *Service) Get(ctx context.Context, id string) (repository.Rep, error) {
	return s.repo.GetByID(ctx, id)
}

// Exists reports whether a rep with the given ID is registered.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateParams are the inputs for registering a rep.
type CreateParams struct {
	Name     string
	Email    string
	Phone    string
	Role     string
	Password string
}

// Create registers a new rep with a hashed initial password and a normalized
// phone number.
func (s *Service) Create(ctx context.Context, params CreateParams) (repository.Rep, error) {
	hash, err := password.Hash(params.Password)
	if err != nil {
		return repository.Rep{}, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	rep, err := s.repo.Create(ctx, repository.CreateParams{
		ID:           uuid.NewString(),
		Name:         params.Name,
		Email:        params.Email,
		Phone:        phone.NormalizeE164(params.Phone),
		Role:         params.Role,
		PasswordHash: hash,
	})
	if err != nil {
		return repository.Rep{}, err
	}

	s.log.Info("rep registered", "repId", rep.ID, "role", rep.Role)
	return rep, nil
}

// Update merges a partial profile update. A provided phone number is
// normalized before it is stored.
func (s *Service) Update(ctx context.Context, id string, params repository.UpdateParams) (repository.Rep, error) {
	if params.Phone != nil {
		normalized := phone.NormalizeE164(*params.Phone)
		params.Phone = &normalized
	}
	return s.repo.Update(ctx, id, params)
}

// Delete removes a rep profile.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// RequestAvatarUpload issues a presigned upload URL for a profile photo and
// records the resulting object key.
func (s *Service) RequestAvatarUpload(ctx context.Context, repID, fileName, contentType string, size int64) (*storage.PresignedURL, error) {
	if !storage.IsImageContentType(contentType) {
		return nil, apperr.Validation("avatar must be an image")
	}

	presigned, err := s.store.GenerateUploadURL(ctx, s.bucket, repID+"/avatar", fileName, contentType, size)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create upload URL", err)
	}

	if err := s.repo.SetAvatarKey(ctx, repID, presigned.FileKey); err != nil {
		return nil, err
	}
	return presigned, nil
}

// RequestBankProofUpload issues a presigned upload URL for a proof-of-account
// document and records the resulting object key.
func (s *Service) RequestBankProofUpload(ctx context.Context, repID, fileName, contentType string, size int64) (*storage.PresignedURL, error) {
	presigned, err := s.store.GenerateUploadURL(ctx, s.bucket, repID+"/bank-proof", fileName, contentType, size)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create upload URL", err)
	}

	if err := s.repo.SetBankProofKey(ctx, repID, presigned.FileKey); err != nil {
		return nil, err
	}
	return presigned, nil
}

// AvatarDownloadURL returns a presigned download URL for a rep's avatar.
func (s *Service) AvatarDownloadURL(ctx context.Context, repID string) (*storage.PresignedURL, error) {
	rep, err := s.repo.GetByID(ctx, repID)
	if err != nil {
		return nil, err
	}
	if rep.AvatarKey == nil {
		return nil, apperr.NotFound("rep has no avatar")
	}
	return s.store.GenerateDownloadURL(ctx, s.bucket, *rep.AvatarKey)
}

// BankProofDownloadURL returns a presigned download URL for a rep's
// proof-of-account document.
func (s *Service) BankProofDownloadURL(ctx context.Context, repID string) (*storage.PresignedURL, error) {
	rep, err := s.repo.GetByID(ctx, repID)
	if err != nil {
		return nil, err
	}
	if rep.BankProofKey == nil {
		return nil, apperr.NotFound("rep has no bank proof document")
	}
	return s.store.GenerateDownloadURL(ctx, s.bucket, *rep.BankProofKey)
}
