// Package service implements the resource libraries: presigned uploads into
// the resources bucket and listing/download for the sales toolkit and the
// training library.
package service

import (
	"context"

	"educater_backend/internal/resources/repository"
	"educater_backend/internal/storage"
	"educater_backend/platform/apperr"
	"educater_backend/platform/logger"

	"github.com/google/uuid"
)

// Service provides resource library operations.
type Service struct {
	repo   repository.Repository
	store  storage.Service
	bucket string
	log    *logger.Logger
}

// New creates a new resources service. bucket is the resources bucket.
func New(repo repository.Repository, store storage.Service, bucket string, log *logger.Logger) *Service {
	return &Service{repo: repo, store: store, bucket: bucket, log: log}
}

// List returns all resources in a library.
func (s *Service) List(ctx context.Context, library repository.Library) ([]repository.Resource, error) {
	if !library.IsValid() {
		return nil, apperr.Validation("unknown resource library")
	}
	return s.repo.List(ctx, library)
}

// RequestUpload issues a presigned upload URL for a new resource file. The
// resource row is created once the upload is confirmed.
func (s *Service) RequestUpload(ctx context.Context, library repository.Library, fileName, contentType string, size int64) (*storage.PresignedURL, error) {
	if !library.IsValid() {
		return nil, apperr.Validation("unknown resource library")
	}

	presigned, err := s.store.GenerateUploadURL(ctx, s.bucket, string(library), fileName, contentType, size)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create upload URL", err)
	}
	return presigned, nil
}

// CreateParams are the inputs for registering an uploaded resource.
type CreateParams struct {
	Library     repository.Library
	Title       string
	Description string
	Category    string
	FileKey     string
	ContentType string
	SizeBytes   int64
	UploadedBy  string
}

// Create registers an uploaded file as a library resource.
func (s *Service) Create(ctx context.Context, params CreateParams) (repository.Resource, error) {
	if !params.Library.IsValid() {
		return repository.Resource{}, apperr.Validation("unknown resource library")
	}

	res, err := s.repo.Create(ctx, repository.CreateParams{
		Library:     params.Library,
		Title:       params.Title,
		Description: params.Description,
		Category:    params.Category,
		FileKey:     params.FileKey,
		ContentType: params.ContentType,
		SizeBytes:   params.SizeBytes,
		UploadedBy:  params.UploadedBy,
	})
	if err != nil {
		return repository.Resource{}, err
	}

	s.log.Info("resource registered", "library", res.Library, "title", res.Title)
	return res, nil
}

// DownloadURL returns a presigned download URL for a resource.
func (s *Service) DownloadURL(ctx context.Context, id uuid.UUID) (*storage.PresignedURL, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.store.GenerateDownloadURL(ctx, s.bucket, res.FileKey)
}

// Delete removes a resource and its stored object. A failed object delete is
// logged, not surfaced; the row is already gone and the bucket can be swept
// later.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteObject(ctx, s.bucket, res.FileKey); err != nil {
		s.log.Error("failed to delete resource object", "fileKey", res.FileKey, "error", err)
	}
	return nil
}
