// Package service implements incentive announcements. Creating one publishes
// an event for connected clients and queues an email broadcast to every rep,
// which the background worker delivers.
package service

import (
	"context"
	"strings"

	"educater_backend/internal/events"
	"educater_backend/internal/incentives/repository"
	"educater_backend/internal/storage"
	"educater_backend/platform/apperr"
	"educater_backend/platform/logger"

	"github.com/google/uuid"
)

// BroadcastEnqueuer hands the email fan-out to the background worker.
// Satisfied by the scheduler client; nil disables broadcasting.
type BroadcastEnqueuer interface {
	EnqueueIncentiveBroadcast(ctx context.Context, incentiveID uuid.UUID) error
}

// Service provides incentive operations.
type Service struct {
	repo     repository.Repository
	store    storage.Service
	bucket   string
	bus      events.Bus
	enqueuer BroadcastEnqueuer
	log      *logger.Logger
}

// New creates a new incentives service. bucket is the incentive-images
// bucket.
func New(repo repository.Repository, store storage.Service, bucket string, bus events.Bus, enqueuer BroadcastEnqueuer, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		bucket:   bucket,
		bus:      bus,
		enqueuer: enqueuer,
		log:      log,
	}
}

// List returns all incentives, newest first.
func (s *Service) List(ctx context.Context) ([]repository.Incentive, error) {
	return s.repo.List(ctx)
}

// Get returns one incentive by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Incentive, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateParams are the inputs for announcing an incentive.
type CreateParams struct {
	Title       string
	Description string
	ImageKey    *string
	CreatedBy   string
}

// Create stores the announcement, notifies connected clients and queues the
// email broadcast. A broadcast that cannot be queued is logged, not fatal:
// the announcement itself is already live.
func (s *Service) Create(ctx context.Context, params CreateParams) (repository.Incentive, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return repository.Incentive{}, apperr.Validation("title is required")
	}

	inc, err := s.repo.Create(ctx, repository.CreateParams{
		Title:       title,
		Description: strings.TrimSpace(params.Description),
		ImageKey:    params.ImageKey,
		CreatedBy:   params.CreatedBy,
	})
	if err != nil {
		return repository.Incentive{}, err
	}

	s.bus.Publish(ctx, events.IncentiveCreated{
		BaseEvent:   events.NewBaseEvent(),
		IncentiveID: inc.ID,
		Title:       inc.Title,
		CreatedBy:   inc.CreatedBy,
	})

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueIncentiveBroadcast(ctx, inc.ID); err != nil {
			s.log.Error("failed to enqueue incentive broadcast", "incentiveId", inc.ID, "error", err)
		}
	}

	s.log.Info("incentive announced", "incentiveId", inc.ID, "title", inc.Title)
	return inc, nil
}

// Delete removes an incentive and its stored image.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	inc, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	if inc.ImageKey != nil {
		if err := s.store.DeleteObject(ctx, s.bucket, *inc.ImageKey); err != nil {
			s.log.Warn("failed to delete incentive image", "incentiveId", id, "fileKey", *inc.ImageKey, "error", err)
		}
	}
	return nil
}

// RequestImageUpload issues a presigned upload URL for an announcement
// image. The returned file key goes into CreateParams.ImageKey.
func (s *Service) RequestImageUpload(ctx context.Context, fileName, contentType string, size int64) (*storage.PresignedURL, error) {
	if !storage.IsImageContentType(contentType) {
		return nil, apperr.Validation("incentive image must be an image")
	}

	presigned, err := s.store.GenerateUploadURL(ctx, s.bucket, "announcements", fileName, contentType, size)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create upload URL", err)
	}
	return presigned, nil
}

// ImageDownloadURL returns a presigned download URL for an incentive's
// image.
func (s *Service) ImageDownloadURL(ctx context.Context, id uuid.UUID) (*storage.PresignedURL, error) {
	inc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inc.ImageKey == nil {
		return nil, apperr.NotFound("incentive has no image")
	}
	return s.store.GenerateDownloadURL(ctx, s.bucket, *inc.ImageKey)
}
