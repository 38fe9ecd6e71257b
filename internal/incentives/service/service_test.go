package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"educater_backend/internal/events"
	"educater_backend/internal/incentives/repository"
	"educater_backend/internal/storage"
	"educater_backend/platform/apperr"
	platformevents "educater_backend/platform/events"
	"educater_backend/platform/logger"

	"github.com/google/uuid"
)

// stubRepo is an in-memory repository.Repository.
type stubRepo struct {
	incentives map[uuid.UUID]repository.Incentive
}

func newStubRepo() *stubRepo {
	return &stubRepo{incentives: make(map[uuid.UUID]repository.Incentive)}
}

func (r *stubRepo) List(_ context.Context) ([]repository.Incentive, error) {
	out := make([]repository.Incentive, 0, len(r.incentives))
	for _, inc := range r.incentives {
		out = append(out, inc)
	}
	return out, nil
}

func (r *stubRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Incentive, error) {
	inc, ok := r.incentives[id]
	if !ok {
		return repository.Incentive{}, apperr.NotFound("incentive not found")
	}
	return inc, nil
}

func (r *stubRepo) Create(_ context.Context, params repository.CreateParams) (repository.Incentive, error) {
	inc := repository.Incentive{
		ID:          uuid.New(),
		Title:       params.Title,
		Description: params.Description,
		ImageKey:    params.ImageKey,
		CreatedBy:   params.CreatedBy,
		CreatedAt:   time.Now(),
	}
	r.incentives[inc.ID] = inc
	return inc, nil
}

func (r *stubRepo) Delete(_ context.Context, id uuid.UUID) (repository.Incentive, error) {
	inc, ok := r.incentives[id]
	if !ok {
		return repository.Incentive{}, apperr.NotFound("incentive not found")
	}
	delete(r.incentives, id)
	return inc, nil
}

// stubStore records deleted objects; other operations return canned values.
type stubStore struct {
	deleted []string
}

func (s *stubStore) GenerateUploadURL(_ context.Context, _, folder, fileName, _ string, _ int64) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{URL: "https://minio.local/upload", FileKey: folder + "/" + fileName}, nil
}

func (s *stubStore) GenerateDownloadURL(_ context.Context, _, fileKey string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{URL: "https://minio.local/" + fileKey, FileKey: fileKey}, nil
}

func (s *stubStore) DownloadFile(context.Context, string, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (s *stubStore) DeleteObject(_ context.Context, _, fileKey string) error {
	s.deleted = append(s.deleted, fileKey)
	return nil
}

func (s *stubStore) UploadFile(context.Context, string, string, string, string, io.Reader, int64) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubStore) EnsureBucketExists(context.Context, string) error { return nil }
func (s *stubStore) ValidateContentType(string) error                 { return nil }
func (s *stubStore) ValidateFileSize(int64) error                     { return nil }
func (s *stubStore) GetMaxFileSize() int64                            { return 1 << 20 }

// recordingBus captures published events so tests can assert on them.
type recordingBus struct {
	published []platformevents.Event
}

func (b *recordingBus) Publish(_ context.Context, event platformevents.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event platformevents.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, platformevents.Handler) {}

// recordingEnqueuer captures enqueued broadcast IDs.
type recordingEnqueuer struct {
	enqueued []uuid.UUID
	err      error
}

func (e *recordingEnqueuer) EnqueueIncentiveBroadcast(_ context.Context, id uuid.UUID) error {
	if e.err != nil {
		return e.err
	}
	e.enqueued = append(e.enqueued, id)
	return nil
}

func TestCreatePublishesAndEnqueuesBroadcast(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	bus := &recordingBus{}
	enq := &recordingEnqueuer{}
	svc := New(repo, &stubStore{}, "incentive-images", bus, enq, logger.New("test"))

	inc, err := svc.Create(ctx, CreateParams{
		Title:       "  Q3 Top Closer Bonus  ",
		Description: "R10,000 for the most schools moved to Onboarded this quarter.",
		CreatedBy:   "keagan",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if inc.Title != "Q3 Top Closer Bonus" {
		t.Fatalf("title = %q, want trimmed", inc.Title)
	}

	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	created, ok := bus.published[0].(events.IncentiveCreated)
	if !ok {
		t.Fatalf("published %T, want IncentiveCreated", bus.published[0])
	}
	if created.IncentiveID != inc.ID || created.Title != inc.Title {
		t.Fatalf("unexpected event payload: %+v", created)
	}

	if len(enq.enqueued) != 1 || enq.enqueued[0] != inc.ID {
		t.Fatalf("enqueued = %v, want [%s]", enq.enqueued, inc.ID)
	}
}

func TestCreateSurvivesEnqueueFailure(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	enq := &recordingEnqueuer{err: errors.New("redis down")}
	svc := New(repo, &stubStore{}, "incentive-images", &recordingBus{}, enq, logger.New("test"))

	inc, err := svc.Create(ctx, CreateParams{
		Title:       "Spring Drive",
		Description: "Extra commission on new Cold Leads.",
		CreatedBy:   "keagan",
	})
	if err != nil {
		t.Fatalf("Create should not fail when the broadcast cannot be queued: %v", err)
	}
	if _, err := repo.GetByID(ctx, inc.ID); err != nil {
		t.Fatalf("incentive not stored: %v", err)
	}
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	ctx := context.Background()
	svc := New(newStubRepo(), &stubStore{}, "incentive-images", &recordingBus{}, nil, logger.New("test"))

	_, err := svc.Create(ctx, CreateParams{Title: "   ", Description: "x", CreatedBy: "keagan"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteRemovesStoredImage(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	store := &stubStore{}
	svc := New(repo, store, "incentive-images", &recordingBus{}, nil, logger.New("test"))

	key := "announcements/banner.png"
	inc, err := repo.Create(ctx, repository.CreateParams{
		Title:       "Winter Push",
		Description: "d",
		ImageKey:    &key,
		CreatedBy:   "keagan",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.Delete(ctx, inc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != key {
		t.Fatalf("deleted objects = %v, want [%s]", store.deleted, key)
	}
}

func TestImageUploadRejectsNonImage(t *testing.T) {
	ctx := context.Background()
	svc := New(newStubRepo(), &stubStore{}, "incentive-images", &recordingBus{}, nil, logger.New("test"))

	_, err := svc.RequestImageUpload(ctx, "report.pdf", "application/pdf", 1024)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
