// Package service implements the schools use cases on top of the pure domain
// rules: the duplicate-checked creation gate, stage advances, contact edits,
// and the reconcile sweep that runs on every full load.
package service

import (
	"context"
	"errors"
	"time"

	"educater_backend/internal/events"
	"educater_backend/internal/schools/domain"
	"educater_backend/internal/schools/repository"
	"educater_backend/platform/apperr"
	"educater_backend/platform/logger"

	"github.com/google/uuid"
)

// DuplicateCheckPolicy decides what the creation gate does when the name
// lookup itself fails (as opposed to finding a duplicate).
type DuplicateCheckPolicy string

const (
	// DuplicateCheckFailOpen lets creation proceed when the lookup fails.
	// Product decision, availability over strictness: during a storage
	// outage we would rather admit an occasional duplicate than block reps
	// from capturing leads. Flip to DuplicateCheckFailClosed to invert.
	DuplicateCheckFailOpen DuplicateCheckPolicy = "allow"
	// DuplicateCheckFailClosed rejects creation when the lookup fails.
	DuplicateCheckFailClosed DuplicateCheckPolicy = "reject"
)

const duplicateSchoolMessage = "a school with a similar name already exists"

// Service provides school pipeline operations.
type Service struct {
	repo            repository.Repository
	bus             events.Bus
	log             *logger.Logger
	onLookupFailure DuplicateCheckPolicy
	now             func() time.Time
}

// New creates a new schools service.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:            repo,
		bus:             bus,
		log:             log,
		onLookupFailure: DuplicateCheckFailOpen,
		now:             time.Now,
	}
}

// List returns all schools with the reconcile sweep already applied.
// Corrections are written back best-effort; a failed write-back never blocks
// the read since the sweep will run again on the next load.
func (s *Service) List(ctx context.Context) ([]domain.School, error) {
	schools, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	corrected, changed := domain.Reconcile(schools)
	for _, c := range changed {
		if err := s.repo.SetRepAssignment(ctx, c.ID, c.SalesRepID, c.SalesRepName); err != nil {
			s.log.Error("reconcile write-back failed", "schoolId", c.ID, "error", err)
		}
	}
	if len(changed) > 0 {
		s.log.Info("reconciled rep assignments", "count", len(changed))
	}
	return corrected, nil
}

// Get returns one school by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.School, error) {
	return s.repo.GetByID(ctx, id)
}

// Stats returns the pipeline summary for the dashboard.
func (s *Service) Stats(ctx context.Context) (repository.PipelineStats, error) {
	return s.repo.Stats(ctx)
}

// Exists reports whether a school with a matching name is already recorded.
func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	names, err := s.repo.ListNames(ctx)
	if err != nil {
		if s.onLookupFailure == DuplicateCheckFailOpen {
			s.log.Warn("duplicate check lookup failed, failing open", "error", err)
			return false, nil
		}
		return false, apperr.Wrap(apperr.KindInternal, "duplicate check unavailable", err)
	}
	return domain.NameExists(name, names), nil
}

// Create runs the duplicate gate and inserts a new lead at Cold Lead.
func (s *Service) Create(ctx context.Context, params repository.CreateParams, createdBy string) (domain.School, error) {
	duplicate, err := s.Exists(ctx, params.Name)
	if err != nil {
		return domain.School{}, err
	}
	if duplicate {
		return domain.School{}, apperr.Conflict(duplicateSchoolMessage)
	}

	school, err := s.repo.Create(ctx, params)
	if err != nil {
		return domain.School{}, err
	}

	s.bus.Publish(ctx, events.SchoolCreated{
		BaseEvent: events.NewBaseEvent(),
		SchoolID:  school.ID,
		Name:      school.Name,
		Track:     string(school.Track),
		CreatedBy: createdBy,
	})
	return school, nil
}

// AdvanceStage validates and persists a stage transition performed by
// actingRep. An unreachable target is a validation error; a concurrent edit
// surfaces as a conflict from the repository's version check.
func (s *Service) AdvanceStage(ctx context.Context, id uuid.UUID, target domain.Stage, actingRep domain.RepRef) (domain.School, error) {
	school, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.School{}, err
	}

	mutation, err := domain.Advance(school, target, actingRep, s.now())
	if err != nil {
		var invalid *domain.InvalidTransitionError
		if errors.As(err, &invalid) {
			return domain.School{}, apperr.Validation(invalid.Error()).WithDetails(map[string]string{
				"from": string(invalid.From),
				"to":   string(invalid.To),
			})
		}
		return domain.School{}, err
	}

	updated, err := s.repo.ApplyStageMutation(ctx, id, mutation)
	if err != nil {
		return domain.School{}, err
	}

	s.bus.Publish(ctx, events.SchoolStageChanged{
		BaseEvent:    events.NewBaseEvent(),
		SchoolID:     updated.ID,
		Name:         updated.Name,
		OldStage:     string(school.Stage),
		NewStage:     string(updated.Stage),
		ActingRepID:  actingRep.ID,
		SalesRepID:   updated.SalesRepID,
		SalesRepName: updated.SalesRepName,
	})
	return updated, nil
}

// UpdateContactInfo merges a partial contact edit and stamps the editor.
func (s *Service) UpdateContactInfo(ctx context.Context, id uuid.UUID, update domain.ContactUpdate, editorName string) (domain.School, error) {
	school, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.School{}, err
	}

	mutation := domain.EditContact(school, update, editorName, s.now())
	return s.repo.ApplyContactMutation(ctx, id, mutation)
}

// Delete removes a school. Pure pass-through, no pipeline invariant involved.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Reconcile runs the assignment sweep over all schools and reports how many
// records were corrected. List already does this implicitly; this entry point
// exists for the admin endpoint and the admin-login hook.
func (s *Service) Reconcile(ctx context.Context) (int, error) {
	schools, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}

	_, changed := domain.Reconcile(schools)
	for _, c := range changed {
		if err := s.repo.SetRepAssignment(ctx, c.ID, c.SalesRepID, c.SalesRepName); err != nil {
			return 0, err
		}
	}
	return len(changed), nil
}
