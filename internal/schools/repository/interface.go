package repository

import (
	"context"

	"educater_backend/internal/schools/domain"

	"github.com/google/uuid"
)

// CreateParams contains parameters for creating a school lead. New leads
// always enter the pipeline at Cold Lead with no rep assignment; the
// repository enforces that rather than trusting callers.
type CreateParams struct {
	Name           string
	PrincipalName  string
	PrincipalEmail string
	SecretaryEmail *string
	Track          domain.Track
	StudentCount   int
	Notes          string
}

// PipelineStats summarizes the pipeline for the dashboard.
type PipelineStats struct {
	Total            int
	ByStage          map[string]int
	TotalCommission  float64
	AvgEngagementPct float64
}

// SchoolReader provides read operations for school leads.
type SchoolReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.School, error)
	List(ctx context.Context) ([]domain.School, error)
	// ListNames returns every school name, the input to duplicate detection.
	ListNames(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (PipelineStats, error)
}

// SchoolWriter provides write operations for school leads.
type SchoolWriter interface {
	Create(ctx context.Context, params CreateParams) (domain.School, error)
	// ApplyStageMutation persists a stage advance. It fails with a conflict
	// error when the stored version no longer matches the mutation's
	// expected version.
	ApplyStageMutation(ctx context.Context, id uuid.UUID, m domain.StageMutation) (domain.School, error)
	// ApplyContactMutation persists a contact-info edit under the same
	// version check.
	ApplyContactMutation(ctx context.Context, id uuid.UUID, m domain.ContactMutation) (domain.School, error)
	// SetRepAssignment overwrites the rep fields directly; used by the
	// reconcile sweep, which bypasses the version check on purpose (the
	// sweep must win over any concurrent edit it is repairing).
	SetRepAssignment(ctx context.Context, id uuid.UUID, repID, repName *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository combines all school repository operations.
type Repository interface {
	SchoolReader
	SchoolWriter
}
