package repository

import (
	"context"
	"errors"
	"fmt"

	"educater_backend/internal/schools/domain"
	"educater_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	schoolNotFoundMessage = "school not found"
	schoolStaleMessage    = "school was modified by someone else; reload and retry"
)

const schoolColumns = `
	id, name, principal_name, principal_email, secretary_email,
	sales_rep_id, sales_rep_name, stage, track, student_count,
	last_contact_date, commission_earned, engagement_rate, notes,
	last_edited_by, last_edited_at, version
`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new schools repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a school by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.School, error) {
	query := `SELECT` + schoolColumns + `FROM schools WHERE id = $1`

	s, err := scanSchool(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.School{}, apperr.NotFound(schoolNotFoundMessage)
		}
		return domain.School{}, fmt.Errorf("get school by id: %w", err)
	}
	return s, nil
}

// List retrieves all schools ordered by name.
func (r *Repo) List(ctx context.Context) ([]domain.School, error) {
	query := `SELECT` + schoolColumns + `FROM schools ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	defer rows.Close()

	var schools []domain.School
	for rows.Next() {
		s, err := scanSchool(rows)
		if err != nil {
			return nil, fmt.Errorf("scan school: %w", err)
		}
		schools = append(schools, s)
	}
	return schools, rows.Err()
}

// ListNames retrieves every school name for duplicate detection.
func (r *Repo) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM schools`)
	if err != nil {
		return nil, fmt.Errorf("list school names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan school name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Stats aggregates per-stage counts, total commission, and the mean
// engagement rate across all schools.
func (r *Repo) Stats(ctx context.Context) (PipelineStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT stage, COUNT(*), COALESCE(SUM(commission_earned), 0), COALESCE(SUM(engagement_rate), 0)
		FROM schools
		GROUP BY stage`)
	if err != nil {
		return PipelineStats{}, fmt.Errorf("school stats: %w", err)
	}
	defer rows.Close()

	stats := PipelineStats{ByStage: make(map[string]int)}
	var engagementSum float64
	for rows.Next() {
		var stage string
		var count int
		var commission, engagement float64
		if err := rows.Scan(&stage, &count, &commission, &engagement); err != nil {
			return PipelineStats{}, fmt.Errorf("scan stage stats: %w", err)
		}
		stats.ByStage[stage] = count
		stats.Total += count
		stats.TotalCommission += commission
		engagementSum += engagement
	}
	if err := rows.Err(); err != nil {
		return PipelineStats{}, fmt.Errorf("school stats: %w", err)
	}
	if stats.Total > 0 {
		stats.AvgEngagementPct = engagementSum / float64(stats.Total)
	}
	return stats, nil
}

// Create inserts a new school at the start of the pipeline.
func (r *Repo) Create(ctx context.Context, params CreateParams) (domain.School, error) {
	query := `
		INSERT INTO schools (name, principal_name, principal_email, secretary_email,
			stage, track, student_count, last_contact_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_DATE, $8)
		RETURNING` + schoolColumns

	s, err := scanSchool(r.pool.QueryRow(ctx, query,
		params.Name, params.PrincipalName, params.PrincipalEmail, params.SecretaryEmail,
		string(domain.StageColdLead), string(params.Track), params.StudentCount, params.Notes,
	))
	if err != nil {
		return domain.School{}, fmt.Errorf("create school: %w", err)
	}
	return s, nil
}

// ApplyStageMutation persists a stage advance with a version check.
func (r *Repo) ApplyStageMutation(ctx context.Context, id uuid.UUID, m domain.StageMutation) (domain.School, error) {
	query := `
		UPDATE schools
		SET stage = $1,
			last_contact_date = $2,
			sales_rep_id = CASE WHEN $3 THEN $4 ELSE sales_rep_id END,
			sales_rep_name = CASE WHEN $3 THEN $5 ELSE sales_rep_name END,
			version = version + 1,
			updated_at = now()
		WHERE id = $6 AND version = $7
		RETURNING` + schoolColumns

	s, err := scanSchool(r.pool.QueryRow(ctx, query,
		string(m.Stage), m.LastContactDate, m.AssignRep, m.SalesRepID, m.SalesRepName,
		id, m.ExpectedVersion,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.School{}, r.versionCheckFailure(ctx, id)
		}
		return domain.School{}, fmt.Errorf("apply stage mutation: %w", err)
	}
	return s, nil
}

// ApplyContactMutation persists a contact edit with a version check. Only the
// provided fields change; NULL parameters leave columns untouched.
func (r *Repo) ApplyContactMutation(ctx context.Context, id uuid.UUID, m domain.ContactMutation) (domain.School, error) {
	query := `
		UPDATE schools
		SET principal_name = COALESCE($1, principal_name),
			principal_email = COALESCE($2, principal_email),
			secretary_email = COALESCE($3, secretary_email),
			student_count = COALESCE($4, student_count),
			last_edited_by = $5,
			last_edited_at = $6,
			version = version + 1,
			updated_at = now()
		WHERE id = $7 AND version = $8
		RETURNING` + schoolColumns

	s, err := scanSchool(r.pool.QueryRow(ctx, query,
		m.PrincipalName, m.PrincipalEmail, m.SecretaryEmail, m.StudentCount,
		m.LastEditedBy, m.LastEditedAt,
		id, m.ExpectedVersion,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.School{}, r.versionCheckFailure(ctx, id)
		}
		return domain.School{}, fmt.Errorf("apply contact mutation: %w", err)
	}
	return s, nil
}

// SetRepAssignment overwrites the rep fields without a version check.
func (r *Repo) SetRepAssignment(ctx context.Context, id uuid.UUID, repID, repName *string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE schools SET sales_rep_id = $1, sales_rep_name = $2, updated_at = now() WHERE id = $3`,
		repID, repName, id,
	)
	if err != nil {
		return fmt.Errorf("set rep assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(schoolNotFoundMessage)
	}
	return nil
}

// Delete removes a school.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM schools WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete school: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(schoolNotFoundMessage)
	}
	return nil
}

// versionCheckFailure distinguishes a missing row from a stale version after
// an UPDATE ... WHERE version = $n matched nothing.
func (r *Repo) versionCheckFailure(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schools WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check school existence: %w", err)
	}
	if !exists {
		return apperr.NotFound(schoolNotFoundMessage)
	}
	return apperr.Conflict(schoolStaleMessage)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchool(row rowScanner) (domain.School, error) {
	var s domain.School
	var stage, track string
	err := row.Scan(
		&s.ID, &s.Name, &s.PrincipalName, &s.PrincipalEmail, &s.SecretaryEmail,
		&s.SalesRepID, &s.SalesRepName, &stage, &track, &s.StudentCount,
		&s.LastContactDate, &s.CommissionEarned, &s.EngagementRate, &s.Notes,
		&s.LastEditedBy, &s.LastEditedAt, &s.Version,
	)
	if err != nil {
		return domain.School{}, err
	}
	s.Stage = domain.Stage(stage)
	s.Track = domain.Track(track)
	return s, nil
}
