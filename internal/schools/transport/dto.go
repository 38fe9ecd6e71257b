// Package transport defines the HTTP request and response types for the
// schools module.
package transport

import (
	"time"

	"educater_backend/internal/schools/domain"
	"educater_backend/internal/schools/repository"

	"github.com/google/uuid"
)

// CreateSchoolRequest is the request body for registering a new lead.
type CreateSchoolRequest struct {
	Name           string  `json:"name" validate:"required,min=2,max=200"`
	PrincipalName  string  `json:"principalName" validate:"max=120"`
	PrincipalEmail string  `json:"principalEmail" validate:"omitempty,email"`
	SecretaryEmail *string `json:"secretaryEmail,omitempty" validate:"omitempty,email"`
	Track          string  `json:"track" validate:"required,oneof='Acquisition Track' 'Engagement Track'"`
	StudentCount   int     `json:"studentCount" validate:"min=0"`
	Notes          string  `json:"notes,omitempty" validate:"max=5000"`
}

// ToParams converts the request into repository create parameters.
func (r CreateSchoolRequest) ToParams() repository.CreateParams {
	return repository.CreateParams{
		Name:           r.Name,
		PrincipalName:  r.PrincipalName,
		PrincipalEmail: r.PrincipalEmail,
		SecretaryEmail: r.SecretaryEmail,
		Track:          domain.Track(r.Track),
		StudentCount:   r.StudentCount,
		Notes:          r.Notes,
	}
}

// AdvanceStageRequest is the request body for moving a lead through the
// pipeline.
type AdvanceStageRequest struct {
	Stage string `json:"stage" validate:"required"`
}

// UpdateContactRequest is the request body for a partial contact-info edit.
// Omitted fields are left untouched.
type UpdateContactRequest struct {
	PrincipalName  *string `json:"principalName,omitempty" validate:"omitempty,max=120"`
	PrincipalEmail *string `json:"principalEmail,omitempty" validate:"omitempty,email"`
	SecretaryEmail *string `json:"secretaryEmail,omitempty" validate:"omitempty,email"`
	StudentCount   *int    `json:"studentCount,omitempty" validate:"omitempty,min=0"`
}

// ToUpdate converts the request into a domain contact update.
func (r UpdateContactRequest) ToUpdate() domain.ContactUpdate {
	return domain.ContactUpdate{
		PrincipalName:  r.PrincipalName,
		PrincipalEmail: r.PrincipalEmail,
		SecretaryEmail: r.SecretaryEmail,
		StudentCount:   r.StudentCount,
	}
}

// CheckNameRequest is the query for the duplicate pre-check.
type CheckNameRequest struct {
	Name string `form:"name" validate:"required"`
}

// CheckNameResponse reports whether a similar name already exists.
type CheckNameResponse struct {
	Exists bool `json:"exists"`
}

// SchoolResponse is the response body for a school lead.
type SchoolResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	PrincipalName    string     `json:"principalName,omitempty"`
	PrincipalEmail   string     `json:"principalEmail,omitempty"`
	SecretaryEmail   *string    `json:"secretaryEmail,omitempty"`
	SalesRepID       *string    `json:"salesRepId,omitempty"`
	SalesRepName     *string    `json:"salesRepName,omitempty"`
	Stage            string     `json:"stage"`
	Track            string     `json:"track"`
	StudentCount     int        `json:"studentCount"`
	LastContactDate  string     `json:"lastContactDate"`
	CommissionEarned float64    `json:"commissionEarned"`
	EngagementRate   float64    `json:"engagementRate"`
	Notes            string     `json:"notes,omitempty"`
	LastEditedBy     *string    `json:"lastEditedBy,omitempty"`
	LastEditedAt     *time.Time `json:"lastEditedAt,omitempty"`
}

// FromDomain maps a domain school to its response shape.
func FromDomain(s domain.School) SchoolResponse {
	return SchoolResponse{
		ID:               s.ID,
		Name:             s.Name,
		PrincipalName:    s.PrincipalName,
		PrincipalEmail:   s.PrincipalEmail,
		SecretaryEmail:   s.SecretaryEmail,
		SalesRepID:       s.SalesRepID,
		SalesRepName:     s.SalesRepName,
		Stage:            string(s.Stage),
		Track:            string(s.Track),
		StudentCount:     s.StudentCount,
		LastContactDate:  s.LastContactDate.Format("2006-01-02"),
		CommissionEarned: s.CommissionEarned,
		EngagementRate:   s.EngagementRate,
		Notes:            s.Notes,
		LastEditedBy:     s.LastEditedBy,
		LastEditedAt:     s.LastEditedAt,
	}
}

// FromDomainList maps a slice of domain schools.
func FromDomainList(schools []domain.School) []SchoolResponse {
	out := make([]SchoolResponse, len(schools))
	for i, s := range schools {
		out[i] = FromDomain(s)
	}
	return out
}

// StatsResponse is the pipeline summary for the dashboard.
type StatsResponse struct {
	Total            int            `json:"total"`
	ByStage          map[string]int `json:"byStage"`
	TotalCommission  float64        `json:"totalCommission"`
	AvgEngagementPct float64        `json:"avgEngagementPct"`
}

// FromStats converts repository stats to a response.
func FromStats(s repository.PipelineStats) StatsResponse {
	return StatsResponse{
		Total:            s.Total,
		ByStage:          s.ByStage,
		TotalCommission:  s.TotalCommission,
		AvgEngagementPct: s.AvgEngagementPct,
	}
}

// ReconcileResponse reports the outcome of an assignment sweep.
type ReconcileResponse struct {
	Corrected int `json:"corrected"`
}

// SeedRequest is the request body for (re)seeding the prospect list.
type SeedRequest struct {
	Force bool `json:"force"`
}

// SeedResponse reports how many prospects were inserted.
type SeedResponse struct {
	Seeded int `json:"seeded"`
}
