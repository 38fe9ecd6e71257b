// Package transport defines the HTTP request and response types for outreach
// templates.
package transport

import (
	"time"

	"educater_backend/internal/templates/repository"

	"github.com/google/uuid"
)

// CreateTemplateRequest is the request body for creating a template.
type CreateTemplateRequest struct {
	Track   string `json:"track" validate:"required,oneof='Acquisition Track' 'Engagement Track'"`
	Title   string `json:"title" validate:"required,min=2,max=200"`
	Subject string `json:"subject" validate:"required,min=2,max=300"`
	Content string `json:"content" validate:"required,max=50000"`
}

// UpdateTemplateRequest is a partial template update.
type UpdateTemplateRequest struct {
	Track   *string `json:"track,omitempty" validate:"omitempty,oneof='Acquisition Track' 'Engagement Track'"`
	Title   *string `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Subject *string `json:"subject,omitempty" validate:"omitempty,min=2,max=300"`
	Content *string `json:"content,omitempty" validate:"omitempty,max=50000"`
}

// ToParams converts the request into repository update parameters.
func (r UpdateTemplateRequest) ToParams() repository.UpdateParams {
	return repository.UpdateParams{
		Track:   r.Track,
		Title:   r.Title,
		Subject: r.Subject,
		Content: r.Content,
	}
}

// SendTemplateRequest asks to render and send a template.
type SendTemplateRequest struct {
	ToEmail       string `json:"toEmail" validate:"required,email"`
	SchoolName    string `json:"schoolName" validate:"required,max=200"`
	PrincipalName string `json:"principalName,omitempty" validate:"max=120"`
}

// TemplateResponse is the response body for a template.
type TemplateResponse struct {
	ID        uuid.UUID `json:"id"`
	Track     string    `json:"track"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromTemplate maps a template to its response shape.
func FromTemplate(t repository.Template) TemplateResponse {
	return TemplateResponse{
		ID:        t.ID,
		Track:     t.Track,
		Title:     t.Title,
		Subject:   t.Subject,
		Content:   t.Content,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// FromTemplateList maps a slice of templates.
func FromTemplateList(templates []repository.Template) []TemplateResponse {
	out := make([]TemplateResponse, len(templates))
	for i, t := range templates {
		out[i] = FromTemplate(t)
	}
	return out
}
