// Package service implements outreach template management and sending.
package service

import (
	"context"
	"html"
	"strings"

	"educater_backend/internal/email"
	"educater_backend/internal/templates/repository"
	"educater_backend/platform/logger"

	"github.com/google/uuid"
)

// Placeholders substituted into a template at render time.
type Placeholders struct {
	SchoolName    string
	PrincipalName string
	RepName       string
}

// Service provides template operations.
type Service struct {
	repo repository.Repository
	mail email.Sender
	log  *logger.Logger
}

// New creates a new templates service.
func New(repo repository.Repository, mail email.Sender, log *logger.Logger) *Service {
	return &Service{repo: repo, mail: mail, log: log}
}

// List returns all templates.
func (s *Service) List(ctx context.Context) ([]repository.Template, error) {
	return s.repo.List(ctx)
}

// Get returns one template by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Template, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a new template.
func (s *Service) Create(ctx context.Context, params repository.CreateParams) (repository.Template, error) {
	return s.repo.Create(ctx, params)
}

// Update merges a partial template update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params repository.UpdateParams) (repository.Template, error) {
	return s.repo.Update(ctx, id, params)
}

// Delete removes a template.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Render substitutes placeholders into a template's subject and content.
// Values are HTML-escaped since the content is sent as HTML email.
func Render(t repository.Template, p Placeholders) (subject, body string) {
	replacer := strings.NewReplacer(
		"{{schoolName}}", html.EscapeString(p.SchoolName),
		"{{principalName}}", html.EscapeString(p.PrincipalName),
		"{{repName}}", html.EscapeString(p.RepName),
	)
	return replacer.Replace(t.Subject), replacer.Replace(t.Content)
}

// Send renders a template and emails it to the given address.
func (s *Service) Send(ctx context.Context, id uuid.UUID, toEmail string, p Placeholders) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	subject, body := Render(t, p)
	if err := s.mail.SendOutreachEmail(ctx, toEmail, subject, body); err != nil {
		return err
	}

	s.log.Info("outreach email sent", "template", t.Title, "to", toEmail)
	return nil
}
