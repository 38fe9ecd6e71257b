// Package transport defines the HTTP request and response types for the
// resource libraries.
package transport

import (
	"time"

	"educater_backend/internal/resources/repository"

	"github.com/google/uuid"
)

// UploadRequest asks for a presigned upload URL into a library.
type UploadRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=127"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,min=1"`
}

// CreateResourceRequest registers an uploaded file as a resource.
type CreateResourceRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=200"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	Category    string `json:"category,omitempty" validate:"max=100"`
	FileKey     string `json:"fileKey" validate:"required,max=512"`
	ContentType string `json:"contentType" validate:"required,max=127"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,min=1"`
}

// ResourceResponse is the response body for a library resource.
type ResourceResponse struct {
	ID          uuid.UUID `json:"id"`
	Library     string    `json:"library"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	UploadedBy  string    `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromResource maps a resource to its response shape.
func FromResource(res repository.Resource) ResourceResponse {
	return ResourceResponse{
		ID:          res.ID,
		Library:     string(res.Library),
		Title:       res.Title,
		Description: res.Description,
		Category:    res.Category,
		ContentType: res.ContentType,
		SizeBytes:   res.SizeBytes,
		UploadedBy:  res.UploadedBy,
		CreatedAt:   res.CreatedAt,
	}
}

// FromResourceList maps a slice of resources.
func FromResourceList(resources []repository.Resource) []ResourceResponse {
	out := make([]ResourceResponse, len(resources))
	for i, res := range resources {
		out[i] = FromResource(res)
	}
	return out
}
