// Package transport defines request/response DTOs for the incentives API.
package transport

import (
	"time"

	"educater_backend/internal/incentives/repository"

	"github.com/google/uuid"
)

// CreateIncentiveRequest announces a new incentive.
type CreateIncentiveRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"required,min=1,max=5000"`
	ImageKey    *string `json:"imageKey,omitempty" validate:"omitempty,max=512"`
}

// ImageUploadRequest asks for a presigned upload URL for an announcement
// image.
type ImageUploadRequest struct {
	FileName    string `json:"fileName" validate:"required,min=1,max=255"`
	ContentType string `json:"contentType" validate:"required"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,gt=0"`
}

// IncentiveResponse is the API representation of an incentive.
type IncentiveResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	HasImage    bool      `json:"hasImage"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromIncentive converts a repository incentive to its API shape.
func FromIncentive(inc repository.Incentive) IncentiveResponse {
	return IncentiveResponse{
		ID:          inc.ID,
		Title:       inc.Title,
		Description: inc.Description,
		HasImage:    inc.ImageKey != nil,
		CreatedBy:   inc.CreatedBy,
		CreatedAt:   inc.CreatedAt,
	}
}

// FromIncentiveList converts a slice of incentives.
func FromIncentiveList(incentives []repository.Incentive) []IncentiveResponse {
	out := make([]IncentiveResponse, len(incentives))
	for i, inc := range incentives {
		out[i] = FromIncentive(inc)
	}
	return out
}
