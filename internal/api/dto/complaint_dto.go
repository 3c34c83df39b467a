package dto

import (
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	PolicyNumber string                   `json:"policyNumber"`
	Category     domain.ComplaintCategory `json:"category"`
	Title        string                   `json:"title"`
	Description  string                   `json:"description"`
}

// UpdateComplaintRequest is the admin review patch.
type UpdateComplaintRequest struct {
	Status        *domain.ComplaintStatus `json:"status"`
	AdminResponse *string                 `json:"adminResponse"`
}

// OwnerResponse exposes the owner identity fields safe to share.
type OwnerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ComplaintResponse is the full complaint representation.
type ComplaintResponse struct {
	ID            string                   `json:"id"`
	ReferenceKey  string                   `json:"referenceKey"`
	PolicyNumber  string                   `json:"policyNumber"`
	Category      domain.ComplaintCategory `json:"category"`
	Title         string                   `json:"title"`
	Description   string                   `json:"description"`
	Status        domain.ComplaintStatus   `json:"status"`
	Department    domain.Department        `json:"department"`
	Priority      domain.ComplaintPriority `json:"priority"`
	AdminResponse *string                  `json:"adminResponse,omitempty"`
	Owner         *OwnerResponse           `json:"user,omitempty"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}
