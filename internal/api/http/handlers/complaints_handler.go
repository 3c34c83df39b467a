package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grievance-service/internal/api/dto"
	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/service"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

// ComplaintsHandler manages complaint endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// Create POST /complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("no token")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.service.Create(c.Context(), principal.User, service.ComplaintCreateInput{
		PolicyNumber: req.PolicyNumber,
		Category:     req.Category,
		Title:        req.Title,
		Description:  req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(complaintResponse(complaint, false))
}

// List GET /complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("no token")
	}

	complaints, err := h.service.List(c.Context(), principal.User, parseListQuery(c))
	if err != nil {
		return err
	}

	// Owner identity is expanded only for administrators; users already
	// know their own complaints.
	withOwner := principal.IsAdmin()
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, complaintResponse(&complaints[i], withOwner))
	}
	return c.JSON(items)
}

// Get GET /complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("no token")
	}
	complaint, err := h.service.Get(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(complaintResponse(complaint, true))
}

// Update PUT /complaints/:id (admin only).
func (h *ComplaintsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("no token")
	}
	var req dto.UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.service.Update(c.Context(), principal.User, c.Params("id"), service.ComplaintUpdateInput{
		Status:        req.Status,
		AdminResponse: req.AdminResponse,
	})
	if err != nil {
		return err
	}
	return c.JSON(complaintResponse(complaint, true))
}

// Delete DELETE /complaints/:id.
func (h *ComplaintsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("no token")
	}
	id := c.Params("id")
	if err := h.service.Delete(c.Context(), principal.User, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"id": id})
}

func parseListQuery(c *fiber.Ctx) service.ComplaintListFilter {
	filter := service.ComplaintListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.ComplaintStatus(strings.TrimSpace(part)))
		}
	}
	if categoryStr := c.Query("category"); categoryStr != "" {
		for _, part := range strings.Split(categoryStr, ",") {
			filter.Categories = append(filter.Categories, domain.ComplaintCategory(strings.TrimSpace(part)))
		}
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func complaintResponse(complaint *domain.Complaint, withOwner bool) dto.ComplaintResponse {
	resp := dto.ComplaintResponse{
		ID:            complaint.ID,
		ReferenceKey:  complaint.ReferenceKey,
		PolicyNumber:  complaint.PolicyNumber,
		Category:      complaint.Category,
		Title:         complaint.Title,
		Description:   complaint.Description,
		Status:        complaint.Status,
		Department:    complaint.Department,
		Priority:      complaint.Priority,
		AdminResponse: complaint.AdminResponse,
		CreatedAt:     complaint.CreatedAt,
		UpdatedAt:     complaint.UpdatedAt,
	}
	if withOwner && complaint.Owner != nil {
		resp.Owner = &dto.OwnerResponse{
			ID:    complaint.Owner.ID,
			Name:  complaint.Owner.Name,
			Email: complaint.Owner.Email,
		}
	}
	return resp
}
