package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/segmentio/ksuid"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/repository"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

// ComplaintService coordinates the grievance lifecycle: creation with
// category triage, role-scoped visibility, admin review and deletion.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	dispatcher events.Dispatcher
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	Dispatcher    events.Dispatcher
}

// ComplaintCreateInput describes complaint creation payload.
type ComplaintCreateInput struct {
	PolicyNumber string
	Category     domain.ComplaintCategory
	Title        string
	Description  string
}

// ComplaintUpdateInput describes the admin review patch.
type ComplaintUpdateInput struct {
	Status        *domain.ComplaintStatus
	AdminResponse *string
}

// ComplaintListFilter describes listing filters.
type ComplaintListFilter struct {
	Statuses   []domain.ComplaintStatus
	Categories []domain.ComplaintCategory
	Limit      int
	Offset     int
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create files a complaint for the caller. Department and priority are
// derived from the category and persisted; status starts at Pending.
func (s *ComplaintService) Create(ctx context.Context, caller *domain.User, input ComplaintCreateInput) (*domain.Complaint, error) {
	missing := map[string]any{}
	if strings.TrimSpace(input.PolicyNumber) == "" {
		missing["policyNumber"] = "required"
	}
	if input.Category == "" {
		missing["category"] = "required"
	}
	if strings.TrimSpace(input.Title) == "" {
		missing["title"] = "required"
	}
	if strings.TrimSpace(input.Description) == "" {
		missing["description"] = "required"
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("all fields required", missing)
	}
	if !domain.ValidCategory(input.Category) {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}

	department, priority := domain.Triage(input.Category)
	complaint := &domain.Complaint{
		ReferenceKey: generateReferenceKey(),
		UserID:       caller.ID,
		PolicyNumber: strings.TrimSpace(input.PolicyNumber),
		Category:     input.Category,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Status:       domain.ComplaintStatusPending,
		Department:   department,
		Priority:     priority,
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Actor:       actorFor(caller),
		Payload: events.ComplaintCreatedPayload{
			ReferenceKey: complaint.ReferenceKey,
			Category:     complaint.Category,
			Department:   complaint.Department,
			Priority:     complaint.Priority,
			Title:        complaint.Title,
		},
	})
	return complaint, nil
}

// List returns complaints visible to the caller: admins see every
// complaint, regular users only their own.
func (s *ComplaintService) List(ctx context.Context, caller *domain.User, filter ComplaintListFilter) ([]domain.Complaint, error) {
	repoFilter := repository.ComplaintFilter{
		Statuses:   filter.Statuses,
		Categories: filter.Categories,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if !caller.IsAdmin() {
		repoFilter.OwnerID = &caller.ID
	}

	complaints, err := s.complaints.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return complaints, nil
}

// Get fetches a single complaint, restricted to the owner or an admin.
func (s *ComplaintService) Get(ctx context.Context, caller *domain.User, id string) (*domain.Complaint, error) {
	complaint, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if complaint.UserID != caller.ID && !caller.IsAdmin() {
		return nil, apperrors.NewUnauthorized("not authorized")
	}
	return complaint, nil
}

// Update applies an admin review patch: a status change, a resolution
// note, or both. Only admins may update; ownership is not enough.
func (s *ComplaintService) Update(ctx context.Context, caller *domain.User, id string, patch ComplaintUpdateInput) (*domain.Complaint, error) {
	complaint, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		return nil, apperrors.NewUnauthorized("not authorized")
	}
	if patch.Status == nil && patch.AdminResponse == nil {
		return nil, apperrors.NewValidationError("nothing to update", nil)
	}

	oldStatus := complaint.Status
	if patch.Status != nil {
		if !domain.ValidStatus(*patch.Status) {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *patch.Status})
		}
		complaint.Status = *patch.Status
	}
	if patch.AdminResponse != nil {
		complaint.AdminResponse = patch.AdminResponse
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if complaint.Status != oldStatus {
		s.publishEvent(ctx, events.Event{
			Type:        events.EventComplaintStatusChanged,
			ComplaintID: complaint.ID,
			Actor:       actorFor(caller),
			Payload: events.ComplaintStatusChangedPayload{
				OldStatus:     oldStatus,
				NewStatus:     complaint.Status,
				AdminResponse: complaint.AdminResponse,
			},
		})
	}
	return complaint, nil
}

// Delete removes a complaint permanently. Admins may always delete; the
// owner only while the complaint is still Pending.
func (s *ComplaintService) Delete(ctx context.Context, caller *domain.User, id string) error {
	complaint, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}

	switch {
	case caller.IsAdmin():
	case complaint.UserID == caller.ID:
		if complaint.Status != domain.ComplaintStatusPending {
			return apperrors.NewValidationError("cannot delete active ticket", map[string]any{"status": complaint.Status})
		}
	default:
		return apperrors.NewUnauthorized("not authorized")
	}

	if err := s.complaints.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintDeleted,
		ComplaintID: complaint.ID,
		Actor:       actorFor(caller),
		Payload: events.ComplaintDeletedPayload{
			ReferenceKey: complaint.ReferenceKey,
			Status:       complaint.Status,
		},
	})
	return nil
}

func (s *ComplaintService) fetch(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorFor(user *domain.User) events.Actor {
	return events.Actor{UserID: user.ID, Role: user.Role}
}

func generateReferenceKey() string {
	return "GRV-" + ksuid.New().String()
}
