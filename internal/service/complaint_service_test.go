package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
)

type recordedEvents struct {
	events []events.Event
}

func (r *recordedEvents) record(_ context.Context, e events.Event) error {
	r.events = append(r.events, e)
	return nil
}

func newTestComplaintService() (*ComplaintService, *fakeComplaintRepo, *recordedEvents) {
	repo := newFakeComplaintRepo()
	dispatcher := events.NewInMemoryDispatcher()
	recorded := &recordedEvents{}
	dispatcher.Subscribe(events.EventComplaintCreated, recorded.record)
	dispatcher.Subscribe(events.EventComplaintStatusChanged, recorded.record)
	dispatcher.Subscribe(events.EventComplaintDeleted, recorded.record)

	svc := NewComplaintService(ComplaintDependencies{
		ComplaintRepo: repo,
		Dispatcher:    dispatcher,
	})
	return svc, repo, recorded
}

func testUser(id string) *domain.User {
	return &domain.User{ID: id, Name: "User " + id, Email: id + "@example.com", Role: domain.RoleUser}
}

func testAdmin() *domain.User {
	return &domain.User{ID: "admin-1", Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin}
}

func validInput() ComplaintCreateInput {
	return ComplaintCreateInput{
		PolicyNumber: "POL-9981",
		Category:     domain.CategoryClaimIssue,
		Title:        "Claim still unpaid",
		Description:  "Claim filed in June has not been processed.",
	}
}

func TestCreateAssignsTriageAndOwnership(t *testing.T) {
	svc, _, recorded := newTestComplaintService()
	owner := testUser("a")

	complaint, err := svc.Create(context.Background(), owner, validInput())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if complaint.UserID != owner.ID {
		t.Errorf("owner = %q, want %q", complaint.UserID, owner.ID)
	}
	if complaint.Status != domain.ComplaintStatusPending {
		t.Errorf("status = %q, want Pending", complaint.Status)
	}
	if complaint.Department != domain.DepartmentClaims {
		t.Errorf("department = %q, want Claims Department", complaint.Department)
	}
	if complaint.Priority != domain.PriorityHigh {
		t.Errorf("priority = %q, want High", complaint.Priority)
	}
	if !strings.HasPrefix(complaint.ReferenceKey, "GRV-") {
		t.Errorf("reference key %q missing GRV- prefix", complaint.ReferenceKey)
	}
	if len(recorded.events) != 1 || recorded.events[0].Type != events.EventComplaintCreated {
		t.Errorf("expected one complaint_created event, got %v", recorded.events)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestComplaintService()
	owner := testUser("a")

	mutate := []struct {
		name string
		fn   func(*ComplaintCreateInput)
	}{
		{"missing policy number", func(in *ComplaintCreateInput) { in.PolicyNumber = " " }},
		{"missing category", func(in *ComplaintCreateInput) { in.Category = "" }},
		{"missing title", func(in *ComplaintCreateInput) { in.Title = "" }},
		{"missing description", func(in *ComplaintCreateInput) { in.Description = "" }},
		{"unknown category", func(in *ComplaintCreateInput) { in.Category = "Billing" }},
	}
	for _, tc := range mutate {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.fn(&input)
			_, err := svc.Create(context.Background(), owner, input)
			assertDomainError(t, err, http.StatusBadRequest)
		})
	}
}

func TestListScopesByRole(t *testing.T) {
	svc, repo, _ := newTestComplaintService()
	ctx := context.Background()
	userA := testUser("a")
	userB := testUser("b")
	repo.registerOwner(userA)
	repo.registerOwner(userB)

	if _, err := svc.Create(ctx, userA, validInput()); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	inputB := validInput()
	inputB.Category = domain.CategoryPremiumPayment
	if _, err := svc.Create(ctx, userB, inputB); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	own, err := svc.List(ctx, userA, ComplaintListFilter{})
	if err != nil {
		t.Fatalf("List() as user error: %v", err)
	}
	if len(own) != 1 || own[0].UserID != userA.ID {
		t.Errorf("user list = %d complaints, want only user-a's", len(own))
	}

	all, err := svc.List(ctx, testAdmin(), ComplaintListFilter{})
	if err != nil {
		t.Fatalf("List() as admin error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin list = %d complaints, want 2", len(all))
	}
	for _, c := range all {
		if c.Owner == nil || c.Owner.Name == "" || c.Owner.Email == "" {
			t.Errorf("admin listing missing owner identity for %s", c.ID)
		}
	}

	filtered, err := svc.List(ctx, testAdmin(), ComplaintListFilter{
		Categories: []domain.ComplaintCategory{domain.CategoryPremiumPayment},
	})
	if err != nil {
		t.Fatalf("List() with filter error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].UserID != userB.ID {
		t.Errorf("category filter returned %d complaints", len(filtered))
	}
}

func TestGetAuthorization(t *testing.T) {
	svc, _, _ := newTestComplaintService()
	ctx := context.Background()
	owner := testUser("a")

	created, err := svc.Create(ctx, owner, validInput())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if _, err := svc.Get(ctx, owner, created.ID); err != nil {
		t.Errorf("owner Get() error: %v", err)
	}
	if _, err := svc.Get(ctx, testAdmin(), created.ID); err != nil {
		t.Errorf("admin Get() error: %v", err)
	}

	_, err = svc.Get(ctx, testUser("b"), created.ID)
	assertDomainError(t, err, http.StatusUnauthorized)

	_, err = svc.Get(ctx, owner, "missing-id")
	assertDomainError(t, err, http.StatusNotFound)
}

func TestUpdateAdminOnly(t *testing.T) {
	svc, _, recorded := newTestComplaintService()
	ctx := context.Background()
	owner := testUser("a")

	created, err := svc.Create(ctx, owner, validInput())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	resolved := domain.ComplaintStatusResolved
	note := "Claim approved and paid out."

	// Ownership alone is not enough to update.
	_, err = svc.Update(ctx, owner, created.ID, ComplaintUpdateInput{Status: &resolved})
	assertDomainError(t, err, http.StatusUnauthorized)

	updated, err := svc.Update(ctx, testAdmin(), created.ID, ComplaintUpdateInput{
		Status:        &resolved,
		AdminResponse: &note,
	})
	if err != nil {
		t.Fatalf("admin Update() error: %v", err)
	}
	if updated.Status != domain.ComplaintStatusResolved {
		t.Errorf("status = %q, want Resolved", updated.Status)
	}
	if updated.AdminResponse == nil || *updated.AdminResponse != note {
		t.Error("admin response not persisted")
	}

	// Owner reads back the admin's resolution.
	fetched, err := svc.Get(ctx, owner, created.ID)
	if err != nil {
		t.Fatalf("Get() after update error: %v", err)
	}
	if fetched.Status != domain.ComplaintStatusResolved || fetched.AdminResponse == nil {
		t.Error("update not visible to owner")
	}

	var statusEvents int
	for _, e := range recorded.events {
		if e.Type == events.EventComplaintStatusChanged {
			statusEvents++
		}
	}
	if statusEvents != 1 {
		t.Errorf("status change events = %d, want 1", statusEvents)
	}
}

func TestUpdateValidation(t *testing.T) {
	svc, _, _ := newTestComplaintService()
	ctx := context.Background()
	admin := testAdmin()

	created, err := svc.Create(ctx, testUser("a"), validInput())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	_, err = svc.Update(ctx, admin, created.ID, ComplaintUpdateInput{})
	assertDomainError(t, err, http.StatusBadRequest)

	bogus := domain.ComplaintStatus("Escalated")
	_, err = svc.Update(ctx, admin, created.ID, ComplaintUpdateInput{Status: &bogus})
	assertDomainError(t, err, http.StatusBadRequest)

	resolved := domain.ComplaintStatusResolved
	_, err = svc.Update(ctx, admin, "missing-id", ComplaintUpdateInput{Status: &resolved})
	assertDomainError(t, err, http.StatusNotFound)
}

func TestDeleteRules(t *testing.T) {
	svc, _, _ := newTestComplaintService()
	ctx := context.Background()
	owner := testUser("a")
	admin := testAdmin()

	t.Run("owner deletes pending", func(t *testing.T) {
		created, err := svc.Create(ctx, owner, validInput())
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		if err := svc.Delete(ctx, owner, created.ID); err != nil {
			t.Fatalf("Delete() error: %v", err)
		}
		if _, err := svc.Get(ctx, owner, created.ID); err == nil {
			t.Error("complaint still retrievable after delete")
		}
	})

	t.Run("owner cannot delete active", func(t *testing.T) {
		created, err := svc.Create(ctx, owner, validInput())
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		inProgress := domain.ComplaintStatusInProgress
		if _, err := svc.Update(ctx, admin, created.ID, ComplaintUpdateInput{Status: &inProgress}); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
		err = svc.Delete(ctx, owner, created.ID)
		domainErr := assertDomainError(t, err, http.StatusBadRequest)
		if domainErr.Message != "cannot delete active ticket" {
			t.Errorf("message = %q", domainErr.Message)
		}
	})

	t.Run("admin deletes any status", func(t *testing.T) {
		created, err := svc.Create(ctx, owner, validInput())
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		resolved := domain.ComplaintStatusResolved
		if _, err := svc.Update(ctx, admin, created.ID, ComplaintUpdateInput{Status: &resolved}); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
		if err := svc.Delete(ctx, admin, created.ID); err != nil {
			t.Errorf("admin Delete() error: %v", err)
		}
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		created, err := svc.Create(ctx, owner, validInput())
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		err = svc.Delete(ctx, testUser("b"), created.ID)
		assertDomainError(t, err, http.StatusUnauthorized)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := svc.Delete(ctx, admin, "missing-id")
		assertDomainError(t, err, http.StatusNotFound)
	})
}
