package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/repository"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeComplaintRepo struct {
	mu         sync.Mutex
	complaints map[string]*domain.Complaint
	owners     map[string]domain.ComplaintOwner
	nextID     int
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{
		complaints: make(map[string]*domain.Complaint),
		owners:     make(map[string]domain.ComplaintOwner),
	}
}

func (r *fakeComplaintRepo) registerOwner(user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[user.ID] = domain.ComplaintOwner{ID: user.ID, Name: user.Name, Email: user.Email}
}

func (r *fakeComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	complaint.ID = fmt.Sprintf("complaint-%d", r.nextID)
	complaint.CreatedAt = time.Now()
	complaint.UpdatedAt = complaint.CreatedAt
	stored := *complaint
	r.complaints[complaint.ID] = &stored
	return nil
}

func (r *fakeComplaintRepo) Update(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.complaints[complaint.ID]; !ok {
		return pgx.ErrNoRows
	}
	complaint.UpdatedAt = time.Now()
	stored := *complaint
	r.complaints[complaint.ID] = &stored
	return nil
}

func (r *fakeComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *complaint
	if owner, ok := r.owners[complaint.UserID]; ok {
		copied.Owner = &owner
	}
	return &copied, nil
}

func (r *fakeComplaintRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.complaints[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.complaints, id)
	return nil
}

func (r *fakeComplaintRepo) List(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Complaint
	for _, complaint := range r.complaints {
		if filter.OwnerID != nil && complaint.UserID != *filter.OwnerID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, complaint.Status) {
			continue
		}
		if len(filter.Categories) > 0 && !containsCategory(filter.Categories, complaint.Category) {
			continue
		}
		copied := *complaint
		if owner, ok := r.owners[complaint.UserID]; ok {
			copied.Owner = &owner
		}
		result = append(result, copied)
	}
	return result, nil
}

func containsStatus(list []domain.ComplaintStatus, s domain.ComplaintStatus) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}

func containsCategory(list []domain.ComplaintCategory, c domain.ComplaintCategory) bool {
	for _, candidate := range list {
		if candidate == c {
			return true
		}
	}
	return false
}

type fakeRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newFakeRevocationStore() *fakeRevocationStore {
	return &fakeRevocationStore{revoked: make(map[string]time.Duration)}
}

func (s *fakeRevocationStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ttl > 0 {
		s.revoked[tokenID] = ttl
	}
	return nil
}

func (s *fakeRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok, nil
}
