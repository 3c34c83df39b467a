package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// ComplaintFilter captures listing parameters.
type ComplaintFilter struct {
	OwnerID    *string
	Statuses   []domain.ComplaintStatus
	Categories []domain.ComplaintCategory
	Limit      int
	Offset     int
}

// ComplaintRepository encapsulates complaint persistence. Reads join the
// owning user so name and email come back in a single round trip.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates the repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `c.id, c.reference_key, c.user_id, c.policy_number, c.category,
               c.title, c.description, c.status, c.department, c.priority, c.admin_response,
               c.created_at, c.updated_at, u.id, u.name, u.email`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (reference_key, user_id, policy_number, category, title, description, status, department, priority)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.ReferenceKey,
		complaint.UserID,
		complaint.PolicyNumber,
		complaint.Category,
		complaint.Title,
		complaint.Description,
		complaint.Status,
		complaint.Department,
		complaint.Priority,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET status=$1, admin_response=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.Status,
		complaint.AdminResponse,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM complaints c JOIN users u ON u.id = c.user_id
        WHERE c.id=$1`, complaintColumns)

	var complaint domain.Complaint
	var owner domain.ComplaintOwner
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&complaint.ID,
		&complaint.ReferenceKey,
		&complaint.UserID,
		&complaint.PolicyNumber,
		&complaint.Category,
		&complaint.Title,
		&complaint.Description,
		&complaint.Status,
		&complaint.Department,
		&complaint.Priority,
		&complaint.AdminResponse,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
		&owner.ID,
		&owner.Name,
		&owner.Email,
	); err != nil {
		return nil, err
	}
	complaint.Owner = &owner
	return &complaint, nil
}

func (r *complaintRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	base := fmt.Sprintf(`SELECT %s
             FROM complaints c JOIN users u ON u.id = c.user_id`, complaintColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("c.user_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("c.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, category := range filter.Categories {
			args = append(args, category)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("c.category IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY c.created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		var owner domain.ComplaintOwner
		if err := rows.Scan(
			&complaint.ID,
			&complaint.ReferenceKey,
			&complaint.UserID,
			&complaint.PolicyNumber,
			&complaint.Category,
			&complaint.Title,
			&complaint.Description,
			&complaint.Status,
			&complaint.Department,
			&complaint.Priority,
			&complaint.AdminResponse,
			&complaint.CreatedAt,
			&complaint.UpdatedAt,
			&owner.ID,
			&owner.Name,
			&owner.Email,
		); err != nil {
			return nil, err
		}
		complaint.Owner = &owner
		result = append(result, complaint)
	}
	return result, rows.Err()
}
