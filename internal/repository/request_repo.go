package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contractor_connect/internal/model"

	"github.com/jackc/pgx/v5"
)

// RequestRepository defines operations for work request data
type RequestRepository interface {
	Create(ctx context.Context, req *model.WorkRequest) error
	FindByID(ctx context.Context, id string) (*model.WorkRequest, error)
	List(ctx context.Context, filters model.RequestFilters) ([]model.WorkRequest, int, error)
	Update(ctx context.Context, req *model.WorkRequest) error
	UpdateStatus(ctx context.Context, id, fromStatus, toStatus string) error
	AppendImages(ctx context.Context, id string, urls []string) error
	Delete(ctx context.Context, id string) error
}

const requestSelect = `SELECT r.id, r.society_id, r.assigned_contractor_id, r.title, r.description, r.category, r.status,
       r.location, r.city, r.state, r.pincode, r.budget_min, r.budget_max, r.images,
       r.created_at, r.updated_at, r.started_at, r.completed_at,
       s.name, s.phone_number, s.city,
       c.name, c.phone_number,
       (SELECT COUNT(*) FROM bids b WHERE b.request_id = r.id) AS bids_count
FROM requests r
JOIN users s ON s.id = r.society_id
LEFT JOIN users c ON c.id = r.assigned_contractor_id`

type requestRepository struct {
	db DB
}

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db DB) RequestRepository {
	return &requestRepository{db: db}
}

func scanRequest(row pgx.Row) (*model.WorkRequest, error) {
	wr := &model.WorkRequest{}
	society := &model.UserSummary{}
	var contractorName, contractorPhone *string
	err := row.Scan(
		&wr.ID, &wr.SocietyID, &wr.AssignedContractorID, &wr.Title, &wr.Description, &wr.Category, &wr.Status,
		&wr.Location, &wr.City, &wr.State, &wr.Pincode, &wr.BudgetMin, &wr.BudgetMax, &wr.Images,
		&wr.CreatedAt, &wr.UpdatedAt, &wr.StartedAt, &wr.CompletedAt,
		&society.Name, &society.PhoneNumber, &society.City,
		&contractorName, &contractorPhone,
		&wr.BidsCount,
	)
	if err != nil {
		return nil, err
	}
	society.ID = wr.SocietyID
	wr.Society = society
	if wr.AssignedContractorID != nil && contractorName != nil {
		wr.AssignedContractor = &model.UserSummary{ID: *wr.AssignedContractorID, Name: *contractorName}
		if contractorPhone != nil {
			wr.AssignedContractor.PhoneNumber = *contractorPhone
		}
	}
	if wr.Images == nil {
		wr.Images = []string{}
	}
	return wr, nil
}

// Create inserts a new work request
func (r *requestRepository) Create(ctx context.Context, wr *model.WorkRequest) error {
	if wr.Images == nil {
		wr.Images = []string{}
	}
	sql := `INSERT INTO requests (society_id, title, description, category, status, location, city, state, pincode, budget_min, budget_max, images)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql,
		wr.SocietyID, wr.Title, wr.Description, wr.Category, wr.Status, wr.Location, wr.City, wr.State, wr.Pincode, wr.BudgetMin, wr.BudgetMax, wr.Images,
	).Scan(&wr.ID, &wr.CreatedAt, &wr.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

// FindByID retrieves a work request with its society summary and bid count
func (r *requestRepository) FindByID(ctx context.Context, id string) (*model.WorkRequest, error) {
	wr, err := scanRequest(r.db.QueryRow(ctx, requestSelect+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find request by ID: %w", err)
	}
	return wr, nil
}

// List returns one page of requests matching filters and the total match count
func (r *requestRepository) List(ctx context.Context, filters model.RequestFilters) ([]model.WorkRequest, int, error) {
	var conditions []string
	args := []interface{}{}
	argCount := 1

	add := func(column string, value *string) {
		if value == nil || *value == "" {
			return
		}
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, *value)
		argCount++
	}
	add("r.society_id", filters.SocietyID)
	add("r.assigned_contractor_id", filters.AssignedContractorID)
	add("r.status", filters.Status)
	add("r.category", filters.Category)
	if filters.City != nil && *filters.City != "" {
		conditions = append(conditions, fmt.Sprintf("r.city ILIKE $%d", argCount))
		args = append(args, *filters.City)
		argCount++
	}
	if filters.State != nil && *filters.State != "" {
		conditions = append(conditions, fmt.Sprintf("r.state ILIKE $%d", argCount))
		args = append(args, *filters.State)
		argCount++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM requests r`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count requests: %w", err)
	}

	skip, limit := normalizeLimit(filters.Skip, filters.Limit)
	var queryBuilder strings.Builder
	queryBuilder.WriteString(requestSelect)
	queryBuilder.WriteString(whereClause)
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY r.created_at DESC OFFSET $%d LIMIT $%d", argCount, argCount+1))
	args = append(args, skip, limit)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	requests := []model.WorkRequest{}
	for rows.Next() {
		wr, err := scanRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan request row: %w", err)
		}
		requests = append(requests, *wr)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating request rows: %w", err)
	}
	return requests, total, nil
}

// Update writes the editable fields of a work request. The row must still
// carry the status and updated_at it was read with, otherwise ErrConflict.
func (r *requestRepository) Update(ctx context.Context, wr *model.WorkRequest) error {
	sql := `UPDATE requests
            SET title = $1, description = $2, category = $3, location = $4, city = $5, state = $6, pincode = $7, budget_min = $8, budget_max = $9
            WHERE id = $10 AND society_id = $11 AND status = $12 AND updated_at = $13 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql,
		wr.Title, wr.Description, wr.Category, wr.Location, wr.City, wr.State, wr.Pincode, wr.BudgetMin, wr.BudgetMax, wr.ID, wr.SocietyID,
		wr.Status, wr.UpdatedAt,
	).Scan(&wr.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrConflict
		}
		return fmt.Errorf("failed to update request: %w", err)
	}
	return nil
}

// UpdateStatus moves a request from fromStatus to toStatus
func (r *requestRepository) UpdateStatus(ctx context.Context, id, fromStatus, toStatus string) error {
	sql := `UPDATE requests SET status = $1,
                completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END
            WHERE id = $2 AND status = $3`
	tag, err := r.db.Exec(ctx, sql, toStatus, id, fromStatus)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// AppendImages adds image URLs to a request
func (r *requestRepository) AppendImages(ctx context.Context, id string, urls []string) error {
	tag, err := r.db.Exec(ctx, `UPDATE requests SET images = array_cat(images, $1) WHERE id = $2`, urls, id)
	if err != nil {
		return fmt.Errorf("failed to append request images: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// Delete removes a work request and, through the cascade, its bids
func (r *requestRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}
