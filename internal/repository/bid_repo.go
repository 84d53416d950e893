package repository

import (
	"context"
	"errors"
	"fmt"

	"contractor_connect/internal/model"

	"github.com/jackc/pgx/v5"
)

// BidRepository defines operations for bid data
type BidRepository interface {
	Create(ctx context.Context, bid *model.Bid) error
	FindByID(ctx context.Context, id string) (*model.Bid, error)
	ListByContractor(ctx context.Context, contractorID string, status *string, skip, limit int) ([]model.Bid, int, error)
	ListByRequest(ctx context.Context, requestID string, skip, limit int) ([]model.Bid, int, error)
	HasActiveBid(ctx context.Context, requestID, contractorID string) (bool, error)
	Update(ctx context.Context, bid *model.Bid) error
	Transition(ctx context.Context, id, fromStatus, toStatus string, reason *string) error
	Accept(ctx context.Context, bid *model.Bid) error
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context, requestID string) (*model.BidStatistics, error)
}

const bidSelect = `SELECT b.id, b.request_id, b.contractor_id, b.amount, b.proposal, b.estimated_completion_days,
       b.status, b.rejection_reason, b.created_at, b.updated_at,
       u.name, u.phone_number, u.city,
       r.title, r.status, r.city
FROM bids b
JOIN users u ON u.id = b.contractor_id
JOIN requests r ON r.id = b.request_id`

type bidRepository struct {
	db DB
}

// NewBidRepository creates a new BidRepository
func NewBidRepository(db DB) BidRepository {
	return &bidRepository{db: db}
}

func scanBid(row pgx.Row) (*model.Bid, error) {
	b := &model.Bid{}
	contractor := &model.UserSummary{}
	request := &model.RequestSummary{}
	err := row.Scan(
		&b.ID, &b.RequestID, &b.ContractorID, &b.Amount, &b.Proposal, &b.EstimatedCompletionDays,
		&b.Status, &b.RejectionReason, &b.CreatedAt, &b.UpdatedAt,
		&contractor.Name, &contractor.PhoneNumber, &contractor.City,
		&request.Title, &request.Status, &request.City,
	)
	if err != nil {
		return nil, err
	}
	contractor.ID = b.ContractorID
	request.ID = b.RequestID
	b.Contractor = contractor
	b.Request = request
	return b, nil
}

func (r *bidRepository) Create(ctx context.Context, b *model.Bid) error {
	sql := `INSERT INTO bids (request_id, contractor_id, amount, proposal, estimated_completion_days, status)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, b.RequestID, b.ContractorID, b.Amount, b.Proposal, b.EstimatedCompletionDays, b.Status).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create bid: %w", err)
	}
	return nil
}

func (r *bidRepository) FindByID(ctx context.Context, id string) (*model.Bid, error) {
	b, err := scanBid(r.db.QueryRow(ctx, bidSelect+` WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find bid by ID: %w", err)
	}
	return b, nil
}

// ListByContractor returns the contractor's bids, newest first
func (r *bidRepository) ListByContractor(ctx context.Context, contractorID string, status *string, skip, limit int) ([]model.Bid, int, error) {
	where := ` WHERE b.contractor_id = $1`
	args := []interface{}{contractorID}
	if status != nil && *status != "" {
		where += ` AND b.status = $2`
		args = append(args, *status)
	}
	return r.list(ctx, where, " ORDER BY b.created_at DESC", args, skip, limit)
}

// ListByRequest returns the bids placed on a request, cheapest first
func (r *bidRepository) ListByRequest(ctx context.Context, requestID string, skip, limit int) ([]model.Bid, int, error) {
	return r.list(ctx, ` WHERE b.request_id = $1`, " ORDER BY b.amount ASC, b.created_at ASC", []interface{}{requestID}, skip, limit)
}

func (r *bidRepository) list(ctx context.Context, where, order string, args []interface{}, skip, limit int) ([]model.Bid, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bids b`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bids: %w", err)
	}

	skip, limit = normalizeLimit(skip, limit)
	sql := fmt.Sprintf("%s%s%s OFFSET $%d LIMIT $%d", bidSelect, where, order, len(args)+1, len(args)+2)
	args = append(args, skip, limit)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query bids: %w", err)
	}
	defer rows.Close()

	bids := []model.Bid{}
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan bid row: %w", err)
		}
		bids = append(bids, *b)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating bid rows: %w", err)
	}
	return bids, total, nil
}

// HasActiveBid reports whether the contractor has a pending or accepted bid on the request
func (r *bidRepository) HasActiveBid(ctx context.Context, requestID, contractorID string) (bool, error) {
	var exists bool
	sql := `SELECT EXISTS (SELECT 1 FROM bids WHERE request_id = $1 AND contractor_id = $2 AND status IN ('pending', 'accepted'))`
	if err := r.db.QueryRow(ctx, sql, requestID, contractorID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existing bid: %w", err)
	}
	return exists, nil
}

// Update writes amount, proposal and estimate of a still pending bid
func (r *bidRepository) Update(ctx context.Context, b *model.Bid) error {
	sql := `UPDATE bids SET amount = $1, proposal = $2, estimated_completion_days = $3
            WHERE id = $4 AND status = 'pending' RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, b.Amount, b.Proposal, b.EstimatedCompletionDays, b.ID).Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrConflict
		}
		return fmt.Errorf("failed to update bid: %w", err)
	}
	return nil
}

// Transition moves a bid between statuses, guarded on its current status
func (r *bidRepository) Transition(ctx context.Context, id, fromStatus, toStatus string, reason *string) error {
	sql := `UPDATE bids SET status = $1, rejection_reason = COALESCE($2, rejection_reason)
            WHERE id = $3 AND status = $4`
	tag, err := r.db.Exec(ctx, sql, toStatus, reason, id, fromStatus)
	if err != nil {
		return fmt.Errorf("failed to update bid status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// Accept marks the bid accepted, rejects the competing pending bids and
// assigns the contractor to the request, all in one transaction
func (r *bidRepository) Accept(ctx context.Context, b *model.Bid) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin accept transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `UPDATE bids SET status = 'accepted' WHERE id = $1 AND status = 'pending'`, b.ID)
	if err != nil {
		return fmt.Errorf("failed to accept bid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}

	_, err = tx.Exec(ctx, `UPDATE bids SET status = 'rejected' WHERE request_id = $1 AND id <> $2 AND status = 'pending'`, b.RequestID, b.ID)
	if err != nil {
		return fmt.Errorf("failed to reject competing bids: %w", err)
	}

	tag, err = tx.Exec(ctx, `UPDATE requests SET status = 'in_progress', assigned_contractor_id = $1, started_at = NOW()
            WHERE id = $2 AND status = 'open'`, b.ContractorID, b.RequestID)
	if err != nil {
		return fmt.Errorf("failed to assign contractor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit accept transaction: %w", err)
	}
	b.Status = model.BidStatusAccepted
	return nil
}

func (r *bidRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bids WHERE id = $1 AND status <> 'accepted'`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// Statistics aggregates the bids on a request; amounts are nil when there are no bids
func (r *bidRepository) Statistics(ctx context.Context, requestID string) (*model.BidStatistics, error) {
	s := &model.BidStatistics{}
	sql := `SELECT COUNT(*),
                   COUNT(*) FILTER (WHERE status = 'pending'),
                   COUNT(*) FILTER (WHERE status = 'accepted'),
                   COUNT(*) FILTER (WHERE status = 'rejected'),
                   COUNT(*) FILTER (WHERE status = 'withdrawn'),
                   AVG(amount), MIN(amount), MAX(amount)
            FROM bids WHERE request_id = $1`
	err := r.db.QueryRow(ctx, sql, requestID).Scan(
		&s.TotalBids, &s.PendingBids, &s.AcceptedBids, &s.RejectedBids, &s.WithdrawnBids,
		&s.AverageAmount, &s.MinAmount, &s.MaxAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute bid statistics: %w", err)
	}
	return s, nil
}
