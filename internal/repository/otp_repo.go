package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contractor_connect/internal/model"

	"github.com/jackc/pgx/v5"
)

// OTPRepository defines operations for one-time codes
type OTPRepository interface {
	Create(ctx context.Context, otp *model.OTP) error
	InvalidatePrevious(ctx context.Context, phone, purpose string) error
	CountSince(ctx context.Context, phone string, since time.Time) (int, error)
	FindValid(ctx context.Context, phone, code, purpose string, now time.Time) (*model.OTP, error)
	MarkUsed(ctx context.Context, id string) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type otpRepository struct {
	db DB
}

// NewOTPRepository creates a new OTPRepository
func NewOTPRepository(db DB) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Create(ctx context.Context, o *model.OTP) error {
	sql := `INSERT INTO otps (user_id, phone_number, otp_code, purpose, expires_at)
            VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	if err := r.db.QueryRow(ctx, sql, o.UserID, o.PhoneNumber, o.Code, o.Purpose, o.ExpiresAt).Scan(&o.ID, &o.CreatedAt); err != nil {
		return fmt.Errorf("failed to create otp: %w", err)
	}
	return nil
}

// InvalidatePrevious marks every unused code for phone and purpose as used
func (r *otpRepository) InvalidatePrevious(ctx context.Context, phone, purpose string) error {
	sql := `UPDATE otps SET is_used = TRUE WHERE phone_number = $1 AND purpose = $2 AND is_used = FALSE`
	if _, err := r.db.Exec(ctx, sql, phone, purpose); err != nil {
		return fmt.Errorf("failed to invalidate previous otps: %w", err)
	}
	return nil
}

// CountSince counts codes issued to phone after since, regardless of purpose
func (r *otpRepository) CountSince(ctx context.Context, phone string, since time.Time) (int, error) {
	var count int
	sql := `SELECT COUNT(*) FROM otps WHERE phone_number = $1 AND created_at >= $2`
	if err := r.db.QueryRow(ctx, sql, phone, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recent otps: %w", err)
	}
	return count, nil
}

// FindValid returns the newest unused, unexpired code matching the inputs
func (r *otpRepository) FindValid(ctx context.Context, phone, code, purpose string, now time.Time) (*model.OTP, error) {
	o := &model.OTP{}
	sql := `SELECT id, user_id, phone_number, otp_code, purpose, is_used, created_at, expires_at, verified_at
            FROM otps
            WHERE phone_number = $1 AND otp_code = $2 AND purpose = $3 AND is_used = FALSE AND expires_at > $4
            ORDER BY created_at DESC LIMIT 1`
	err := r.db.QueryRow(ctx, sql, phone, code, purpose, now).Scan(
		&o.ID, &o.UserID, &o.PhoneNumber, &o.Code, &o.Purpose, &o.IsUsed, &o.CreatedAt, &o.ExpiresAt, &o.VerifiedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find otp: %w", err)
	}
	return o, nil
}

// MarkUsed consumes a code; a second call for the same code reports ErrConflict
func (r *otpRepository) MarkUsed(ctx context.Context, id string) error {
	sql := `UPDATE otps SET is_used = TRUE, verified_at = NOW() WHERE id = $1 AND is_used = FALSE`
	tag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("failed to mark otp used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// DeleteExpiredBefore removes codes that expired before cutoff
func (r *otpRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM otps WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired otps: %w", err)
	}
	return tag.RowsAffected(), nil
}
