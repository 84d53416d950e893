package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contractor_connect/internal/metrics"
	"contractor_connect/internal/model"
	"contractor_connect/internal/otp"
	"contractor_connect/internal/repository"
	"contractor_connect/internal/utils"
)

var (
	ErrTooManyOTPRequests = errors.New("too many otp requests, please try again after 5 minutes")
	ErrInvalidOTP         = errors.New("invalid or expired otp code")
)

// OTPSettings tunes code issuance
type OTPSettings struct {
	Length     int
	TTL        time.Duration
	RateLimit  int
	RateWindow time.Duration
}

// OTPService issues, delivers and verifies one-time codes
type OTPService interface {
	Issue(ctx context.Context, phone, purpose string, userID *string) (*model.OTP, error)
	Verify(ctx context.Context, phone, code, purpose string) (*model.OTP, error)
	CleanupExpired(ctx context.Context, retention time.Duration) (int64, error)
	TTL() time.Duration
}

type otpService struct {
	repo     repository.OTPRepository
	sender   otp.Sender
	settings OTPSettings
	now      func() time.Time
}

// NewOTPService creates a new OTPService
func NewOTPService(repo repository.OTPRepository, sender otp.Sender, settings OTPSettings) OTPService {
	return &otpService{repo: repo, sender: sender, settings: settings, now: time.Now}
}

func (s *otpService) TTL() time.Duration {
	return s.settings.TTL
}

// Issue enforces the per-phone rate limit, invalidates older codes for the
// same purpose, stores a fresh code and hands it to the sender
func (s *otpService) Issue(ctx context.Context, phone, purpose string, userID *string) (*model.OTP, error) {
	now := s.now()

	if s.settings.RateLimit > 0 {
		count, err := s.repo.CountSince(ctx, phone, now.Add(-s.settings.RateWindow))
		if err != nil {
			return nil, fmt.Errorf("failed to check otp rate limit: %w", err)
		}
		if count >= s.settings.RateLimit {
			return nil, ErrTooManyOTPRequests
		}
	}

	if err := s.repo.InvalidatePrevious(ctx, phone, purpose); err != nil {
		return nil, err
	}

	code, err := utils.GenerateOTP(s.settings.Length)
	if err != nil {
		return nil, err
	}

	o := &model.OTP{
		UserID:      userID,
		PhoneNumber: phone,
		Code:        code,
		Purpose:     purpose,
		ExpiresAt:   now.Add(s.settings.TTL),
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to store otp: %w", err)
	}

	err = s.sender.Send(ctx, phone, code, purpose)
	metrics.RecordOTPIssued(purpose, err)
	if err != nil {
		return nil, fmt.Errorf("failed to send otp: %w", err)
	}
	return o, nil
}

// Verify consumes a matching code
func (s *otpService) Verify(ctx context.Context, phone, code, purpose string) (*model.OTP, error) {
	o, err := s.repo.FindValid(ctx, phone, code, purpose, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to look up otp: %w", err)
	}
	if o == nil {
		return nil, ErrInvalidOTP
	}
	if err := s.repo.MarkUsed(ctx, o.ID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrInvalidOTP
		}
		return nil, err
	}
	o.IsUsed = true
	return o, nil
}

// CleanupExpired deletes codes that expired longer than retention ago
func (s *otpService) CleanupExpired(ctx context.Context, retention time.Duration) (int64, error) {
	return s.repo.DeleteExpiredBefore(ctx, s.now().Add(-retention))
}
