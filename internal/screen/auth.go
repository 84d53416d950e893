package screen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"contractor_connect/internal/model"
	"contractor_connect/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// ResendCooldown is how long the OTP screen waits between sends
const ResendCooldown = 60 * time.Second

var (
	ErrNoUserInResponse = errors.New("server response did not include the signed-in user")
	ErrNoRefreshToken   = errors.New("no refresh token saved, please sign in again")
)

// CooldownError is returned when a resend is asked for too early
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	secs := int((e.Remaining + time.Second - 1) / time.Second)
	return fmt.Sprintf("Please wait %ds before requesting a new OTP", secs)
}

// OTPPrompt hands the OTP screen the phone awaiting a code
type OTPPrompt struct {
	Phone            string
	ExpiresInMinutes int
}

// Auth drives the signed-out screens: welcome, register, login
type Auth struct {
	api     AuthAPI
	session session.Manager
	now     func() time.Time
}

func NewAuth(authAPI AuthAPI, sess session.Manager) *Auth {
	return &Auth{api: authAPI, session: sess, now: time.Now}
}

// Register creates the account. When the server asks for verification the
// returned prompt leads to the OTP screen; otherwise the user is signed in
// and the prompt is nil.
func (a *Auth) Register(ctx context.Context, form RegisterForm) (*OTPPrompt, error) {
	if err := validateForm(form); err != nil {
		return nil, err
	}
	input := form.input()
	resp, err := a.api.Register(ctx, input)
	if err != nil {
		return nil, err
	}
	if resp.RequiresVerification {
		return &OTPPrompt{Phone: input.PhoneNumber, ExpiresInMinutes: resp.ExpiresInMinutes}, nil
	}
	return nil, a.adopt(resp)
}

// RequestLoginOTP starts an OTP login
func (a *Auth) RequestLoginOTP(ctx context.Context, phone string) (*OTPPrompt, error) {
	form := phoneForm{Phone: phone}
	if err := validateForm(form); err != nil {
		return nil, err
	}
	normalized := NormalizePhone(phone)
	resp, err := a.api.RequestLoginOTP(ctx, normalized)
	if err != nil {
		return nil, err
	}
	return &OTPPrompt{Phone: normalized, ExpiresInMinutes: resp.ExpiresInMinutes}, nil
}

func (a *Auth) LoginWithPassword(ctx context.Context, form LoginForm) error {
	if err := validateForm(form); err != nil {
		return err
	}
	resp, err := a.api.LoginWithPassword(ctx, NormalizePhone(form.Phone), form.Password)
	if err != nil {
		return err
	}
	return a.adopt(resp)
}

// Logout ends the session locally whatever the server says
func (a *Auth) Logout(ctx context.Context) {
	a.api.Logout(ctx)
	a.session.ClearAuth()
}

// OTP opens the verification screen for prompt. The code just sent starts
// the resend cooldown.
func (a *Auth) OTP(prompt OTPPrompt) *OTPScreen {
	return &OTPScreen{auth: a, phone: prompt.Phone, sentAt: a.now()}
}

// Refresh trades the saved refresh token for a new token pair. A rejected
// refresh token clears the session through the gateway like any 401.
func (a *Auth) Refresh(ctx context.Context) error {
	token := a.session.State().RefreshToken
	if token == "" {
		return ErrNoRefreshToken
	}
	resp, err := a.api.Refresh(ctx, token)
	if err != nil {
		return err
	}
	return a.adopt(resp)
}

// RefreshIfExpiring refreshes when the access token expires within the
// given window. Sessions without a refresh token or a readable expiry are
// left alone.
func (a *Auth) RefreshIfExpiring(ctx context.Context, within time.Duration) error {
	state := a.session.State()
	if !state.Authenticated || state.RefreshToken == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(state.Token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil || exp.Sub(a.now()) > within {
		return nil
	}
	logrus.WithField("expires_at", exp.Time).Debug("Access token expiring, refreshing")
	return a.Refresh(ctx)
}

func (a *Auth) adopt(resp *model.AuthResponse) error {
	if resp.User == nil || resp.AccessToken == "" {
		return ErrNoUserInResponse
	}
	if err := a.session.SetAuth(*resp.User, resp.AccessToken); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if err := a.session.SetRefreshToken(resp.RefreshToken); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": resp.User.ID, "role": resp.User.Role}).Info("Signed in")
	return nil
}

// OTPScreen verifies a code for one phone number
type OTPScreen struct {
	auth  *Auth
	phone string

	mu     sync.Mutex
	sentAt time.Time
}

func (s *OTPScreen) Phone() string {
	return s.phone
}

// Verify checks code and signs the user in
func (s *OTPScreen) Verify(ctx context.Context, code string) error {
	if err := validateForm(otpForm{Code: code}); err != nil {
		return err
	}
	resp, err := s.auth.api.VerifyOTP(ctx, s.phone, code)
	if err != nil {
		return err
	}
	return s.auth.adopt(resp)
}

// ResendIn is the time left before Resend is allowed
func (s *OTPScreen) ResendIn() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	left := ResendCooldown - s.auth.now().Sub(s.sentAt)
	if left < 0 {
		return 0
	}
	return left
}

func (s *OTPScreen) Resend(ctx context.Context) error {
	if left := s.ResendIn(); left > 0 {
		return &CooldownError{Remaining: left}
	}
	if _, err := s.auth.api.ResendOTP(ctx, s.phone); err != nil {
		return err
	}
	s.mu.Lock()
	s.sentAt = s.auth.now()
	s.mu.Unlock()
	return nil
}
