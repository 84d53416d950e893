package api

import (
	"context"

	"contractor_connect/internal/model"

	"github.com/sirupsen/logrus"
)

// AuthAPI wraps the /auth endpoints
type AuthAPI struct {
	gw Gateway
}

func (a *AuthAPI) Register(ctx context.Context, input model.RegisterInput) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := a.gw.Post(ctx, "/auth/register", input, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RequestLoginOTP sends a login code to phone
func (a *AuthAPI) RequestLoginOTP(ctx context.Context, phone string) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := a.gw.Post(ctx, "/auth/login", model.PhoneInput{PhoneNumber: phone}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AuthAPI) LoginWithPassword(ctx context.Context, phone, password string) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	input := model.PasswordLoginInput{PhoneNumber: phone, Password: password}
	if err := a.gw.Post(ctx, "/auth/login-password", input, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AuthAPI) VerifyOTP(ctx context.Context, phone, code string) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	input := model.VerifyOTPInput{PhoneNumber: phone, OTPCode: code}
	if err := a.gw.Post(ctx, "/auth/verify-otp", input, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AuthAPI) ResendOTP(ctx context.Context, phone string) (*model.MessageResponse, error) {
	var resp model.MessageResponse
	if err := a.gw.Post(ctx, "/auth/resend-otp", model.PhoneInput{PhoneNumber: phone}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AuthAPI) Refresh(ctx context.Context, refreshToken string) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := a.gw.Post(ctx, "/auth/refresh", model.RefreshInput{RefreshToken: refreshToken}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout tells the server the session ended. Failures are logged and dropped.
func (a *AuthAPI) Logout(ctx context.Context) {
	if err := a.gw.Post(ctx, "/auth/logout", nil, nil); err != nil {
		logrus.WithError(err).Debug("Logout request failed")
	}
}
