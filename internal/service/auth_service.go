package service

import (
	"context"
	"errors"
	"fmt"

	"contractor_connect/internal/model"
	"contractor_connect/internal/repository"
	"contractor_connect/internal/utils"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidPhone        = errors.New("invalid phone number format, use format: +1234567890")
	ErrInvalidRole         = errors.New("role must be society or contractor")
	ErrUserAlreadyExists   = errors.New("user already registered with this phone number")
	ErrUserNotFound        = errors.New("user not found, please register first")
	ErrAccountDeactivated  = errors.New("account is deactivated, please contact support")
	ErrInvalidCredentials  = errors.New("invalid phone or password")
	ErrPhoneNotVerified    = errors.New("phone number not verified, please verify with otp")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// AuthService provides registration, OTP and password login and token refresh
type AuthService interface {
	Register(ctx context.Context, in model.RegisterInput) (*model.AuthResponse, error)
	RequestLoginOTP(ctx context.Context, phone string) (*model.AuthResponse, error)
	VerifyOTP(ctx context.Context, phone, code string) (*model.AuthResponse, error)
	ResendOTP(ctx context.Context, phone string) (*model.MessageResponse, error)
	LoginWithPassword(ctx context.Context, phone, password string) (*model.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*model.AuthResponse, error)
}

type authService struct {
	userRepo          repository.UserRepository
	otpService        OTPService
	jwtUtil           *utils.JWTUtil
	initialAdminPhone string
}

// NewAuthService creates a new AuthService. A registration from
// initialAdminPhone is given the admin role.
func NewAuthService(userRepo repository.UserRepository, otpService OTPService, jwtUtil *utils.JWTUtil, initialAdminPhone string) AuthService {
	return &authService{
		userRepo:          userRepo,
		otpService:        otpService,
		jwtUtil:           jwtUtil,
		initialAdminPhone: utils.NormalizePhone(initialAdminPhone),
	}
}

func normalizedPhone(phone string) (string, error) {
	if !utils.IsValidPhone(phone) {
		return "", ErrInvalidPhone
	}
	return utils.NormalizePhone(phone), nil
}

// Register creates an unverified account, or refreshes the details of one
// that never completed verification, and sends a registration code
func (s *authService) Register(ctx context.Context, in model.RegisterInput) (*model.AuthResponse, error) {
	phone, err := normalizedPhone(in.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if in.Role != model.RoleSociety && in.Role != model.RoleContractor {
		return nil, ErrInvalidRole
	}

	existingUser, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil && existingUser.IsVerified {
		return nil, ErrUserAlreadyExists
	}

	var passwordHash *string
	if in.Password != nil && *in.Password != "" {
		hashed, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		passwordHash = &hashed
	}

	role := in.Role
	if s.initialAdminPhone != "" && phone == s.initialAdminPhone {
		role = model.RoleAdmin
		logrus.WithField("phone", phone).Info("Registering user as admin via INITIAL_ADMIN_PHONE")
	}

	user := existingUser
	if user == nil {
		user = &model.User{PhoneNumber: phone, Status: model.UserStatusPending, IsActive: true}
	}
	user.Name = in.Name
	user.Email = in.Email
	user.Role = role
	user.PasswordHash = passwordHash
	user.Address = in.Address
	user.City = in.City
	user.State = in.State
	user.Pincode = in.Pincode
	user.Description = in.Description

	if existingUser == nil {
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user in repository: %w", err)
		}
	} else {
		if err := s.userRepo.UpdateRegistration(ctx, user); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return nil, ErrUserAlreadyExists
			}
			return nil, err
		}
		logrus.WithField("user_id", user.ID).Info("Unverified user registered again, resending otp")
	}

	if _, err := s.otpService.Issue(ctx, phone, model.OTPPurposeRegistration, &user.ID); err != nil {
		return nil, err
	}

	return &model.AuthResponse{
		Message:              "OTP sent to your phone number. Please verify to complete registration.",
		PhoneNumber:          phone,
		ExpiresInMinutes:     int(s.otpService.TTL().Minutes()),
		UserID:               user.ID,
		RequiresVerification: true,
	}, nil
}

// RequestLoginOTP sends a login code to an existing, active account
func (s *authService) RequestLoginOTP(ctx context.Context, phone string) (*model.AuthResponse, error) {
	phone, err := normalizedPhone(phone)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("error finding user by phone: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	if _, err := s.otpService.Issue(ctx, phone, model.OTPPurposeLogin, &user.ID); err != nil {
		return nil, err
	}

	return &model.AuthResponse{
		Message:              "OTP sent to your phone number.",
		PhoneNumber:          phone,
		ExpiresInMinutes:     int(s.otpService.TTL().Minutes()),
		UserID:               user.ID,
		RequiresVerification: true,
	}, nil
}

// VerifyOTP accepts a login code or, failing that, a registration code and
// returns a token pair
func (s *authService) VerifyOTP(ctx context.Context, phone, code string) (*model.AuthResponse, error) {
	phone, err := normalizedPhone(phone)
	if err != nil {
		return nil, err
	}

	_, err = s.otpService.Verify(ctx, phone, code, model.OTPPurposeLogin)
	if errors.Is(err, ErrInvalidOTP) {
		_, err = s.otpService.Verify(ctx, phone, code, model.OTPPurposeRegistration)
	}
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("error finding user by phone: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	user, err = s.userRepo.MarkVerifiedLogin(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.issueTokens(user)
}

// ResendOTP reissues a code, picking the purpose from the account state
func (s *authService) ResendOTP(ctx context.Context, phone string) (*model.MessageResponse, error) {
	phone, err := normalizedPhone(phone)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("error finding user by phone: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	purpose := model.OTPPurposeLogin
	if !user.IsVerified {
		purpose = model.OTPPurposeRegistration
	}
	if _, err := s.otpService.Issue(ctx, phone, purpose, &user.ID); err != nil {
		return nil, err
	}

	return &model.MessageResponse{
		Message:          "OTP resent successfully.",
		ExpiresInMinutes: int(s.otpService.TTL().Minutes()),
	}, nil
}

// LoginWithPassword authenticates a verified account by password
func (s *authService) LoginWithPassword(ctx context.Context, phone, password string) (*model.AuthResponse, error) {
	phone, err := normalizedPhone(phone)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("error finding user by phone: %w", err)
	}
	if user == nil || user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, *user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}
	if !user.IsVerified {
		return nil, ErrPhoneNotVerified
	}

	user, err = s.userRepo.MarkVerifiedLogin(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

// Refresh trades a refresh token for a new token pair
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*model.AuthResponse, error) {
	claims, err := s.jwtUtil.ValidateToken(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidRefreshToken
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}
	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *model.User) (*model.AuthResponse, error) {
	access, err := s.jwtUtil.GenerateAccessToken(user.ID, user.PhoneNumber, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.jwtUtil.GenerateRefreshToken(user.ID, user.PhoneNumber, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &model.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.jwtUtil.AccessTTL().Seconds()),
		User:         user,
	}, nil
}
