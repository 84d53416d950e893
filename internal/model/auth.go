package model

// RegisterInput is the registration payload
type RegisterInput struct {
	PhoneNumber string  `json:"phone_number" binding:"required,min=10,max=15"`
	Name        string  `json:"name" binding:"required,max=255"`
	Email       *string `json:"email,omitempty" binding:"omitempty,email,max=255"`
	Role        string  `json:"role" binding:"required,oneof=society contractor"`
	Password    *string `json:"password,omitempty" binding:"omitempty,min=6"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty" binding:"omitempty,max=100"`
	State       *string `json:"state,omitempty" binding:"omitempty,max=100"`
	Pincode     *string `json:"pincode,omitempty" binding:"omitempty,max=10"`
	Description *string `json:"description,omitempty"`
}

// PhoneInput carries a bare phone number (OTP login request and resend)
type PhoneInput struct {
	PhoneNumber string `json:"phone_number" binding:"required,min=10,max=15"`
}

// PasswordLoginInput is the password login payload
type PasswordLoginInput struct {
	PhoneNumber string `json:"phone_number" binding:"required,min=10,max=15"`
	Password    string `json:"password" binding:"required"`
}

// VerifyOTPInput is the OTP verification payload
type VerifyOTPInput struct {
	PhoneNumber string `json:"phone_number" binding:"required,min=10,max=15"`
	OTPCode     string `json:"otp_code" binding:"required,len=6,numeric"`
}

// RefreshInput carries a refresh token
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse is returned by every identity endpoint. Challenge responses
// (register, login OTP) fill the OTP fields and set RequiresVerification;
// token responses fill the token fields and User.
type AuthResponse struct {
	Message              string `json:"message,omitempty"`
	PhoneNumber          string `json:"phone_number,omitempty"`
	ExpiresInMinutes     int    `json:"expires_in_minutes,omitempty"`
	UserID               string `json:"user_id,omitempty"`
	AccessToken          string `json:"access_token,omitempty"`
	RefreshToken         string `json:"refresh_token,omitempty"`
	TokenType            string `json:"token_type,omitempty"`
	ExpiresIn            int    `json:"expires_in,omitempty"`
	User                 *User  `json:"user,omitempty"`
	RequiresVerification bool   `json:"requires_verification"`
}

// MessageResponse is a bare acknowledgement
type MessageResponse struct {
	Message          string `json:"message"`
	ExpiresInMinutes int    `json:"expires_in_minutes,omitempty"`
}
