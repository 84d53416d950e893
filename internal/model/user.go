package model

import "time"

const (
	RoleSociety    = "society"
	RoleContractor = "contractor"
	RoleAdmin      = "admin"
)

const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
	UserStatusPending   = "pending"
)

// User represents a society, contractor or admin account
type User struct {
	ID           string     `json:"id"`
	PhoneNumber  string     `json:"phone_number"`
	Email        *string    `json:"email,omitempty"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	PasswordHash *string    `json:"-"` // Never serialized, not even into the local session store
	ProfileImage *string    `json:"profile_image,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Address      *string    `json:"address,omitempty"`
	City         *string    `json:"city,omitempty"`
	State        *string    `json:"state,omitempty"`
	Pincode      *string    `json:"pincode,omitempty"`
	IsVerified   bool       `json:"is_verified"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// UserSummary is the nested user shape embedded in requests and bids
type UserSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	PhoneNumber string  `json:"phone_number"`
	City        *string `json:"city,omitempty"`
}

// UpdateProfileRequest is used for partial profile updates
type UpdateProfileRequest struct {
	Name         *string `json:"name,omitempty" binding:"omitempty,max=255"`
	Email        *string `json:"email,omitempty" binding:"omitempty,email,max=255"`
	Address      *string `json:"address,omitempty"`
	City         *string `json:"city,omitempty" binding:"omitempty,max=100"`
	State        *string `json:"state,omitempty" binding:"omitempty,max=100"`
	Pincode      *string `json:"pincode,omitempty" binding:"omitempty,max=10"`
	Description  *string `json:"description,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty" binding:"omitempty,max=500"`
}

// IsKnownRole reports whether role belongs to the closed role set
func IsKnownRole(role string) bool {
	switch role {
	case RoleSociety, RoleContractor, RoleAdmin:
		return true
	}
	return false
}
