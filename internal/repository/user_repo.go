package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contractor_connect/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByPhone(ctx context.Context, phone string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	UpdateRegistration(ctx context.Context, user *model.User) error
	UpdateProfile(ctx context.Context, id string, req model.UpdateProfileRequest) (*model.User, error)
	MarkVerifiedLogin(ctx context.Context, id string) (*model.User, error)
}

const userColumns = `id, phone_number, email, name, role, status, password_hash, profile_image, description,
	address, city, state, pincode, is_verified, is_active, created_at, updated_at, last_login_at`

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(
		&u.ID, &u.PhoneNumber, &u.Email, &u.Name, &u.Role, &u.Status, &u.PasswordHash, &u.ProfileImage, &u.Description,
		&u.Address, &u.City, &u.State, &u.Pincode, &u.IsVerified, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	sql := `INSERT INTO users (phone_number, email, name, role, status, password_hash, address, city, state, pincode, description, is_verified, is_active)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql,
		u.PhoneNumber, u.Email, u.Name, u.Role, u.Status, u.PasswordHash, u.Address, u.City, u.State, u.Pincode, u.Description, u.IsVerified, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByPhone retrieves a user by their phone number
func (r *userRepository) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone_number = $1`, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found is decided by the service layer
		}
		return nil, fmt.Errorf("failed to find user by phone: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return u, nil
}

// UpdateRegistration overwrites the details of a not yet verified account
// when the same phone registers again
func (r *userRepository) UpdateRegistration(ctx context.Context, u *model.User) error {
	sql := `UPDATE users
            SET email = $1, name = $2, role = $3, password_hash = $4, address = $5, city = $6, state = $7, pincode = $8, description = $9
            WHERE id = $10 AND is_verified = FALSE RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql,
		u.Email, u.Name, u.Role, u.PasswordHash, u.Address, u.City, u.State, u.Pincode, u.Description, u.ID,
	).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrConflict
		}
		return fmt.Errorf("failed to update registration: %w", err)
	}
	return nil
}

// UpdateProfile applies the non-nil fields of req
func (r *userRepository) UpdateProfile(ctx context.Context, id string, req model.UpdateProfileRequest) (*model.User, error) {
	var sets []string
	args := []interface{}{}
	argCount := 1

	add := func(column string, value *string) {
		if value == nil {
			return
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, *value)
		argCount++
	}
	add("name", req.Name)
	add("email", req.Email)
	add("address", req.Address)
	add("city", req.City)
	add("state", req.State)
	add("pincode", req.Pincode)
	add("description", req.Description)
	add("profile_image", req.ProfileImage)

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	sql := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`, strings.Join(sets, ", "), argCount, userColumns)
	args = append(args, id)

	u, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, nil
}

// MarkVerifiedLogin flags the phone as verified, activates the account and
// stamps the login time
func (r *userRepository) MarkVerifiedLogin(ctx context.Context, id string) (*model.User, error) {
	sql := `UPDATE users SET is_verified = TRUE, status = 'active', last_login_at = NOW()
            WHERE id = $1 RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to mark user verified: %w", err)
	}
	return u, nil
}
