package screen

import (
	"context"
	"fmt"

	"contractor_connect/internal/model"
	"contractor_connect/internal/session"
)

// Profile is the shared profile screen
type Profile struct {
	users   UsersAPI
	session session.Manager
}

func NewProfile(users UsersAPI, sess session.Manager) *Profile {
	return &Profile{users: users, session: sess}
}

func (p *Profile) Load(ctx context.Context) (*model.User, error) {
	return p.users.Profile(ctx)
}

// Save updates the profile and the locally stored user with it
func (p *Profile) Save(ctx context.Context, form ProfileForm) (*model.User, error) {
	if err := validateForm(form); err != nil {
		return nil, err
	}
	user, err := p.users.UpdateProfile(ctx, form.input())
	if err != nil {
		return nil, err
	}
	if err := p.session.UpdateUser(*user); err != nil {
		return nil, fmt.Errorf("failed to save profile locally: %w", err)
	}
	return user, nil
}
