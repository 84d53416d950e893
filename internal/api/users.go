package api

import (
	"context"

	"contractor_connect/internal/model"
)

type UsersAPI struct {
	gw Gateway
}

func (u *UsersAPI) Profile(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := u.gw.Get(ctx, "/users/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UsersAPI) UpdateProfile(ctx context.Context, input model.UpdateProfileRequest) (*model.User, error) {
	var user model.User
	if err := u.gw.Put(ctx, "/users/profile", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
