package screen

import (
	"strings"

	"contractor_connect/internal/model"
)

// RegisterForm is what the registration screen collects
type RegisterForm struct {
	Name     string `validate:"required,min=2"`
	Phone    string `validate:"required,phone"`
	Email    string `validate:"omitempty,email"`
	Password string `validate:"omitempty,min=6"`
	Role     string `validate:"required,oneof=society contractor"`
}

func (f RegisterForm) input() model.RegisterInput {
	in := model.RegisterInput{
		PhoneNumber: NormalizePhone(f.Phone),
		Name:        strings.TrimSpace(f.Name),
		Role:        f.Role,
	}
	if email := strings.TrimSpace(f.Email); email != "" {
		in.Email = &email
	}
	if f.Password != "" {
		pw := f.Password
		in.Password = &pw
	}
	return in
}

type LoginForm struct {
	Phone    string `validate:"required,phone"`
	Password string `validate:"required,min=6"`
}

type otpForm struct {
	Code string `validate:"required,len=6,numeric"`
}

type phoneForm struct {
	Phone string `validate:"required,phone"`
}

// RequestForm is the create-request form
type RequestForm struct {
	Title       string `validate:"required,min=10,max=255"`
	Description string `validate:"required,min=50"`
	Category    string `validate:"required,category"`
	Address     string
	City        string   `validate:"required"`
	State       string   `validate:"required"`
	Pincode     string   `validate:"omitempty,len=6,numeric"`
	BudgetMin   *float64 `validate:"omitempty,gte=0"`
	BudgetMax   *float64 `validate:"omitempty,gte=0"`
}

func (f RequestForm) trimmed() RequestForm {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Address = strings.TrimSpace(f.Address)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.Pincode = strings.TrimSpace(f.Pincode)
	return f
}

func (f RequestForm) validate() error {
	if err := validateForm(f); err != nil {
		return err
	}
	if f.BudgetMin != nil && f.BudgetMax != nil && *f.BudgetMax < *f.BudgetMin {
		return FieldErrors{"BudgetMax": "Max budget must be greater than min budget"}
	}
	return nil
}

func (f RequestForm) input() model.CreateRequestInput {
	in := model.CreateRequestInput{
		Title:       f.Title,
		Description: f.Description,
		Category:    f.Category,
		City:        f.City,
		State:       f.State,
		BudgetMin:   f.BudgetMin,
		BudgetMax:   f.BudgetMax,
	}
	if f.Address != "" {
		addr := f.Address
		in.Location = &addr
	}
	if f.Pincode != "" {
		pin := f.Pincode
		in.Pincode = &pin
	}
	return in
}

// BidForm is the submit-bid form
type BidForm struct {
	RequestID string  `validate:"required"`
	Amount    float64 `validate:"gt=0"`
	Proposal  string  `validate:"required,min=50,max=1000"`
	Days      *int    `validate:"omitempty,gt=0"`
}

func (f BidForm) input() model.SubmitBidInput {
	return model.SubmitBidInput{
		RequestID:               f.RequestID,
		Amount:                  f.Amount,
		Proposal:                strings.TrimSpace(f.Proposal),
		EstimatedCompletionDays: f.Days,
	}
}

// ProfileForm holds profile edits; nil fields are left unchanged
type ProfileForm struct {
	Name        *string `validate:"omitempty,min=2"`
	Email       *string `validate:"omitempty,email"`
	Address     *string
	City        *string
	State       *string
	Pincode     *string `validate:"omitempty,len=6,numeric"`
	Description *string
}

func (f ProfileForm) input() model.UpdateProfileRequest {
	return model.UpdateProfileRequest{
		Name:        f.Name,
		Email:       f.Email,
		Address:     f.Address,
		City:        f.City,
		State:       f.State,
		Pincode:     f.Pincode,
		Description: f.Description,
	}
}
