package screen

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"contractor_connect/internal/model"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{9,14}$`)

// NormalizePhone drops the spaces and dashes people type into numbers
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
}

// FieldErrors maps a form field to the message shown under it
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, f[k])
	}
	return strings.Join(msgs, ", ")
}

var fieldMessages = map[string]string{
	"Name.required":        "Full name is required",
	"Name.min":             "Name must be at least 2 characters",
	"Phone.required":       "Phone number is required",
	"Phone.phone":          "Please enter a valid 10-digit phone number",
	"Email.email":          "Please enter a valid email address",
	"Password.required":    "Password is required",
	"Password.min":         "Password must be at least 6 characters",
	"Role.required":        "Please select an account type",
	"Role.oneof":           "Please select an account type",
	"Code.required":        "Please enter complete OTP",
	"Code.len":             "Please enter complete OTP",
	"Code.numeric":         "OTP must contain only digits",
	"Title.required":       "Title is required",
	"Title.min":            "Title must be at least 10 characters",
	"Title.max":            "Title must not exceed 255 characters",
	"Category.required":    "Please select a category",
	"Category.category":    "Please select a category",
	"Description.required": "Description is required",
	"Description.min":      "Description must be at least 50 characters",
	"City.required":        "City is required",
	"State.required":       "State is required",
	"Pincode.len":          "Pincode must be 6 digits",
	"Pincode.numeric":      "Pincode must be 6 digits",
	"BudgetMin.gte":        "Must be a valid number",
	"BudgetMax.gte":        "Must be a valid number",
	"Amount.gt":            "Amount must be greater than 0",
	"Proposal.required":    "Proposal is required",
	"Proposal.min":         "Proposal must be at least 50 characters",
	"Proposal.max":         "Proposal must not exceed 1000 characters",
	"Days.gt":              "Estimated days must be greater than 0",
}

var (
	validateOnce sync.Once
	formValidate *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		formValidate = validator.New()
		formValidate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(NormalizePhone(fl.Field().String()))
		})
		formValidate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return model.IsValidCategory(fl.Field().String())
		})
	})
	return formValidate
}

// validateForm checks form against its validate tags. Failures come back as
// FieldErrors keyed by struct field.
func validateForm(form any) error {
	err := formValidator().Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := FieldErrors{}
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		fields[fe.Field()] = msg
	}
	return fields
}
