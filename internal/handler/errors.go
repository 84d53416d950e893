package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"contractor_connect/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// ValidationIssue is one entry of a 422 detail array
type ValidationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// validation errors name fields by their json tag
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrInvalidPhone, http.StatusBadRequest},
	{service.ErrInvalidRole, http.StatusBadRequest},
	{service.ErrUserAlreadyExists, http.StatusBadRequest},
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrAccountDeactivated, http.StatusForbidden},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrPhoneNotVerified, http.StatusForbidden},
	{service.ErrInvalidRefreshToken, http.StatusUnauthorized},
	{service.ErrTooManyOTPRequests, http.StatusTooManyRequests},
	{service.ErrInvalidOTP, http.StatusBadRequest},
	{service.ErrRequestNotFound, http.StatusNotFound},
	{service.ErrBidNotFound, http.StatusNotFound},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrStateChanged, http.StatusConflict},
	{service.ErrInvalidBudget, http.StatusBadRequest},
	{service.ErrInvalidFileFormat, http.StatusBadRequest},
	{service.ErrFileSizeExceeded, http.StatusBadRequest},
	{service.ErrNoFiles, http.StatusBadRequest},
	{service.ErrOwnRequest, http.StatusBadRequest},
	{service.ErrDuplicateBid, http.StatusBadRequest},
}

// detail turns a sentinel message into the sentence shown to clients
func detail(err error) string {
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}

// respondError maps service errors onto status codes. Anything unknown is
// logged and reported as fallback with a 500.
func respondError(c *gin.Context, err error, fallback string) {
	var stateErr *service.StateError
	if errors.As(err, &stateErr) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": detail(stateErr)})
		return
	}
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{"detail": detail(e.err)})
			return
		}
	}

	_ = c.Error(err)
	logrus.WithError(err).WithField("path", c.FullPath()).Error(fallback)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": fallback})
}

// respondBindingError reports a request body that failed to decode or validate
func respondBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		issues := make([]ValidationIssue, 0, len(verrs))
		for _, fe := range verrs {
			issues = append(issues, ValidationIssue{
				Loc:  []string{"body", fe.Field()},
				Msg:  validationMessage(fe),
				Type: "value_error." + fe.Tag(),
			})
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": issues})
		return
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []ValidationIssue{{
			Loc:  []string{"body", typeErr.Field},
			Msg:  "value is not a valid " + typeErr.Type.String(),
			Type: "type_error",
		}}})
	case errors.As(err, &syntaxErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []ValidationIssue{{
			Loc:  []string{"body"},
			Msg:  "malformed JSON body",
			Type: "value_error.jsondecode",
		}}})
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []ValidationIssue{{
			Loc:  []string{"body"},
			Msg:  err.Error(),
			Type: "value_error",
		}}})
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		return "ensure this value has at least " + fe.Param() + " characters"
	case "max":
		return "ensure this value has at most " + fe.Param() + " characters"
	case "len":
		return "ensure this value has exactly " + fe.Param() + " characters"
	case "gt":
		return "ensure this value is greater than " + fe.Param()
	case "gte":
		return "ensure this value is greater than or equal to " + fe.Param()
	case "oneof":
		return "value is not a valid enumeration member; permitted: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return "value is not a valid email address"
	case "numeric":
		return "value must contain digits only"
	case "uuid":
		return "value is not a valid uuid"
	default:
		return "invalid value"
	}
}
