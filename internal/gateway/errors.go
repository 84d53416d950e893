package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind classifies a failed call
type Kind int

const (
	KindOther Kind = iota
	KindNetwork
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindValidation
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	default:
		return "other"
	}
}

const (
	MsgUnauthorized = "Unauthorized. Please login again."
	MsgForbidden    = "You do not have permission to perform this action."
	MsgNotFound     = "Resource not found."
	MsgValidation   = "Invalid data provided. Please check your input."
	MsgServer       = "Server error. Please try again later."
	MsgNetwork      = "Network error. Please check your internet connection."
	MsgUnexpected   = "An unexpected error occurred."
)

// APIError is every failure the gateway returns. StatusCode is zero when no
// response arrived.
type APIError struct {
	Kind       Kind
	StatusCode int
	Body       []byte
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.StatusCode, ErrorMessage(e))
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindOther
	}
}

// IsKind reports whether err is an APIError of kind k
func IsKind(err error, k Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == k
}

// ErrorMessage picks the sentence to show for err. A server-supplied detail
// wins; otherwise the message follows the status.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return MsgUnexpected
	}
	if apiErr.Kind == KindNetwork {
		return MsgNetwork
	}

	if len(apiErr.Body) > 0 && gjson.ValidBytes(apiErr.Body) {
		detail := gjson.GetBytes(apiErr.Body, "detail")
		switch {
		case detail.IsArray():
			var msgs []string
			detail.ForEach(func(_, item gjson.Result) bool {
				if msg := item.Get("msg").String(); msg != "" {
					msgs = append(msgs, msg)
				}
				return true
			})
			if len(msgs) > 0 {
				return strings.Join(msgs, ", ")
			}
		case detail.Type == gjson.String:
			return detail.String()
		}
	}

	switch {
	case apiErr.StatusCode == http.StatusUnauthorized:
		return MsgUnauthorized
	case apiErr.StatusCode == http.StatusForbidden:
		return MsgForbidden
	case apiErr.StatusCode == http.StatusNotFound:
		return MsgNotFound
	case apiErr.StatusCode == http.StatusUnprocessableEntity:
		return MsgValidation
	case apiErr.StatusCode >= 500:
		return MsgServer
	default:
		return MsgUnexpected
	}
}
