package otp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	err   error
	calls int
}

func (r *recordingSender) Name() string { return "recording" }

func (r *recordingSender) Send(context.Context, string, string, string) error {
	r.calls++
	return r.err
}

func TestFallbackSender_UsesNextOnFailure(t *testing.T) {
	failing := &recordingSender{err: errors.New("gateway down")}
	working := &recordingSender{}

	err := NewFallbackSender(failing, working).Send(context.Background(), "+919876543210", "123456", "login")

	assert.NoError(t, err)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, working.calls)
}

func TestFallbackSender_AllFail(t *testing.T) {
	first := &recordingSender{err: errors.New("first")}
	second := &recordingSender{err: errors.New("second")}

	err := NewFallbackSender(first, second).Send(context.Background(), "+919876543210", "123456", "login")

	assert.EqualError(t, err, "second")
}

func TestWebhookSender_Send(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	err := NewWebhookSender(srv.URL, srv.Client()).Send(context.Background(), "+919876543210", "654321", "registration")

	require.NoError(t, err)
	assert.Equal(t, "+919876543210", got["phone_number"])
	assert.Equal(t, "654321", got["otp_code"])
	assert.Equal(t, "registration", got["purpose"])
}

func TestWebhookSender_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := NewWebhookSender(srv.URL, srv.Client()).Send(context.Background(), "+919876543210", "654321", "login")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestNewSender(t *testing.T) {
	s, err := NewSender("console", "")
	require.NoError(t, err)
	assert.Equal(t, "console", s.Name())

	_, err = NewSender("webhook", "")
	assert.Error(t, err)

	_, err = NewSender("carrier-pigeon", "")
	assert.Error(t, err)
}
