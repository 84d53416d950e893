package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Sender delivers a one-time code to a phone number
type Sender interface {
	Send(ctx context.Context, phone, code, purpose string) error
	Name() string
}

// NewSender builds the sender chain for provider. Every chain ends with the
// console sender so a code is never silently lost during development.
func NewSender(provider, webhookURL string) (Sender, error) {
	switch provider {
	case "", "console":
		return ConsoleSender{}, nil
	case "webhook":
		if webhookURL == "" {
			return nil, errors.New("OTP_WEBHOOK_URL is required for the webhook provider")
		}
		return NewFallbackSender(NewWebhookSender(webhookURL, nil), ConsoleSender{}), nil
	default:
		return nil, fmt.Errorf("unknown otp provider %q", provider)
	}
}

// ConsoleSender writes the code to the log
type ConsoleSender struct{}

func (ConsoleSender) Name() string { return "console" }

func (ConsoleSender) Send(_ context.Context, phone, code, purpose string) error {
	logrus.WithFields(logrus.Fields{
		"phone":   phone,
		"purpose": purpose,
		"code":    code,
	}).Info("OTP issued")
	return nil
}

// WebhookSender posts the code as JSON to an SMS gateway
type WebhookSender struct {
	url    string
	client *http.Client
}

func NewWebhookSender(url string, client *http.Client) *WebhookSender {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookSender{url: url, client: client}
}

func (w *WebhookSender) Name() string { return "webhook" }

func (w *WebhookSender) Send(ctx context.Context, phone, code, purpose string) error {
	payload, err := json.Marshal(map[string]string{
		"phone_number": phone,
		"otp_code":     code,
		"purpose":      purpose,
	})
	if err != nil {
		return fmt.Errorf("failed to encode otp payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build otp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver otp: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("otp gateway responded with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// FallbackSender tries each sender in order until one succeeds
type FallbackSender struct {
	senders []Sender
}

func NewFallbackSender(senders ...Sender) *FallbackSender {
	return &FallbackSender{senders: senders}
}

func (f *FallbackSender) Name() string { return "fallback" }

func (f *FallbackSender) Send(ctx context.Context, phone, code, purpose string) error {
	var lastErr error
	for _, s := range f.senders {
		err := s.Send(ctx, phone, code, purpose)
		if err == nil {
			return nil
		}
		logrus.WithError(err).WithField("provider", s.Name()).Warn("OTP delivery failed, trying next provider")
		lastErr = err
	}
	if lastErr == nil {
		return errors.New("no otp senders configured")
	}
	return lastErr
}
