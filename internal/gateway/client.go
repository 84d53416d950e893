package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 2
	defaultRetryDelay = 500 * time.Millisecond

	maxResponseBytes = 8 << 20
)

// Credentials is the part of the session the gateway needs
type Credentials interface {
	Token() string
	ClearAuth()
}

// Config configures the gateway
type Config struct {
	BaseURL string
	Timeout time.Duration
	// MaxRetries applies to GET only; negative disables retries
	MaxRetries int
	RetryDelay time.Duration
	HTTPClient *http.Client
}

// File is one part of a multipart upload
type File struct {
	Name    string
	Content io.Reader
}

// Client is the single outbound request pipeline
type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      Credentials
	maxRetries int
	retryDelay time.Duration
}

// New creates a Client. creds may be nil for unauthenticated use.
func New(cfg Config, creds Credentials) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = timeout
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		creds:      creds,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// Get decodes the JSON response into out
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Do sends a JSON request. Failures are always *APIError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return &APIError{Kind: KindOther, Err: fmt.Errorf("failed to marshal request body: %w", err)}
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return &APIError{Kind: KindNetwork, Err: ctx.Err()}
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
			logrus.WithFields(logrus.Fields{"path": path, "attempt": attempt + 1}).Debug("Retrying request")
		}

		var reader io.Reader
		contentType := ""
		if payload != nil {
			reader = bytes.NewReader(payload)
			contentType = "application/json"
		}
		lastErr = c.send(ctx, method, path, query, reader, contentType, out)
		if !retryable(ctx, lastErr) {
			return lastErr
		}
	}
	return lastErr
}

// Upload posts files as multipart field; never retried
func (c *Client) Upload(ctx context.Context, path, field string, files []File, out any) error {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for _, f := range files {
		part, err := writer.CreateFormFile(field, f.Name)
		if err != nil {
			return &APIError{Kind: KindOther, Err: fmt.Errorf("failed to create form file: %w", err)}
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return &APIError{Kind: KindOther, Err: fmt.Errorf("failed to read %s: %w", f.Name, err)}
		}
	}
	if err := writer.Close(); err != nil {
		return &APIError{Kind: KindOther, Err: err}
	}
	return c.send(ctx, http.MethodPost, path, nil, buf, writer.FormDataContentType(), out)
}

func retryable(ctx context.Context, err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || ctx.Err() != nil {
		return false
	}
	return apiErr.Kind == KindNetwork || apiErr.Kind == KindServer
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &APIError{Kind: KindOther, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.creds != nil {
		if token := c.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &APIError{Kind: KindNetwork, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			Kind:       kindForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Body:       data,
			Err:        fmt.Errorf("%s %s: %s", method, path, resp.Status),
		}
		if apiErr.Kind == KindUnauthorized && c.creds != nil {
			logrus.WithField("path", path).Info("Session rejected by server, clearing credentials")
			c.creds.ClearAuth()
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Kind: KindOther, StatusCode: resp.StatusCode, Body: data, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
