// Package api contains the HTTP clients for HRChat's remote collaborators:
// the conversation store (chats + auth endpoints) and the answer service.
// Requests are plain JSON over HTTPS; protected calls carry a bearer token
// obtained from the session.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hrchat/internal/logger"
)

// ErrUnauthorized is returned when the store rejects the bearer credential.
// Callers treat it as fatal to the session.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a business failure reported by a remote service, carrying the
// human-readable message from its response body.
type Error struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Unwrap maps credential rejections onto ErrUnauthorized so callers can use
// errors.Is without inspecting status codes.
func (e *Error) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// TokenSource supplies the bearer token for protected requests.
// *session.Session satisfies it.
type TokenSource interface {
	Token() (string, error)
}

// errorBody is the failure envelope the backend uses across endpoints.
type errorBody struct {
	Msg string `json:"msg"`
}

const defaultTimeout = 30 * time.Second

// Client is the base HTTP client for one remote host.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient creates a client for the given base URL. A nil token source makes
// every protected call fail with ErrUnauthorized before any request is sent.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		tokens: tokens,
	}
}

// SetTimeout configures the request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// SetDebugTransport installs an HTTP transport for network debugging.
func (c *Client) SetDebugTransport(rt http.RoundTripper) {
	c.httpClient.Transport = rt
}

// doJSON sends a JSON request and decodes a JSON response into out (when out
// is non-nil). Protected requests carry the bearer token; non-2xx responses
// become *Error with the backend's message when one is present.
func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}, protected bool) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if protected {
		if c.tokens == nil {
			return fmt.Errorf("no credential source for %s: %w", path, ErrUnauthorized)
		}
		token, err := c.tokens.Token()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger.APICall(method, url, "protected", protected)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	logger.Debug("API response", "method", method, "url", url, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil {
			apiErr.Message = eb.Msg
		}
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
