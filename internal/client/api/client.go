// Package api implements the HTTP client for the onboarding backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/atinyakov/onboarding/internal/models"
)

// ErrNotFound signals a 404-class response: the identity or resource is
// unknown to the backend. Callers distinguish it from transport failures.
var ErrNotFound = errors.New("not found")

// APIError carries a structured error reported by the backend. The message
// is the server's verbatim text.
type APIError struct {
	// Status is the HTTP status code.
	Status int
	// Message is the server-reported error message.
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the onboarding backend over HTTP.
type Client struct {
	// BaseURL is the backend's base URL without a trailing slash.
	BaseURL string
	// HTTP is the underlying HTTP client.
	HTTP *http.Client
}

// New constructs a Client for the given base URL with a default timeout.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// do issues a JSON request and decodes a JSON response into out (unless out
// is nil). Non-2xx responses are converted to ErrNotFound or *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		if resp.StatusCode == http.StatusNotFound {
			if payload.Error != "" {
				return fmt.Errorf("%w: %s", ErrNotFound, payload.Error)
			}
			return ErrNotFound
		}
		msg := payload.Error
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Register creates a new user and returns the assigned identity and seeded
// onboarding record.
func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.RegisterResult, error) {
	var res models.RegisterResult
	if err := c.do(ctx, http.MethodPost, "/register", reg, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// FetchProgress returns the user's persisted record and step.
func (c *Client) FetchProgress(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/user/"+id+"/progress", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateData merges the patch into the user's record and advances the step.
// The returned user reflects the server-confirmed state.
func (c *Client) UpdateData(ctx context.Context, id string, patch models.OnboardingRecord, step int) (*models.User, error) {
	body := map[string]any{
		"onboardingData": patch,
		"currentStep":    step,
	}
	var user models.User
	if err := c.do(ctx, http.MethodPut, "/user/"+id+"/update_data", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Complete signals terminal completion of the user's onboarding.
func (c *Client) Complete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/user/"+id+"/complete", nil, nil)
}

// FetchConfig retrieves the admin page configuration.
func (c *Client) FetchConfig(ctx context.Context) (*models.PageConfig, error) {
	var cfg models.PageConfig
	if err := c.do(ctx, http.MethodGet, "/admin/config", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig sends the full configuration and returns the server-confirmed
// copy, which is authoritative.
func (c *Client) SaveConfig(ctx context.Context, cfg models.PageConfig) (*models.PageConfig, error) {
	var confirmed models.PageConfig
	if err := c.do(ctx, http.MethodPut, "/admin/config", cfg, &confirmed); err != nil {
		return nil, err
	}
	return &confirmed, nil
}

// ListUsers returns all registered users.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser removes a user by ID.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+id, nil, nil)
}
