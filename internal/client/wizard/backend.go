package wizard

import (
	"context"

	"github.com/atinyakov/onboarding/internal/models"
)

// Backend is the remote collaborator the wizard persists through. It is
// satisfied by *api.Client; tests substitute fakes.
type Backend interface {
	// Register creates a new user and returns the assigned identity.
	Register(ctx context.Context, reg models.Registration) (*models.RegisterResult, error)
	// FetchProgress returns a user's persisted record and step.
	FetchProgress(ctx context.Context, id string) (*models.User, error)
	// UpdateData merges a record patch server-side and returns the
	// confirmed user state.
	UpdateData(ctx context.Context, id string, patch models.OnboardingRecord, step int) (*models.User, error)
	// Complete signals terminal completion.
	Complete(ctx context.Context, id string) error
	// FetchConfig retrieves the admin page configuration.
	FetchConfig(ctx context.Context) (*models.PageConfig, error)
	// SaveConfig persists the full configuration and returns the
	// server-confirmed copy.
	SaveConfig(ctx context.Context, cfg models.PageConfig) (*models.PageConfig, error)
	// ListUsers returns all registered users.
	ListUsers(ctx context.Context) ([]models.User, error)
	// DeleteUser removes a user by ID.
	DeleteUser(ctx context.Context, id string) error
}
