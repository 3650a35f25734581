// Package service provides business logic for the admin page configuration.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/onboarding/internal/models"
)

// ErrConfigMissing signals that no configuration row has been seeded.
var ErrConfigMissing = errors.New("Admin configuration not found.")

// EmptyPageError rejects a configuration that leaves an editable page
// without fields.
type EmptyPageError struct {
	// Page is the offending page number.
	Page int
}

func (e *EmptyPageError) Error() string {
	return fmt.Sprintf("Page %d must keep at least one field.", e.Page)
}

// ConfigRepository defines the persistence operations required by the
// config service.
type ConfigRepository interface {
	// GetConfig retrieves the page configuration; sql.ErrNoRows when unseeded.
	GetConfig(ctx context.Context) (*models.PageConfig, error)
	// SaveConfig upserts the full page configuration.
	SaveConfig(ctx context.Context, cfg models.PageConfig) error
	// SeedDefault inserts the configuration only if none exists.
	SeedDefault(ctx context.Context, cfg models.PageConfig) error
}

// StepResetter returns all users to the first wizard step.
type StepResetter interface {
	ResetAllSteps(ctx context.Context) error
}

// ConfigUpdate carries the pages to replace in an update. Nil slices leave
// the stored page untouched.
type ConfigUpdate struct {
	Page1          []string
	Page2          []string
	Page3          []string
	RequiredFields map[string]bool
}

// ConfigService implements admin configuration reads and writes.
type ConfigService struct {
	repo  ConfigRepository
	users StepResetter
}

// NewConfigService constructs a ConfigService with the provided repository
// and user step resetter.
func NewConfigService(repo ConfigRepository, users StepResetter) *ConfigService {
	return &ConfigService{repo: repo, users: users}
}

// Get returns the current page configuration.
func (s *ConfigService) Get(ctx context.Context) (*models.PageConfig, error) {
	cfg, err := s.repo.GetConfig(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigMissing
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Update replaces the provided pages, persists the configuration, and resets
// every user's onboarding progress to step 1 so the new pages apply from the
// start. Editable pages must not end up empty.
func (s *ConfigService) Update(ctx context.Context, upd ConfigUpdate) (*models.PageConfig, error) {
	cfg, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if upd.Page1 != nil {
		cfg.Page1 = upd.Page1
	}
	if upd.Page2 != nil {
		cfg.Page2 = upd.Page2
	}
	if upd.Page3 != nil {
		cfg.Page3 = upd.Page3
	}
	if upd.RequiredFields != nil {
		cfg.RequiredFields = upd.RequiredFields
	}

	for _, page := range models.EditablePages {
		if len(cfg.Fields(page)) == 0 {
			return nil, &EmptyPageError{Page: page}
		}
	}

	if err := s.repo.SaveConfig(ctx, *cfg); err != nil {
		return nil, err
	}
	if err := s.users.ResetAllSteps(ctx); err != nil {
		return nil, fmt.Errorf("reset user steps: %w", err)
	}
	return cfg, nil
}

// EnsureDefault seeds the default configuration when none exists yet.
func (s *ConfigService) EnsureDefault(ctx context.Context) error {
	return s.repo.SeedDefault(ctx, *models.DefaultPageConfig())
}
