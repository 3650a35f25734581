package wizard

import (
	"context"
	"sync"

	"github.com/atinyakov/onboarding/internal/models"
)

// ConfigStore caches the admin-defined field-to-page assignments. Until a
// load succeeds the cached configuration is nil and configuration-dependent
// callers must treat it as "not yet available".
type ConfigStore struct {
	mu      sync.Mutex
	backend Backend
	cfg     *models.PageConfig
}

// NewConfigStore constructs a ConfigStore over the given backend.
func NewConfigStore(backend Backend) *ConfigStore {
	return &ConfigStore{backend: backend}
}

// Load fetches the configuration from the backend. On failure the cache
// stays nil and the error is returned.
func (s *ConfigStore) Load(ctx context.Context) error {
	cfg, err := s.backend.FetchConfig(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}

// Loaded reports whether a configuration is available.
func (s *ConfigStore) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg != nil
}

// Config returns a copy of the cached configuration, or nil when not yet
// loaded.
func (s *ConfigStore) Config() *models.PageConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Clone()
}

// FieldsForPage resolves the page's configured identifiers through the
// registry, preserving order. Unknown identifiers are silently dropped.
// Returns nil when the configuration is not yet loaded.
func (s *ConfigStore) FieldsForPage(page int) []FieldDef {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		return nil
	}
	var defs []FieldDef
	for _, id := range s.cfg.Fields(page) {
		if def, ok := LookupField(id); ok {
			defs = append(defs, def)
		}
	}
	return defs
}

// FieldIDsForPage returns the raw configured identifier list for a page,
// including identifiers unknown to the registry.
func (s *ConfigStore) FieldIDsForPage(page int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		return nil
	}
	return append([]string(nil), s.cfg.Fields(page)...)
}

// RequiredFlags returns a copy of the required-field map. Empty when the
// configuration is not yet loaded.
func (s *ConfigStore) RequiredFlags() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	flags := make(map[string]bool)
	if s.cfg == nil {
		return flags
	}
	for k, v := range s.cfg.RequiredFields {
		flags[k] = v
	}
	return flags
}

// Save sends the full configuration to the backend. On success the cache is
// replaced with the server-confirmed copy; local edits are provisional until
// echoed back.
func (s *ConfigStore) Save(ctx context.Context, cfg models.PageConfig) error {
	confirmed, err := s.backend.SaveConfig(ctx, cfg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = confirmed
	s.mu.Unlock()
	return nil
}
