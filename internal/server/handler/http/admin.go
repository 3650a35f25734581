// Package http provides HTTP handlers for the admin configuration and the
// collected-users view.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/onboarding/internal/models"
	"github.com/atinyakov/onboarding/internal/service"
)

// ConfigService defines the interface for configuration operations required
// by the admin handlers.
type ConfigService interface {
	// Get returns the current page configuration.
	Get(ctx context.Context) (*models.PageConfig, error)
	// Update replaces the provided pages and persists the result.
	Update(ctx context.Context, upd service.ConfigUpdate) (*models.PageConfig, error)
}

// AdminHandler handles HTTP requests for the admin surface.
type AdminHandler struct {
	// ConfigService performs configuration reads and writes.
	ConfigService ConfigService
	// UserService serves the user list and deletions.
	UserService UserService
}

// GetConfig handles GET /admin/config.
func (h *AdminHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.ConfigService.Get(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// configRequest mirrors the PUT /admin/config body. Absent pages keep their
// stored value.
type configRequest struct {
	Page1          []string        `json:"page1"`
	Page2          []string        `json:"page2"`
	Page3          []string        `json:"page3"`
	RequiredFields map[string]bool `json:"requiredFields"`
}

// UpdateConfig handles PUT /admin/config. A successful save resets every
// user's onboarding progress to step 1.
func (h *AdminHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req configRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	cfg, err := h.ConfigService.Update(r.Context(), service.ConfigUpdate{
		Page1:          req.Page1,
		Page2:          req.Page2,
		Page3:          req.Page3,
		RequiredFields: req.RequiredFields,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// DeleteUser handles DELETE /admin/users/{userID}.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")
	if err := h.UserService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("User %s deleted successfully.", id),
	})
}
