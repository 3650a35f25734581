// Package http provides HTTP handlers for user registration and onboarding
// progress.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/onboarding/internal/models"
)

// UserService defines the interface for user operations required by the
// HTTP handlers.
type UserService interface {
	// Register creates a new user from the registration payload.
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
	// Progress returns a user's current record and step.
	Progress(ctx context.Context, id string) (*models.User, error)
	// UpdateData merges a record patch and advances the step.
	UpdateData(ctx context.Context, id string, patch models.OnboardingRecord, step *int) (*models.User, error)
	// Complete pins the user's step at the terminal state.
	Complete(ctx context.Context, id string) error
	// List returns all registered users.
	List(ctx context.Context) ([]models.User, error)
	// Delete removes a user by ID.
	Delete(ctx context.Context, id string) error
}

// UserHandler handles HTTP requests for registration and onboarding data.
type UserHandler struct {
	// UserService performs the underlying user operations.
	UserService UserService
}

// registerRequest mirrors the registration JSON body. Age arrives as a
// json.Number so both numeric and quoted values are accepted.
type registerRequest struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Age      json.Number `json:"age"`
}

// Register handles POST /register. It validates presence of all fields,
// then delegates age and duplicate checks to the service.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" ||
		req.Password == "" || req.Age == "" {
		writeError(w, http.StatusBadRequest, "Username, email, password, and age are required.")
		return
	}
	age, err := req.Age.Int64()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Age must be a valid number.")
		return
	}

	user, err := h.UserService.Register(r.Context(), models.Registration{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Age:      int(age),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":        "User registered successfully.",
		"userId":         user.ID,
		"username":       user.Username,
		"onboardingData": user.Data,
		"currentStep":    user.CurrentStep,
	})
}

// Progress handles GET /user/{userID}/progress.
func (h *UserHandler) Progress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")
	user, err := h.UserService.Progress(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// updateRequest mirrors the update_data JSON body. Both fields are optional.
type updateRequest struct {
	OnboardingData models.OnboardingRecord `json:"onboardingData"`
	CurrentStep    *int                    `json:"currentStep"`
}

// UpdateData handles PUT /user/{userID}/update_data. The patch is merged
// into the stored record and the step only ever moves forward.
func (h *UserHandler) UpdateData(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.UserService.UpdateData(r.Context(), id, req.OnboardingData, req.CurrentStep)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Complete handles POST /user/{userID}/complete. Completion is idempotent.
func (h *UserHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")
	if err := h.UserService.Complete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Onboarding completed successfully!",
	})
}
