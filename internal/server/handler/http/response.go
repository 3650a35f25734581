package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/onboarding/internal/service"
)

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the uniform error body {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors to status codes and carries their
// messages verbatim. Unknown errors become opaque 500s.
func writeServiceError(w http.ResponseWriter, err error) {
	var emptyPage *service.EmptyPageError
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUnderage):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidAge):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &emptyPage):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConfigMissing):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error.")
	}
}
