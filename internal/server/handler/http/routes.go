// Package http provides HTTP routing and middleware configuration
// for the onboarding service.
package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/atinyakov/onboarding/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// onboarding API.
//
// Routes:
//
//	GET    /                          → health check
//	POST   /register                  → userHandler.Register
//	GET    /user/{userID}/progress    → userHandler.Progress
//	PUT    /user/{userID}/update_data → userHandler.UpdateData
//	POST   /user/{userID}/complete    → userHandler.Complete
//	GET    /admin/config              → adminHandler.GetConfig
//	PUT    /admin/config              → adminHandler.UpdateConfig
//	GET    /admin/users               → adminHandler.ListUsers
//	DELETE /admin/users/{userID}      → adminHandler.DeleteUser
func NewRouter(
	userHandler *UserHandler,
	adminHandler *AdminHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Onboarding backend is running!",
		})
	})

	r.Post("/register", userHandler.Register)

	r.Route("/user/{userID}", func(r chi.Router) {
		r.Get("/progress", userHandler.Progress)
		r.Put("/update_data", userHandler.UpdateData)
		r.Post("/complete", userHandler.Complete)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/config", adminHandler.GetConfig)
		r.Put("/config", adminHandler.UpdateConfig)
		r.Get("/users", adminHandler.ListUsers)
		r.Delete("/users/{userID}", adminHandler.DeleteUser)
	})

	return r
}
