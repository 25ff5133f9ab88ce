package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/studyhall/mastery-api/internal/api"
	apiMiddleware "github.com/studyhall/mastery-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Every /api route requires a valid access token.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtVerifier)

	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	progressHandler := api.NewProgressHandler(app.ledger, app.activityService, app.logger)
	achievementHandler := api.NewAchievementHandler(app.achievementService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Review scheduling endpoints
			r.Post("/cards/{id}/review", reviewHandler.SubmitReview)
			r.Get("/cards/{id}/schedule", reviewHandler.GetSchedule)
			r.Get("/cards/due", reviewHandler.ListDue)

			// Progress endpoints
			r.Get("/progress", progressHandler.GetProgress)
			r.Get("/progress/daily", progressHandler.GetDailyProgress)
			r.Post("/activity", progressHandler.RecordActivity)

			// Achievement endpoints
			r.Get("/achievements", achievementHandler.ListAchievements)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
