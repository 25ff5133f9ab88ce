package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/studyhall/mastery-api/internal/api/shared"
	"github.com/studyhall/mastery-api/internal/domain"
	"github.com/studyhall/mastery-api/internal/platform/logger"
	"github.com/studyhall/mastery-api/internal/service"
)

// ProgressHandler handles progress and activity HTTP requests.
type ProgressHandler struct {
	ledger          service.ProgressLedger
	activityService service.ActivityService
	validator       *validator.Validate
	timeFunc        func() time.Time // Injectable for testing
	logger          *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(
	ledger service.ProgressLedger,
	activityService service.ActivityService,
	logger *slog.Logger,
) *ProgressHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProgressHandler")
	}

	return &ProgressHandler{
		ledger:          ledger,
		activityService: activityService,
		validator:       validator.New(),
		timeFunc:        time.Now,
		logger:          logger.With(slog.String("component", "progress_handler")),
	}
}

// GetProgress handles GET /progress requests.
// It returns the user's totals, level boundaries, streaks and cumulative
// counters.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	summary, err := h.ledger.Summary(r.Context(), userID)
	if err != nil {
		RespondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// GetDailyProgress handles GET /progress/daily requests.
// Defaults to today; an explicit ?date=YYYY-MM-DD selects another day.
func (h *ProgressHandler) GetDailyProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	day := h.timeFunc()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	metrics, err := h.ledger.Daily(r.Context(), userID, day)
	if err != nil {
		RespondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DailyProgressResponse{
		Day:     domain.DayFloor(day).Format("2006-01-02"),
		Metrics: metrics,
	})
}

// RecordActivity handles POST /activity requests.
// Collaborator services call this after their own primary action succeeds.
func (h *ProgressHandler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req ActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Amount == 0 {
		req.Amount = 1
	}

	result, err := h.activityService.RecordActivity(
		r.Context(), userID, req.Action, req.Amount, req.Undo, req.LiveCount, h.timeFunc())
	if err != nil {
		RespondWithServiceError(w, r, err)
		return
	}

	log.Debug("activity recorded",
		slog.String("user_id", userID.String()),
		slog.String("action", req.Action),
		slog.Bool("undo", req.Undo),
		slog.Int("degraded", len(result.Degraded)))

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
