// Package api provides HTTP handlers for the API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/studyhall/mastery-api/internal/api/shared"
	"github.com/studyhall/mastery-api/internal/domain"
	"github.com/studyhall/mastery-api/internal/platform/logger"
	"github.com/studyhall/mastery-api/internal/service"
	"github.com/studyhall/mastery-api/internal/store"
)

// defaultDueLimit bounds the due-card listing when the client does not ask
// for a specific page size.
const defaultDueLimit = 50

// ReviewHandler handles card review and schedule HTTP requests.
type ReviewHandler struct {
	reviewService service.ReviewService
	validator     *validator.Validate
	timeFunc      func() time.Time // Injectable for testing
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService service.ReviewService, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
		timeFunc:      time.Now,
		logger:        logger.With(slog.String("component", "review_handler")),
	}
}

// SubmitReview handles POST /cards/{id}/review requests.
// It applies the rating to the card's schedule and returns the new schedule
// along with XP, streak and unlock outcomes.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := requireUserAndCard(w, r)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if (req.Rating == "") == (req.Quality == nil) {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Exactly one of rating or quality must be provided")
		return
	}

	now := h.timeFunc()

	var result *service.ReviewResult
	var err error
	if req.Quality != nil {
		result, err = h.reviewService.SubmitReviewQuality(r.Context(), userID, cardID, *req.Quality, now)
	} else {
		result, err = h.reviewService.SubmitReview(
			r.Context(), userID, cardID, domain.ReviewRating(req.Rating), now)
	}
	if err != nil {
		RespondWithServiceError(w, r, err)
		return
	}

	log.Debug("review submitted",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("interval", result.Schedule.Interval),
		slog.Int("degraded", len(result.Degraded)))

	shared.RespondWithJSON(w, r, http.StatusOK, ReviewResponse{
		Schedule: newScheduleResponse(result.Schedule, now),
		XP:       result.XP,
		Streak:   result.Streak,
		Unlocked: result.Unlocked,
		Degraded: result.Degraded,
	})
}

// GetSchedule handles GET /cards/{id}/schedule requests.
func (h *ReviewHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := requireUserAndCard(w, r)
	if !ok {
		return
	}

	schedule, err := h.reviewService.GetSchedule(r.Context(), userID, cardID)
	if errors.Is(err, store.ErrScheduleNotFound) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Card schedule not found")
		return
	}
	if err != nil {
		RespondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newScheduleResponse(schedule, h.timeFunc()))
}

// ListDue handles GET /cards/due requests.
// It returns the schedules due for review, never-reviewed cards first.
func (h *ReviewHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	limit := defaultDueLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	now := h.timeFunc()
	schedules, err := h.reviewService.ListDue(r.Context(), userID, now, limit)
	if err != nil {
		RespondWithServiceError(w, r, err)
		return
	}

	responses := make([]*ScheduleResponse, 0, len(schedules))
	for _, schedule := range schedules {
		responses = append(responses, newScheduleResponse(schedule, now))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}
