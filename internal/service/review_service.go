package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studyhall/mastery-api/internal/domain"
	"github.com/studyhall/mastery-api/internal/domain/srs"
	"github.com/studyhall/mastery-api/internal/platform/logger"
	"github.com/studyhall/mastery-api/internal/store"
)

// XPPerReview is the XP granted for completing one card review, regardless
// of rating. Rewarding failed recalls too keeps the incentive on showing up.
const XPPerReview = 10

// Degraded side-effect labels reported in ReviewResult.Degraded and
// ActivityResult.Degraded.
const (
	DegradedDailyCounter      = "daily_counter"
	DegradedCumulativeCounter = "cumulative_counter"
	DegradedXP                = "xp"
	DegradedStreak            = "streak"
	DegradedAchievements      = "achievements"
)

// ReviewResult is the outcome of a submitted review: the authoritative new
// schedule plus the outcomes of the best-effort side effects. Degraded lists
// the side effects that failed; the review itself still succeeded.
type ReviewResult struct {
	Schedule *domain.CardSchedule `json:"schedule"`
	XP       *XPAward             `json:"xp,omitempty"`
	Streak   *StreakUpdate        `json:"streak,omitempty"`
	Unlocked []UnlockResult       `json:"unlocked,omitempty"`
	Degraded []string             `json:"degraded,omitempty"`
}

// ReviewService orchestrates a card review: the SM-2 schedule update as the
// primary operation, then progress bookkeeping as best-effort side effects.
type ReviewService interface {
	// SubmitReview applies a simplified rating to the card's schedule.
	// The schedule is created lazily on the first review of a card.
	SubmitReview(
		ctx context.Context,
		userID, cardID uuid.UUID,
		rating domain.ReviewRating,
		now time.Time,
	) (*ReviewResult, error)

	// SubmitReviewQuality is SubmitReview for a canonical 0-5 quality.
	SubmitReviewQuality(
		ctx context.Context,
		userID, cardID uuid.UUID,
		quality int,
		now time.Time,
	) (*ReviewResult, error)

	// GetSchedule retrieves the current schedule for a card.
	GetSchedule(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardSchedule, error)

	// ListDue retrieves up to limit schedules due at the given time.
	ListDue(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.CardSchedule, error)
}

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	scheduleStore store.CardScheduleStore
	srsService    srs.Service
	ledger        ProgressLedger
	xpService     XPService
	streakService StreakService
	achievements  AchievementService
	logger        *slog.Logger
}

// NewReviewService creates a new ReviewService.
// It returns an error if any of the required dependencies are nil.
func NewReviewService(
	scheduleStore store.CardScheduleStore,
	srsService srs.Service,
	ledger ProgressLedger,
	xpService XPService,
	streakService StreakService,
	achievements AchievementService,
	logger *slog.Logger,
) (ReviewService, error) {
	if scheduleStore == nil {
		return nil, domain.NewValidationError("scheduleStore", "cannot be nil", domain.ErrValidation)
	}
	if srsService == nil {
		return nil, domain.NewValidationError("srsService", "cannot be nil", domain.ErrValidation)
	}
	if ledger == nil {
		return nil, domain.NewValidationError("ledger", "cannot be nil", domain.ErrValidation)
	}
	if xpService == nil {
		return nil, domain.NewValidationError("xpService", "cannot be nil", domain.ErrValidation)
	}
	if streakService == nil {
		return nil, domain.NewValidationError("streakService", "cannot be nil", domain.ErrValidation)
	}
	if achievements == nil {
		return nil, domain.NewValidationError("achievements", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		scheduleStore: scheduleStore,
		srsService:    srsService,
		ledger:        ledger,
		xpService:     xpService,
		streakService: streakService,
		achievements:  achievements,
		logger:        logger.With(slog.String("component", "review_service")),
	}, nil
}

// SubmitReview implements ReviewService.SubmitReview
func (s *reviewServiceImpl) SubmitReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	rating domain.ReviewRating,
	now time.Time,
) (*ReviewResult, error) {
	quality, err := rating.Quality()
	if err != nil {
		return nil, err
	}
	return s.SubmitReviewQuality(ctx, userID, cardID, quality, now)
}

// SubmitReviewQuality implements ReviewService.SubmitReviewQuality
func (s *reviewServiceImpl) SubmitReviewQuality(
	ctx context.Context,
	userID, cardID uuid.UUID,
	quality int,
	now time.Time,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !domain.ValidQuality(quality) {
		return nil, domain.ErrInvalidQuality
	}

	// One retry on write-back conflict: reload the schedule the winner
	// wrote and apply this review on top of it. A second conflict under a
	// retry means pathological contention; surface it.
	schedule, err := s.applyReview(ctx, userID, cardID, quality, now)
	if errors.Is(err, store.ErrConflict) {
		log.Debug("schedule write-back conflict, retrying once",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		schedule, err = s.applyReview(ctx, userID, cardID, quality, now)
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrReviewConflict
		}
	}
	if err != nil {
		return nil, NewReviewServiceError("submit_review", "failed to update schedule", err)
	}

	result := &ReviewResult{Schedule: schedule}
	s.runSideEffects(ctx, userID, result, now)
	return result, nil
}

// applyReview performs one load-compute-write cycle against the schedule.
func (s *reviewServiceImpl) applyReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	quality int,
	now time.Time,
) (*domain.CardSchedule, error) {
	schedule, err := s.scheduleStore.Get(ctx, userID, cardID)
	if errors.Is(err, store.ErrScheduleNotFound) {
		schedule, err = s.createSchedule(ctx, userID, cardID)
	}
	if err != nil {
		return nil, err
	}

	next, err := s.srsService.Review(schedule, quality, now)
	if err != nil {
		return nil, err
	}

	if err := s.scheduleStore.Update(ctx, next, schedule.UpdatedAt); err != nil {
		return nil, err
	}
	return next, nil
}

// createSchedule lazily creates the schedule on the first review of a card.
// Losing the creation race to a concurrent first review is fine; the
// winner's row is loaded instead.
func (s *reviewServiceImpl) createSchedule(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.CardSchedule, error) {
	schedule, err := domain.NewCardSchedule(userID, cardID)
	if err != nil {
		return nil, err
	}

	err = s.scheduleStore.Create(ctx, schedule)
	if errors.Is(err, store.ErrDuplicate) {
		return s.scheduleStore.Get(ctx, userID, cardID)
	}
	if err != nil {
		return nil, err
	}
	return schedule, nil
}

// runSideEffects performs the best-effort bookkeeping around a committed
// review. Each failure is logged and recorded in result.Degraded; none of
// them can fail the review.
func (s *reviewServiceImpl) runSideEffects(
	ctx context.Context,
	userID uuid.UUID,
	result *ReviewResult,
	now time.Time,
) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	degrade := func(label string, err error) {
		log.Warn("review side effect failed",
			slog.String("side_effect", label),
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		result.Degraded = append(result.Degraded, label)
	}

	if err := s.ledger.IncrementDaily(ctx, userID, domain.MetricCardsReviewed, 1, now); err != nil {
		degrade(DegradedDailyCounter, err)
	}

	counterOK := true
	if err := s.ledger.IncrementCumulative(ctx, userID, domain.CounterCardsReviewed, 1); err != nil {
		counterOK = false
		degrade(DegradedCumulativeCounter, err)
	}

	xp, err := s.xpService.AwardXP(ctx, userID, XPPerReview)
	if err != nil {
		degrade(DegradedXP, err)
	} else {
		result.XP = xp
	}

	streak, err := s.streakService.UpdateStreak(ctx, userID, now)
	if err != nil {
		degrade(DegradedStreak, err)
	} else {
		result.Streak = streak
		result.Unlocked = append(result.Unlocked, streak.Unlocked...)
	}

	achievementsOK := true
	if counterOK {
		counters, err := s.ledger.Counters(ctx, userID)
		if err != nil {
			achievementsOK = false
			degrade(DegradedAchievements, err)
		} else {
			unlocked, err := s.achievements.CheckCumulative(
				ctx, userID, domain.CounterCardsReviewed, counters[domain.CounterCardsReviewed])
			result.Unlocked = append(result.Unlocked, unlocked...)
			if err != nil {
				achievementsOK = false
				degrade(DegradedAchievements, err)
			}
		}
	}

	if achievementsOK && result.XP != nil && result.XP.LeveledUp {
		unlocked, err := s.achievements.CheckLevel(ctx, userID, result.XP.NewLevel)
		result.Unlocked = append(result.Unlocked, unlocked...)
		if err != nil {
			degrade(DegradedAchievements, err)
		}
	}
}

// GetSchedule implements ReviewService.GetSchedule
func (s *reviewServiceImpl) GetSchedule(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.CardSchedule, error) {
	return s.scheduleStore.Get(ctx, userID, cardID)
}

// ListDue implements ReviewService.ListDue
func (s *reviewServiceImpl) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.CardSchedule, error) {
	return s.scheduleStore.ListDue(ctx, userID, now, limit)
}
