package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studyhall/mastery-api/internal/domain"
	"github.com/studyhall/mastery-api/internal/platform/logger"
)

// Activity actions collaborators report after their own primary operation
// succeeds. Card reviews go through ReviewService, not here.
const (
	ActionNoteCreated   = "note_created"
	ActionDeckCreated   = "deck_created"
	ActionCardCreated   = "card_created"
	ActionTaskCompleted = "task_completed"
	ActionExamTaken     = "exam_taken"
	ActionStudySession  = "study_session"
)

// activityMapping ties an action to its ledger rows and XP value. A mapping
// may lack a daily metric (decks have no daily view) or a cumulative counter
// (study time is daily-only). XP scales with the reported amount.
type activityMapping struct {
	metric     string
	counter    string
	xpPerUnit  int64
	reversible bool
}

var activityMappings = map[string]activityMapping{
	ActionNoteCreated:   {metric: domain.MetricNotesCreated, counter: domain.CounterNotesCreated, xpPerUnit: 5},
	ActionDeckCreated:   {counter: domain.CounterDecksCreated, xpPerUnit: 5},
	ActionCardCreated:   {metric: domain.MetricCardsCreated, counter: domain.CounterCardsCreated, xpPerUnit: 2},
	ActionTaskCompleted: {metric: domain.MetricTasksCompleted, counter: domain.CounterTasksCompleted, xpPerUnit: 10, reversible: true},
	ActionExamTaken:     {metric: domain.MetricExamsTaken, counter: domain.CounterExamsTaken, xpPerUnit: 25},
	ActionStudySession:  {metric: domain.MetricStudyMinutes, xpPerUnit: 1},
}

// ActivityResult is the outcome of recording one activity event.
type ActivityResult struct {
	Action   string         `json:"action"`
	Amount   int64          `json:"amount"`
	XP       *XPAward       `json:"xp,omitempty"`
	Streak   *StreakUpdate  `json:"streak,omitempty"`
	Unlocked []UnlockResult `json:"unlocked,omitempty"`
	Degraded []string       `json:"degraded,omitempty"`
}

// ActivityService is the entry point CRUD collaborators call after their
// primary action succeeds: it maps the action onto daily metrics, cumulative
// counters, XP and the streak, and runs the relevant achievement checks.
type ActivityService interface {
	// RecordActivity records amount units of the given action. With undo
	// set, only the clamped daily decrement is performed; cumulative
	// counters and XP are monotonic and keep what was already granted.
	// liveCount, when the collaborator supplies it, is the current number
	// of live entities behind the action's counter after the operation and
	// feeds collection achievement checks.
	RecordActivity(
		ctx context.Context,
		userID uuid.UUID,
		action string,
		amount int64,
		undo bool,
		liveCount *int64,
		now time.Time,
	) (*ActivityResult, error)
}

// activityServiceImpl implements the ActivityService interface.
type activityServiceImpl struct {
	ledger        ProgressLedger
	xpService     XPService
	streakService StreakService
	achievements  AchievementService
	logger        *slog.Logger
}

// NewActivityService creates a new ActivityService.
// It returns an error if any of the required dependencies are nil.
func NewActivityService(
	ledger ProgressLedger,
	xpService XPService,
	streakService StreakService,
	achievements AchievementService,
	logger *slog.Logger,
) (ActivityService, error) {
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

	return &activityServiceImpl{
		ledger:        ledger,
		xpService:     xpService,
		streakService: streakService,
		achievements:  achievements,
		logger:        logger.With(slog.String("component", "activity_service")),
	}, nil
}

// RecordActivity implements ActivityService.RecordActivity
func (s *activityServiceImpl) RecordActivity(
	ctx context.Context,
	userID uuid.UUID,
	action string,
	amount int64,
	undo bool,
	liveCount *int64,
	now time.Time,
) (*ActivityResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	mapping, ok := activityMappings[action]
	if !ok {
		return nil, domain.ErrInvalidAction
	}
	if amount <= 0 {
		return nil, domain.NewValidationError("amount", "must be positive", domain.ErrValidation)
	}

	result := &ActivityResult{Action: action, Amount: amount}

	if undo {
		if !mapping.reversible {
			return nil, ErrNotReversible
		}
		if err := s.ledger.DecrementDaily(ctx, userID, mapping.metric, amount, now); err != nil {
			log.Error("failed to undo daily metric",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()),
				slog.String("action", action))
			return nil, err
		}
		return result, nil
	}

	degrade := func(label string, err error) {
		log.Warn("activity side effect failed",
			slog.String("side_effect", label),
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("action", action))
		result.Degraded = append(result.Degraded, label)
	}

	if mapping.metric != "" {
		if err := s.ledger.IncrementDaily(ctx, userID, mapping.metric, amount, now); err != nil {
			degrade(DegradedDailyCounter, err)
		}
	}

	counterOK := mapping.counter != ""
	if mapping.counter != "" {
		if err := s.ledger.IncrementCumulative(ctx, userID, mapping.counter, amount); err != nil {
			counterOK = false
			degrade(DegradedCumulativeCounter, err)
		}
	}

	xp, err := s.xpService.AwardXP(ctx, userID, mapping.xpPerUnit*amount)
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
				ctx, userID, mapping.counter, counters[mapping.counter])
			result.Unlocked = append(result.Unlocked, unlocked...)
			if err != nil {
				achievementsOK = false
				degrade(DegradedAchievements, err)
			}
		}
	}

	if liveCount != nil && mapping.counter != "" {
		unlocked, err := s.achievements.CheckCollection(ctx, userID, mapping.counter, *liveCount)
		result.Unlocked = append(result.Unlocked, unlocked...)
		if err != nil {
			achievementsOK = false
			degrade(DegradedAchievements, err)
		}
	}

	if achievementsOK && result.XP != nil && result.XP.LeveledUp {
		unlocked, err := s.achievements.CheckLevel(ctx, userID, result.XP.NewLevel)
		result.Unlocked = append(result.Unlocked, unlocked...)
		if err != nil {
			degrade(DegradedAchievements, err)
		}
	}

	return result, nil
}
