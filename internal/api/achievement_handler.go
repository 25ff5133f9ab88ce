package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/studyhall/mastery-api/internal/api/shared"
	"github.com/studyhall/mastery-api/internal/platform/logger"
	"github.com/studyhall/mastery-api/internal/service"
)

// AchievementHandler handles achievement HTTP requests.
type AchievementHandler struct {
	achievements service.AchievementService
	logger       *slog.Logger
}

// NewAchievementHandler creates a new AchievementHandler.
func NewAchievementHandler(
	achievements service.AchievementService,
	logger *slog.Logger,
) *AchievementHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AchievementHandler")
	}

	return &AchievementHandler{
		achievements: achievements,
		logger:       logger.With(slog.String("component", "achievement_handler")),
	}
}

// ListAchievements handles GET /achievements requests.
// It returns the full catalog joined with the user's unlock state, in
// catalog order.
func (h *AchievementHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	unlocks, err := h.achievements.ListUnlocked(r.Context(), userID)
	if err != nil {
		RespondWithServiceError(w, r, err)
		return
	}

	unlockedAt := make(map[string]time.Time, len(unlocks))
	for _, unlock := range unlocks {
		unlockedAt[unlock.AchievementKey] = unlock.UnlockedAt
	}

	definitions := h.achievements.Catalog().All()
	responses := make([]AchievementResponse, 0, len(definitions))
	for _, def := range definitions {
		resp := AchievementResponse{
			Key:         def.Key,
			Title:       def.Title,
			Description: def.Description,
			Category:    string(def.Category),
			Tier:        string(def.Tier),
			Requirement: def.Requirement,
			XPReward:    def.XPReward,
		}
		if at, ok := unlockedAt[def.Key]; ok {
			resp.Unlocked = true
			t := at
			resp.UnlockedAt = &t
		}
		responses = append(responses, resp)
	}

	log.Debug("listed achievements",
		slog.String("user_id", userID.String()),
		slog.Int("catalog_size", len(responses)),
		slog.Int("unlocked", len(unlocks)))

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}
