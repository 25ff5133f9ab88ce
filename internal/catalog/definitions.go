package catalog

import "github.com/studyhall/mastery-api/internal/domain"

// DefaultDefinitions returns the built-in achievement catalog. The list is
// versioned with the binary and synced into storage at startup; the engine
// treats it as read-only.
//
// Every "you did X things" achievement reads a cumulative counter, the
// streak tiers read the streak state and the level tiers read total XP, so
// none of them can regress when the user deletes the entities that earned
// them. The lone collection achievement is current-state by intent and can
// regress; it is cosmetic.
func DefaultDefinitions() []domain.AchievementDefinition {
	return []domain.AchievementDefinition{
		// Streak tiers
		{
			Key:         "streak_3",
			Title:       "Warming Up",
			Description: "Study three days in a row",
			Category:    domain.AchievementCategoryStreak,
			Tier:        domain.AchievementTierBronze,
			Requirement: 3,
			XPReward:    25,
		},
		{
			Key:         "streak_7",
			Title:       "Full Week",
			Description: "Study seven days in a row",
			Category:    domain.AchievementCategoryStreak,
			Tier:        domain.AchievementTierSilver,
			Requirement: 7,
			XPReward:    75,
		},
		{
			Key:         "streak_30",
			Title:       "Habit Formed",
			Description: "Study thirty days in a row",
			Category:    domain.AchievementCategoryStreak,
			Tier:        domain.AchievementTierGold,
			Requirement: 30,
			XPReward:    300,
		},
		{
			Key:         "streak_100",
			Title:       "Unstoppable",
			Description: "Study one hundred days in a row",
			Category:    domain.AchievementCategoryStreak,
			Tier:        domain.AchievementTierPlatinum,
			Requirement: 100,
			XPReward:    1000,
		},

		// Review milestones (cumulative cards_reviewed counter)
		{
			Key:         "reviews_10",
			Title:       "Getting Started",
			Description: "Complete ten card reviews",
			Category:    domain.AchievementCategoryReview,
			Tier:        domain.AchievementTierBronze,
			Counter:     domain.CounterCardsReviewed,
			Requirement: 10,
			XPReward:    20,
		},
		{
			Key:         "reviews_100",
			Title:       "Century of Recall",
			Description: "Complete one hundred card reviews",
			Category:    domain.AchievementCategoryReview,
			Tier:        domain.AchievementTierSilver,
			Counter:     domain.CounterCardsReviewed,
			Requirement: 100,
			XPReward:    100,
		},
		{
			Key:         "reviews_1000",
			Title:       "Memory Machine",
			Description: "Complete one thousand card reviews",
			Category:    domain.AchievementCategoryReview,
			Tier:        domain.AchievementTierGold,
			Counter:     domain.CounterCardsReviewed,
			Requirement: 1000,
			XPReward:    500,
		},

		// Creation milestones (cumulative creation counters; deleting the
		// created items never revokes these)
		{
			Key:         "notes_10",
			Title:       "Note Taker",
			Description: "Create ten notes",
			Category:    domain.AchievementCategoryCreation,
			Tier:        domain.AchievementTierBronze,
			Counter:     domain.CounterNotesCreated,
			Requirement: 10,
			XPReward:    20,
		},
		{
			Key:         "notes_50",
			Title:       "Prolific Scribe",
			Description: "Create fifty notes",
			Category:    domain.AchievementCategoryCreation,
			Tier:        domain.AchievementTierSilver,
			Counter:     domain.CounterNotesCreated,
			Requirement: 50,
			XPReward:    100,
		},
		{
			Key:         "cards_25",
			Title:       "Deck Builder",
			Description: "Create twenty-five flashcards",
			Category:    domain.AchievementCategoryCreation,
			Tier:        domain.AchievementTierBronze,
			Counter:     domain.CounterCardsCreated,
			Requirement: 25,
			XPReward:    25,
		},
		{
			Key:         "cards_100",
			Title:       "Card Factory",
			Description: "Create one hundred flashcards",
			Category:    domain.AchievementCategoryCreation,
			Tier:        domain.AchievementTierSilver,
			Counter:     domain.CounterCardsCreated,
			Requirement: 100,
			XPReward:    100,
		},
		{
			Key:         "tasks_100",
			Title:       "Taskmaster",
			Description: "Complete one hundred tasks",
			Category:    domain.AchievementCategoryCreation,
			Tier:        domain.AchievementTierGold,
			Counter:     domain.CounterTasksCompleted,
			Requirement: 100,
			XPReward:    200,
		},

		// Level milestones (derived from total XP, monotonic)
		{
			Key:         "level_5",
			Title:       "Apprentice",
			Description: "Reach level five",
			Category:    domain.AchievementCategoryLevel,
			Tier:        domain.AchievementTierBronze,
			Requirement: 5,
			XPReward:    50,
		},
		{
			Key:         "level_10",
			Title:       "Scholar",
			Description: "Reach level ten",
			Category:    domain.AchievementCategoryLevel,
			Tier:        domain.AchievementTierSilver,
			Requirement: 10,
			XPReward:    150,
		},
		{
			Key:         "level_25",
			Title:       "Sage",
			Description: "Reach level twenty-five",
			Category:    domain.AchievementCategoryLevel,
			Tier:        domain.AchievementTierGold,
			Requirement: 25,
			XPReward:    500,
		},

		// Collection: current-state by intent. Evaluated from the live deck
		// count the caller supplies; deleting decks can make the predicate
		// false again, but the unlock itself is still exactly-once.
		{
			Key:         "deck_collector_10",
			Title:       "Collector",
			Description: "Have ten decks at the same time",
			Category:    domain.AchievementCategoryCollection,
			Tier:        domain.AchievementTierSilver,
			Counter:     domain.CounterDecksCreated,
			Requirement: 10,
			XPReward:    50,
		},
	}
}
