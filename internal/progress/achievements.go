package progress

// AchievementCategory groups badges for display.
type AchievementCategory string

const (
	CategoryMilestone   AchievementCategory = "milestone"
	CategoryStreak      AchievementCategory = "streak"
	CategoryPerformance AchievementCategory = "performance"
	CategoryDedication  AchievementCategory = "dedication"
)

// RequirementType names the ledger counter a badge threshold is checked against.
type RequirementType string

const (
	RequireExamsCompleted RequirementType = "exams_completed"
	RequirePerfectScore   RequirementType = "perfect_score"
	RequireStreak         RequirementType = "streak"
	RequireXP             RequirementType = "xp"
	// RequireTopicMastery exists in the taxonomy but has no evaluation rule
	// wired up; badges using it never unlock.
	RequireTopicMastery RequirementType = "topic_mastery"
)

// Requirement is a counter threshold.
type Requirement struct {
	Type  RequirementType `json:"type"`
	Value int             `json:"value"`
}

// Achievement is a one-way unlockable badge.
type Achievement struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Category    AchievementCategory `json:"category"`
	Requirement Requirement         `json:"requirement"`
}

// Catalog is the static achievement set. Evaluation order is catalog order.
var Catalog = []Achievement{
	{
		ID:          "first_exam",
		Name:        "First Steps",
		Description: "Complete your first exam",
		Icon:        "🎯",
		Category:    CategoryMilestone,
		Requirement: Requirement{Type: RequireExamsCompleted, Value: 1},
	},
	{
		ID:          "exam_5",
		Name:        "Getting Started",
		Description: "Complete 5 exams",
		Icon:        "📚",
		Category:    CategoryMilestone,
		Requirement: Requirement{Type: RequireExamsCompleted, Value: 5},
	},
	{
		ID:          "exam_25",
		Name:        "Dedicated Learner",
		Description: "Complete 25 exams",
		Icon:        "🌟",
		Category:    CategoryMilestone,
		Requirement: Requirement{Type: RequireExamsCompleted, Value: 25},
	},
	{
		ID:          "exam_100",
		Name:        "Master Scholar",
		Description: "Complete 100 exams",
		Icon:        "🏆",
		Category:    CategoryMilestone,
		Requirement: Requirement{Type: RequireExamsCompleted, Value: 100},
	},
	{
		ID:          "perfect_score",
		Name:        "Perfectionist",
		Description: "Score 100% on an exam",
		Icon:        "💯",
		Category:    CategoryPerformance,
		Requirement: Requirement{Type: RequirePerfectScore, Value: 1},
	},
	{
		ID:          "streak_3",
		Name:        "On Fire",
		Description: "Maintain a 3-day streak",
		Icon:        "🔥",
		Category:    CategoryStreak,
		Requirement: Requirement{Type: RequireStreak, Value: 3},
	},
	{
		ID:          "streak_7",
		Name:        "Week Warrior",
		Description: "Maintain a 7-day streak",
		Icon:        "⚡",
		Category:    CategoryStreak,
		Requirement: Requirement{Type: RequireStreak, Value: 7},
	},
	{
		ID:          "streak_30",
		Name:        "Monthly Master",
		Description: "Maintain a 30-day streak",
		Icon:        "👑",
		Category:    CategoryStreak,
		Requirement: Requirement{Type: RequireStreak, Value: 30},
	},
	{
		ID:          "xp_1000",
		Name:        "XP Hunter",
		Description: "Earn 1,000 XP",
		Icon:        "⚡",
		Category:    CategoryDedication,
		Requirement: Requirement{Type: RequireXP, Value: 1000},
	},
	{
		ID:          "xp_10000",
		Name:        "XP Master",
		Description: "Earn 10,000 XP",
		Icon:        "🚀",
		Category:    CategoryDedication,
		Requirement: Requirement{Type: RequireXP, Value: 10000},
	},
}

// FindAchievement returns the catalog entry for id, or nil.
func FindAchievement(id string) *Achievement {
	for i := range Catalog {
		if Catalog[i].ID == id {
			return &Catalog[i]
		}
	}
	return nil
}
