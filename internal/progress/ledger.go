// Package progress implements the cumulative player ledger: XP, derived
// level, calendar-day streaks, achievement unlocking, and rolling statistics.
// Every operation is a total function over its inputs; malformed results are
// not defended against (garbage in, garbage out).
package progress

import (
	"math"
	"time"

	"github.com/certifyai/certify-backend/internal/model"
)

// historyCap bounds the ledger's exam history; oldest entries drop silently.
const historyCap = 50

// dateLayout is the calendar-date form stored in LastPracticeDate.
const dateLayout = "2006-01-02"

// HistoryItem is a compact summary of one recorded exam, newest first.
type HistoryItem struct {
	ExamID      string    `json:"exam_id"`
	ExamName    string    `json:"exam_name"`
	CompletedAt time.Time `json:"completed_at"`
	Score       int       `json:"score"`
	Passed      bool      `json:"passed"`
	TimeTaken   int       `json:"time_taken"`
	XPEarned    int       `json:"xp_earned"`
}

// TopicMastery is all-time per-topic accuracy across every recorded exam.
type TopicMastery struct {
	TotalAttempts int `json:"total_attempts"`
	TotalCorrect  int `json:"total_correct"`
	AvgScore      int `json:"avg_score"`
}

// Ledger is the persisted progress state. It serializes verbatim as the
// user's progress snapshot.
type Ledger struct {
	TotalXP int `json:"total_xp"`
	// Level is a pure function of TotalXP, cached here for convenience.
	Level int `json:"level"`

	CurrentStreak    int    `json:"current_streak"`
	LongestStreak    int    `json:"longest_streak"`
	LastPracticeDate string `json:"last_practice_date,omitempty"`

	UnlockedAchievements []string `json:"unlocked_achievements"`

	TotalExamsCompleted int `json:"total_exams_completed"`
	TotalExamsPassed    int `json:"total_exams_passed"`
	PerfectScores       int `json:"perfect_scores"`
	AverageScore        int `json:"average_score"`
	TotalTimeSpent      int `json:"total_time_spent"` // seconds

	ExamHistory []HistoryItem           `json:"exam_history"`
	TopicScores map[string]TopicMastery `json:"topic_scores"`
}

// NewLedger returns the documented initial state.
func NewLedger() *Ledger {
	return &Ledger{
		Level:                1,
		UnlockedAchievements: []string{},
		ExamHistory:          []HistoryItem{},
		TopicScores:          make(map[string]TopicMastery),
	}
}

// RecordOutcome is what one recorded exam earned the player.
type RecordOutcome struct {
	XPEarned        int           `json:"xp_earned"`
	NewAchievements []Achievement `json:"new_achievements"`
	// HighlightAchievement is the first newly unlocked badge, surfaced for
	// the celebration toast.
	HighlightAchievement *Achievement `json:"highlight_achievement,omitempty"`
	StreakUpdated        bool         `json:"streak_updated"`
	NewStreak            int          `json:"new_streak"`
}

// CalculateXP is a pure function of (score, passed). Bounds: [50, 330].
func CalculateXP(result *model.ExamResult) int {
	xp := 50 // base for completing an exam

	xp += int(math.Floor(float64(result.Score) * 1.5))

	if result.Passed {
		xp += 50
	}

	// High-score tier bonus.
	if result.Score >= 90 {
		xp += 30
	} else if result.Score >= 80 {
		xp += 20
	}

	// Perfect score bonus stacks with the tier bonus.
	if result.Score == 100 {
		xp += 50
	}

	return xp
}

// CalculateLevel derives the level tier from cumulative XP.
// Level 1: 0-99 XP, level 2: 100-399, level 3: 400-899, and so on.
func CalculateLevel(totalXP int) int {
	return int(math.Floor(math.Sqrt(float64(totalXP)/100))) + 1
}

// XPForLevel is the cumulative XP threshold at which a level begins.
func XPForLevel(level int) int {
	return (level - 1) * (level - 1) * 100
}

// Record folds one exam result into the ledger and returns what it earned.
func (l *Ledger) Record(result *model.ExamResult, now time.Time) RecordOutcome {
	today := now.Format(dateLayout)

	xpEarned := CalculateXP(result)
	l.TotalXP += xpEarned
	l.Level = CalculateLevel(l.TotalXP)

	// Streak: same-day repeats leave it alone, the next calendar day
	// increments, anything else resets to 1.
	newStreak := l.CurrentStreak
	streakUpdated := false
	switch {
	case l.LastPracticeDate == "":
		newStreak = 1
		streakUpdated = true
	case l.LastPracticeDate == today:
		// same-day repeat
	case nextDay(l.LastPracticeDate) == today:
		newStreak = l.CurrentStreak + 1
		streakUpdated = true
	default:
		newStreak = 1
		streakUpdated = true
	}
	l.CurrentStreak = newStreak
	if newStreak > l.LongestStreak {
		l.LongestStreak = newStreak
	}
	l.LastPracticeDate = today

	// Counters. AverageScore folds in the previous rounded mean rather than
	// recomputing from history; the small rounding drift is accepted behavior.
	oldCount := l.TotalExamsCompleted
	l.TotalExamsCompleted++
	if result.Passed {
		l.TotalExamsPassed++
	}
	if result.Score == 100 {
		l.PerfectScores++
	}
	l.TotalTimeSpent += result.TimeTaken
	l.AverageScore = int(math.Round(
		float64(l.AverageScore*oldCount+result.Score) / float64(l.TotalExamsCompleted)))

	// Topic mastery IS fully recomputed from cumulative totals, unlike the
	// overall average above.
	if l.TopicScores == nil {
		l.TopicScores = make(map[string]TopicMastery)
	}
	for _, topic := range result.TopicBreakdown {
		m := l.TopicScores[topic.Topic]
		m.TotalAttempts += topic.TotalQuestions
		m.TotalCorrect += topic.CorrectAnswers
		m.AvgScore = int(math.Round(float64(m.TotalCorrect) / float64(m.TotalAttempts) * 100))
		l.TopicScores[topic.Topic] = m
	}

	// History: prepend, cap at historyCap.
	item := HistoryItem{
		ExamID:      result.ExamID,
		ExamName:    result.ExamName,
		CompletedAt: result.CompletedAt,
		Score:       result.Score,
		Passed:      result.Passed,
		TimeTaken:   result.TimeTaken,
		XPEarned:    xpEarned,
	}
	l.ExamHistory = append([]HistoryItem{item}, l.ExamHistory...)
	if len(l.ExamHistory) > historyCap {
		l.ExamHistory = l.ExamHistory[:historyCap]
	}

	// Achievements: evaluate unsatisfied catalog entries against the
	// post-update counters, in catalog order. Unlocking is one-way.
	newAchievements := l.evaluateAchievements(newStreak)

	outcome := RecordOutcome{
		XPEarned:        xpEarned,
		NewAchievements: newAchievements,
		StreakUpdated:   streakUpdated,
		NewStreak:       newStreak,
	}
	if len(newAchievements) > 0 {
		outcome.HighlightAchievement = &newAchievements[0]
	}
	return outcome
}

func (l *Ledger) evaluateAchievements(newStreak int) []Achievement {
	unlocked := make(map[string]struct{}, len(l.UnlockedAchievements))
	for _, id := range l.UnlockedAchievements {
		unlocked[id] = struct{}{}
	}

	var fresh []Achievement
	for _, a := range Catalog {
		if _, has := unlocked[a.ID]; has {
			continue
		}

		satisfied := false
		switch a.Requirement.Type {
		case RequireExamsCompleted:
			satisfied = l.TotalExamsCompleted >= a.Requirement.Value
		case RequirePerfectScore:
			satisfied = l.PerfectScores >= a.Requirement.Value
		case RequireStreak:
			satisfied = newStreak >= a.Requirement.Value
		case RequireXP:
			satisfied = l.TotalXP >= a.Requirement.Value
			// RequireTopicMastery: no evaluation rule wired up; never unlocks.
		}

		if satisfied {
			fresh = append(fresh, a)
			l.UnlockedAchievements = append(l.UnlockedAchievements, a.ID)
		}
	}
	return fresh
}

// nextDay returns the calendar day after the stored date. A malformed stored
// date yields an empty string, which compares as a gap and resets the streak.
func nextDay(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, 1).Format(dateLayout)
}
