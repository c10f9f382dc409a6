package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/certifyai/certify-backend/internal/config"
	"github.com/certifyai/certify-backend/internal/model"
	"github.com/certifyai/certify-backend/internal/progress"
	"github.com/certifyai/certify-backend/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ProgressService wraps the progress ledger engine with snapshot persistence
// and queues leaderboard rows for the persist worker.
type ProgressService struct {
	snaps *store.ProgressStore
	rdb   *redis.Client
	log   zerolog.Logger
	now   func() time.Time
}

// NewProgressService creates a new ProgressService.
func NewProgressService(snaps *store.ProgressStore, rdb *redis.Client, log zerolog.Logger) *ProgressService {
	return &ProgressService{
		snaps: snaps,
		rdb:   rdb,
		log:   log.With().Str("component", "progress_service").Logger(),
		now:   time.Now,
	}
}

// leaderboardPayload mirrors the worker's queue item shape.
type leaderboardPayload struct {
	UserID         int `json:"user_id"`
	TotalXP        int `json:"total_xp"`
	Level          int `json:"level"`
	ExamsCompleted int `json:"exams_completed"`
	AverageScore   int `json:"average_score"`
	CurrentStreak  int `json:"current_streak"`
}

// RecordExamResult folds a finished exam into the user's ledger, persists the
// new snapshot, and enqueues the leaderboard update.
func (s *ProgressService) RecordExamResult(ctx context.Context, userID int, result *model.ExamResult) (*progress.RecordOutcome, error) {
	ledger, err := s.snaps.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	outcome := ledger.Record(result, s.now())

	if err := s.snaps.Save(ctx, userID, ledger); err != nil {
		return nil, err
	}

	// Queue the leaderboard row. The ledger snapshot is the source of truth;
	// a lost queue item only delays the public ranking.
	raw, err := json.Marshal(leaderboardPayload{
		UserID:         userID,
		TotalXP:        ledger.TotalXP,
		Level:          ledger.Level,
		ExamsCompleted: ledger.TotalExamsCompleted,
		AverageScore:   ledger.AverageScore,
		CurrentStreak:  ledger.CurrentStreak,
	})
	if err != nil {
		return nil, fmt.Errorf("encode leaderboard payload: %w", err)
	}
	if err := s.rdb.LPush(ctx, config.WorkerKey.PersistProgressQueue, raw).Err(); err != nil {
		s.log.Warn().Err(err).Int("user_id", userID).Msg("Failed to queue leaderboard update")
	}

	s.log.Info().
		Int("user_id", userID).
		Int("xp_earned", outcome.XPEarned).
		Int("streak", outcome.NewStreak).
		Int("new_achievements", len(outcome.NewAchievements)).
		Msg("Exam result recorded")
	return &outcome, nil
}

// GetProgress returns the full ledger for the user.
func (s *ProgressService) GetProgress(ctx context.Context, userID int) (*progress.Ledger, error) {
	return s.snaps.Load(ctx, userID)
}

// GetLevel returns the level progress projection.
func (s *ProgressService) GetLevel(ctx context.Context, userID int) (*progress.LevelProgress, error) {
	ledger, err := s.snaps.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	lp := ledger.GetLevel()
	return &lp, nil
}

// AchievementStatus pairs the static catalog with the user's unlock state.
type AchievementStatus struct {
	Achievement progress.Achievement `json:"achievement"`
	Unlocked    bool                 `json:"unlocked"`
}

// GetAchievements returns the catalog annotated with the user's unlocks.
func (s *ProgressService) GetAchievements(ctx context.Context, userID int) ([]AchievementStatus, error) {
	ledger, err := s.snaps.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlocked := make(map[string]struct{}, len(ledger.UnlockedAchievements))
	for _, id := range ledger.UnlockedAchievements {
		unlocked[id] = struct{}{}
	}

	out := make([]AchievementStatus, 0, len(progress.Catalog))
	for _, a := range progress.Catalog {
		_, has := unlocked[a.ID]
		out = append(out, AchievementStatus{Achievement: a, Unlocked: has})
	}
	return out, nil
}
