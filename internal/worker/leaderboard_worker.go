package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/certifyai/certify-backend/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	LeaderboardBatchSize    = 50
	LeaderboardBatchTimeout = 2 * time.Second
	LeaderboardPollTimeout  = 1 * time.Second
)

// LeaderboardWorker consumes persist_progress_queue and upserts leaderboard
// rows to PostgreSQL in batches.
type LeaderboardWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewLeaderboardWorker creates a new LeaderboardWorker.
func NewLeaderboardWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *LeaderboardWorker {
	return &LeaderboardWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "leaderboard_worker").Logger(),
	}
}

type progressPayload struct {
	UserID         int `json:"user_id"`
	TotalXP        int `json:"total_xp"`
	Level          int `json:"level"`
	ExamsCompleted int `json:"exams_completed"`
	AverageScore   int `json:"average_score"`
	CurrentStreak  int `json:"current_streak"`
}

// Start begins the worker loop with batching. Call in a goroutine.
func (w *LeaderboardWorker) Start(ctx context.Context) {
	w.log.Info().Msg("LeaderboardWorker started")

	batch := make([]*progressPayload, 0, LeaderboardBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= LeaderboardBatchSize || time.Since(lastFlush) >= LeaderboardBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, LeaderboardPollTimeout, config.WorkerKey.PersistProgressQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p progressPayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &p)
		}
	}
}

func (w *LeaderboardWorker) flushSafe(ctx context.Context, batch []*progressPayload) {
	if len(batch) == 0 {
		return
	}

	// Newer queue items for the same user supersede older ones within a batch.
	latest := make(map[int]*progressPayload, len(batch))
	for _, p := range batch {
		latest[p.UserID] = p
	}
	deduped := make([]*progressPayload, 0, len(latest))
	for _, p := range latest {
		deduped = append(deduped, p)
	}

	if err := w.bulkUpsert(ctx, deduped); err != nil {
		w.log.Warn().Err(err).Msg("bulk leaderboard upsert failed, using fallback")

		for _, p := range deduped {
			if err := w.upsertSingle(ctx, p); err != nil {
				w.log.Error().Err(err).Int("user_id", p.UserID).Msg("upsertSingle failed — requeueing")
				raw, _ := json.Marshal(p)
				w.rdb.RPush(ctx, config.WorkerKey.PersistProgressQueue, raw)
			}
		}
	}
}

// bulkUpsert writes the whole batch in one statement using UNNEST.
func (w *LeaderboardWorker) bulkUpsert(ctx context.Context, batch []*progressPayload) error {
	userIDs := make([]int, len(batch))
	xps := make([]int, len(batch))
	levels := make([]int, len(batch))
	completed := make([]int, len(batch))
	avgScores := make([]int, len(batch))
	streaks := make([]int, len(batch))

	for i, p := range batch {
		userIDs[i] = p.UserID
		xps[i] = p.TotalXP
		levels[i] = p.Level
		completed[i] = p.ExamsCompleted
		avgScores[i] = p.AverageScore
		streaks[i] = p.CurrentStreak
	}

	_, err := w.pool.Exec(ctx,
		`INSERT INTO leaderboard (user_id, total_xp, level, exams_completed, average_score, current_streak)
		 SELECT * FROM UNNEST($1::int[], $2::int[], $3::int[], $4::int[], $5::int[], $6::int[])
		 ON CONFLICT (user_id) DO UPDATE
		 SET total_xp = EXCLUDED.total_xp,
		     level = EXCLUDED.level,
		     exams_completed = EXCLUDED.exams_completed,
		     average_score = EXCLUDED.average_score,
		     current_streak = EXCLUDED.current_streak,
		     updated_at = NOW()`,
		userIDs, xps, levels, completed, avgScores, streaks)
	return err
}

func (w *LeaderboardWorker) upsertSingle(ctx context.Context, p *progressPayload) error {
	_, err := w.pool.Exec(ctx,
		`INSERT INTO leaderboard (user_id, total_xp, level, exams_completed, average_score, current_streak)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE
		 SET total_xp = EXCLUDED.total_xp,
		     level = EXCLUDED.level,
		     exams_completed = EXCLUDED.exams_completed,
		     average_score = EXCLUDED.average_score,
		     current_streak = EXCLUDED.current_streak,
		     updated_at = NOW()`,
		p.UserID, p.TotalXP, p.Level, p.ExamsCompleted, p.AverageScore, p.CurrentStreak)
	return err
}
