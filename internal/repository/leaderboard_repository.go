package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LeaderboardEntry is one ranked row of the public leaderboard.
type LeaderboardEntry struct {
	Rank           int       `json:"rank"`
	UserID         int       `json:"user_id"`
	Name           string    `json:"name"`
	TotalXP        int       `json:"total_xp"`
	Level          int       `json:"level"`
	ExamsCompleted int       `json:"exams_completed"`
	AverageScore   int       `json:"average_score"`
	CurrentStreak  int       `json:"current_streak"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// LeaderboardRepository reads the denormalized leaderboard table kept up to
// date by the progress persist worker.
type LeaderboardRepository struct {
	pool *pgxpool.Pool
}

// NewLeaderboardRepository creates a new LeaderboardRepository.
func NewLeaderboardRepository(pool *pgxpool.Pool) *LeaderboardRepository {
	return &LeaderboardRepository{pool: pool}
}

// Top returns the highest-XP rows, ranked.
func (r *LeaderboardRepository) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT l.user_id, u.name, l.total_xp, l.level, l.exams_completed,
		        l.average_score, l.current_streak, l.updated_at
		 FROM leaderboard l
		 JOIN users u ON u.id = l.user_id
		 ORDER BY l.total_xp DESC, l.updated_at ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.TotalXP, &e.Level,
			&e.ExamsCompleted, &e.AverageScore, &e.CurrentStreak, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.Rank = len(out) + 1
		out = append(out, e)
	}
	return out, rows.Err()
}
