package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/certifyai/certify-backend/internal/config"
	"github.com/certifyai/certify-backend/internal/progress"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ProgressStore snapshots the full progress ledger verbatim.
type ProgressStore struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewProgressStore creates a new ProgressStore.
func NewProgressStore(rdb *redis.Client, log zerolog.Logger) *ProgressStore {
	return &ProgressStore{
		rdb: rdb,
		log: log.With().Str("component", "progress_store").Logger(),
	}
}

// Load fetches a user's ledger, falling back to the initial state when the
// blob is absent or malformed.
func (s *ProgressStore) Load(ctx context.Context, userID int) (*progress.Ledger, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.UserProgressKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return progress.NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load progress snapshot: %w", err)
	}

	ledger := progress.NewLedger()
	if err := json.Unmarshal(raw, ledger); err != nil {
		s.log.Warn().Err(err).Int("user_id", userID).
			Msg("Discarding malformed progress snapshot")
		return progress.NewLedger(), nil
	}
	return ledger, nil
}

// Save writes the ledger as one atomic SET.
func (s *ProgressStore) Save(ctx context.Context, userID int, ledger *progress.Ledger) error {
	raw, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("encode progress snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.UserProgressKey(userID), raw, 0).Err(); err != nil {
		return fmt.Errorf("save progress snapshot: %w", err)
	}
	return nil
}
