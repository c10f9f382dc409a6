// Package store persists the core engines' state as whole-object JSON
// snapshots in Redis, keyed per user. Writes are atomic SETs with no partial
// update; a snapshot that fails to decode is discarded and replaced by the
// documented initial state, never crashing startup.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/certifyai/certify-backend/internal/config"
	"github.com/certifyai/certify-backend/internal/session"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SessionStore snapshots exam session state.
type SessionStore struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(rdb *redis.Client, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		rdb: rdb,
		log: log.With().Str("component", "session_store").Logger(),
	}
}

// Load fetches a user's session snapshot. Absent or malformed blobs return
// (nil, nil); only a transport failure is an error.
func (s *SessionStore) Load(ctx context.Context, userID int) (*session.Snapshot, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.UserExamSessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session snapshot: %w", err)
	}

	var snap session.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.log.Warn().Err(err).Int("user_id", userID).
			Msg("Discarding malformed session snapshot")
		return nil, nil
	}
	return &snap, nil
}

// Save writes the snapshot as one atomic SET (last successful write wins).
func (s *SessionStore) Save(ctx context.Context, userID int, snap session.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.UserExamSessionKey(userID), raw, 0).Err(); err != nil {
		return fmt.Errorf("save session snapshot: %w", err)
	}
	return nil
}

// Delete removes the stored snapshot (exam reset).
func (s *SessionStore) Delete(ctx context.Context, userID int) error {
	return s.rdb.Del(ctx, config.CacheKey.UserExamSessionKey(userID)).Err()
}
