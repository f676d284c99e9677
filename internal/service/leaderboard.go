package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gregroclawski/DataShatter/internal/domain"
	"github.com/gregroclawski/DataShatter/internal/repository"
)

// leaderboardSize is how many players the public leaderboard shows.
const leaderboardSize = 10

// leaderboardCacheKey is the Redis key the rendered leaderboard lives under.
const leaderboardCacheKey = "leaderboard:top"

// LeaderboardService serves the top-players listing with a Redis
// read-through cache in front of PostgreSQL. The cache is strictly an
// optimization: every Redis failure degrades to a database read, and cache
// writes are fire-and-forget.
type LeaderboardService struct {
	saves  repository.GameSaveRepository
	cache  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewLeaderboardService creates a leaderboard service. cache may be nil, in
// which case every read goes to the database.
func NewLeaderboardService(saves repository.GameSaveRepository, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *LeaderboardService {
	return &LeaderboardService{
		saves:  saves,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Top returns the current top players ordered by level, then experience.
func (s *LeaderboardService) Top(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	if entries, ok := s.fromCache(ctx); ok {
		return entries, nil
	}

	entries, err := s.saves.TopByLevel(ctx, leaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	s.storeCache(ctx, entries)

	return entries, nil
}

// fromCache attempts a cache read. Any miss or failure reports !ok.
func (s *LeaderboardService) fromCache(ctx context.Context) ([]domain.LeaderboardEntry, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, leaderboardCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.WarnContext(ctx, "leaderboard cache read failed",
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.WarnContext(ctx, "leaderboard cache entry corrupt, ignoring",
			slog.String("error", err.Error()),
		)
		return nil, false
	}

	return entries, true
}

// storeCache writes the freshly loaded leaderboard back to Redis. Failures
// are logged and swallowed.
func (s *LeaderboardService) storeCache(ctx context.Context, entries []domain.LeaderboardEntry) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(entries)
	if err != nil {
		s.logger.WarnContext(ctx, "marshal leaderboard for cache failed",
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.cache.Set(ctx, leaderboardCacheKey, data, s.ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "leaderboard cache write failed",
			slog.String("error", err.Error()),
		)
	}
}
