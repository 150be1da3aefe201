package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/karmic/marketplace/internal/core/domain"
	"github.com/karmic/marketplace/internal/core/ports"
)

// RankingCache abstracts the Redis sorted set holding userID → XP scores.
type RankingCache interface {
	TopIDs(ctx context.Context, limit int) ([]string, error)
	Set(ctx context.Context, userID string, xp int) error
	Replace(ctx context.Context, scores map[string]int) error
}

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
	// rebuildDepth bounds how many users the cache rebuild pulls from
	// primary storage; nobody below it can appear on a leaderboard page.
	rebuildDepth = 1000
)

// LeaderboardService serves the XP-descending projection from the ranking
// cache, falling back to primary storage when the cache is unavailable.
type LeaderboardService struct {
	users  ports.UserRepository
	cache  RankingCache
	logger zerolog.Logger
}

func NewLeaderboardService(users ports.UserRepository, cache RankingCache, logger zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{users: users, cache: cache, logger: logger}
}

// Top returns up to limit entries ordered by XP total descending.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]ports.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	if limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}

	if s.cache != nil {
		ids, err := s.cache.TopIDs(ctx, limit)
		if err != nil {
			s.logger.Warn().Err(err).Msg("ranking cache unavailable, falling back to primary storage")
		} else if len(ids) > 0 {
			entries, err := s.resolve(ctx, ids)
			if err == nil {
				return entries, nil
			}
			s.logger.Warn().Err(err).Msg("failed to resolve cached ranking, falling back")
		}
	}

	users, err := s.users.TopByXP(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return toEntries(users), nil
}

// Rebuild repopulates the ranking cache from primary storage. Ran
// periodically so credits lost to cache errors cannot skew the board
// forever.
func (s *LeaderboardService) Rebuild(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	users, err := s.users.TopByXP(ctx, rebuildDepth)
	if err != nil {
		return fmt.Errorf("leaderboard rebuild: %w", err)
	}

	scores := make(map[string]int, len(users))
	for _, u := range users {
		scores[u.ID] = u.XPTotal
	}
	if err := s.cache.Replace(ctx, scores); err != nil {
		return fmt.Errorf("leaderboard rebuild: %w", err)
	}

	s.logger.Info().Int("users", len(users)).Msg("leaderboard cache rebuilt")
	return nil
}

// Record updates a single user's cached score, called after a settlement
// credits the helper. Cache errors are non-fatal; the rebuild heals them.
func (s *LeaderboardService) Record(ctx context.Context, userID string, xpTotal int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, userID, xpTotal); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to update ranking cache")
	}
}

func (s *LeaderboardService) resolve(ctx context.Context, ids []string) ([]ports.LeaderboardEntry, error) {
	entries := make([]ports.LeaderboardEntry, 0, len(ids))
	for _, id := range ids {
		u, err := s.users.FindByID(ctx, id)
		if err != nil {
			// A cached ID may outlive its account; skip rather than break
			// the whole board.
			s.logger.Debug().Str("user_id", id).Msg("cached ranking entry has no user")
			continue
		}
		entries = append(entries, toEntry(u))
	}
	return entries, nil
}

func toEntries(users []*domain.User) []ports.LeaderboardEntry {
	entries := make([]ports.LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = toEntry(u)
	}
	return entries
}

func toEntry(u *domain.User) ports.LeaderboardEntry {
	return ports.LeaderboardEntry{
		UserID:   u.ID,
		Username: u.Username,
		XPTotal:  u.XPTotal,
		Rank:     string(domain.RankFor(u.XPTotal)),
	}
}
