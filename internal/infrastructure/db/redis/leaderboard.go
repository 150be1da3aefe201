package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "leaderboard:xp"

// LeaderboardCache holds the userID → XP ranking in a Redis sorted set.
type LeaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a LeaderboardCache wrapping the given Redis client.
func NewLeaderboardCache(client *redis.Client) *LeaderboardCache {
	return &LeaderboardCache{client: client}
}

// TopIDs returns up to limit user IDs ordered by XP score descending.
func (c *LeaderboardCache) TopIDs(ctx context.Context, limit int) ([]string, error) {
	ids, err := c.client.ZRevRange(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard top: %w", err)
	}
	return ids, nil
}

// Set stores a single user's XP score.
func (c *LeaderboardCache) Set(ctx context.Context, userID string, xp int) error {
	return c.client.ZAdd(ctx, leaderboardKey, redis.Z{Score: float64(xp), Member: userID}).Err()
}

// Replace swaps the whole ranking for the given scores in one transaction.
func (c *LeaderboardCache) Replace(ctx context.Context, scores map[string]int) error {
	members := make([]redis.Z, 0, len(scores))
	for id, xp := range scores {
		members = append(members, redis.Z{Score: float64(xp), Member: id})
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, leaderboardKey)
	if len(members) > 0 {
		pipe.ZAdd(ctx, leaderboardKey, members...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("leaderboard replace: %w", err)
	}
	return nil
}
