package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const guardTTL = 24 * time.Hour

// SettlementGuard records that the funds for a task have moved, backed by
// Redis. The mark survives a failed task-state write, so a retried approve
// can finish the transition without paying twice.
// Key format: settle:<task_number>
type SettlementGuard struct {
	client *redis.Client
}

// NewSettlementGuard creates a SettlementGuard wrapping the given Redis client.
func NewSettlementGuard(client *redis.Client) *SettlementGuard {
	return &SettlementGuard{client: client}
}

// IsSettled reports whether this task's reward has already been paid out.
func (g *SettlementGuard) IsSettled(ctx context.Context, taskNumber string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(taskNumber)).Result()
	if err != nil {
		return false, fmt.Errorf("settle guard check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this task's reward has been paid out (expires after guardTTL).
func (g *SettlementGuard) Mark(ctx context.Context, taskNumber string) error {
	return g.client.Set(ctx, g.key(taskNumber), "1", guardTTL).Err()
}

func (g *SettlementGuard) key(taskNumber string) string {
	return fmt.Sprintf("settle:%s", taskNumber)
}
