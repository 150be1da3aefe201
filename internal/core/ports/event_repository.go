package ports

import (
	"context"

	"github.com/karmic/marketplace/internal/core/domain"
)

// EventRepository persists lifecycle events to the task_events audit
// collection. Audit writes are advisory: failures never roll back the
// transition that produced them.
type EventRepository interface {
	Insert(ctx context.Context, event *domain.TaskEvent) error
	ListByTask(ctx context.Context, taskNumber string) ([]*domain.TaskEvent, error)
}

// MessageRepository persists per-task chat messages.
type MessageRepository interface {
	Insert(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	ListByTask(ctx context.Context, taskNumber string) ([]*domain.Message, error)
}
