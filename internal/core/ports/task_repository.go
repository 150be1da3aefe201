package ports

import (
	"context"
	"time"

	"github.com/karmic/marketplace/internal/core/domain"
)

// ListTasksFilter carries all query parameters for listing tasks.
type ListTasksFilter struct {
	State       string // optional: filter by lifecycle state
	RequesterID string // optional: tasks posted by this user
	HelperID    string // optional: tasks claimed by this user
	ExcludeUser string // optional: hide tasks posted by this user (open feed)
	Page        int    // 1-based
	Limit       int    // max rows per page (capped at 100 by service)
}

// TaskRepository defines persistence operations for tasks. Claim and
// Transition are conditional single-document updates: they succeed only when
// the task is still in the expected state, which is what makes concurrent
// transitions yield exactly one winner.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	FindByTaskNumber(ctx context.Context, taskNumber string) (*domain.Task, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Task, error)

	// Claim atomically moves an open, unassigned task to claimed and sets
	// the helper. Returns domain.ErrAlreadyClaimed when another helper won
	// the race, domain.ErrInvalidTransition when the task left the open
	// state, domain.ErrTaskNotFound when it does not exist.
	Claim(ctx context.Context, taskNumber, helperID string, at time.Time) error

	// Transition atomically swaps the state from `from` to `to` and appends
	// a history entry. Returns domain.ErrInvalidTransition when the task is
	// no longer in `from`.
	Transition(ctx context.Context, taskNumber string, from, to domain.TaskState, at time.Time, notes string) error

	// List returns a page of tasks matching filter and the total count.
	List(ctx context.Context, filter ListTasksFilter) ([]*domain.Task, int64, error)

	// PairExists reports whether any task in a pair-active state links the
	// two users as requester and helper, in either orientation.
	PairExists(ctx context.Context, userA, userB string) (bool, error)
}
