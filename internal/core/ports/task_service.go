package ports

import (
	"context"
	"time"

	"github.com/karmic/marketplace/internal/core/domain"
)

// CreateTaskInput carries all data needed to post a new help request.
type CreateTaskInput struct {
	RequesterID    string
	Title          string
	Description    string
	Difficulty     string
	IdempotencyKey string
}

// TaskResult is returned by the service after creating a task.
type TaskResult struct {
	TaskNumber  string
	State       string
	RewardCoins int
	RewardXP    int
	CreatedAt   time.Time
	// AlreadyExisted is true when the Idempotency-Key matched an existing task.
	AlreadyExisted bool
}

// StateHistoryItem is a single entry in the task's lifecycle history.
type StateHistoryItem struct {
	State     string
	Timestamp time.Time
	Notes     string
}

// TaskDetail is the full task view returned by GetTask.
type TaskDetail struct {
	TaskNumber   string
	RequesterID  string
	HelperID     string
	Title        string
	Description  string
	Difficulty   string
	RewardCoins  int
	RewardXP     int
	State        string
	CreatedAt    time.Time
	StateHistory []StateHistoryItem
}

// ListTasksInput carries all parameters for the list endpoint.
type ListTasksInput struct {
	ActorID string
	State   string
	Scope   string // "", "requested", "helping", "feed"
	Page    int
	Limit   int
}

// TaskSummary is the lightweight view used in list responses.
type TaskSummary struct {
	TaskNumber  string
	RequesterID string
	HelperID    string
	Title       string
	Difficulty  string
	RewardCoins int
	RewardXP    int
	State       string
	CreatedAt   time.Time
}

// ListTasksResult is returned by ListTasks.
type ListTasksResult struct {
	Items      []TaskSummary
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TaskService defines the task store use cases: creation with the frozen
// reward, reads, and the pair-link query the chat boundary consumes.
type TaskService interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*TaskResult, error)
	GetTask(ctx context.Context, taskNumber string) (*TaskDetail, error)
	ListTasks(ctx context.Context, input ListTasksInput) (*ListTasksResult, error)

	// PairLinked reports whether the two users are requester and helper on
	// any task whose pair is currently active (claimed or helper_confirmed).
	PairLinked(ctx context.Context, userA, userB string) (bool, error)
}

// TransitionInput identifies a lifecycle transition attempt: which task and
// which authenticated actor requested it.
type TransitionInput struct {
	TaskNumber string
	ActorID    string
}

// SettlementResult reports the balances after a successful settlement.
type SettlementResult struct {
	TaskNumber       string
	RewardCoins      int
	RewardXP         int
	RequesterBalance int
	HelperBalance    int
	HelperXPTotal    int
	HelperRank       string
}

// SettlementService is the lifecycle state machine engine. Every method is a
// single serialized transition; the approve transition is the only one that
// touches the ledger.
type SettlementService interface {
	Claim(ctx context.Context, input TransitionInput) error
	HelperConfirm(ctx context.Context, input TransitionInput) error
	Approve(ctx context.Context, input TransitionInput) (*SettlementResult, error)
	Reject(ctx context.Context, input TransitionInput) error
	Cancel(ctx context.Context, input TransitionInput) error
}

// Ledger exposes the two atomic balance operations the settlement engine
// uses. Implementations must apply each call exactly once.
type Ledger interface {
	Credit(ctx context.Context, userID string, coins, xp int) (*domain.User, error)
	Debit(ctx context.Context, userID string, coins int) (*domain.User, error)
}
