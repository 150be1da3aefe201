package domain

import (
	"errors"
	"time"
)

// TaskState represents the lifecycle state of a help request.
type TaskState string

const (
	StateOpen            TaskState = "open"
	StateClaimed         TaskState = "claimed"
	StateHelperConfirmed TaskState = "helper_confirmed"
	StateSettled         TaskState = "settled"
	StateCancelled       TaskState = "cancelled"
	StateRejected        TaskState = "rejected"
)

// validTransitions defines the allowed state machine transitions.
// Settled, cancelled and rejected are terminal: no transition leaves them.
var validTransitions = map[TaskState][]TaskState{
	StateOpen:            {StateClaimed, StateCancelled},
	StateClaimed:         {StateHelperConfirmed, StateCancelled},
	StateHelperConfirmed: {StateSettled, StateRejected},
}

var ErrTaskNotFound = errors.New("task not found")
var ErrInvalidTransition = errors.New("invalid state transition")
var ErrAlreadyClaimed = errors.New("task already claimed")
var ErrUnauthorized = errors.New("actor not authorized for this transition")
var ErrInsufficientFunds = errors.New("insufficient coin balance")

// CanTransitionTo reports whether a transition from the current state to next is valid.
func (s TaskState) CanTransitionTo(next TaskState) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition can leave the state.
func (s TaskState) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// StateHistoryEntry records a single lifecycle transition on a task.
type StateHistoryEntry struct {
	State     TaskState `json:"state" bson:"state"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Task is the core aggregate root: a help request backed by a frozen reward.
// RewardCoins and RewardXP are fixed at creation by the reward policy and
// never change afterwards. HelperID is set exactly once, on the first
// successful claim.
type Task struct {
	ID             string              `json:"id" bson:"_id,omitempty"`
	TaskNumber     string              `json:"task_number" bson:"task_number"`
	RequesterID    string              `json:"requester_id" bson:"requester_id"`
	HelperID       string              `json:"helper_id,omitempty" bson:"helper_id,omitempty"`
	Title          string              `json:"title" bson:"title"`
	Description    string              `json:"description" bson:"description"`
	Difficulty     Difficulty          `json:"difficulty" bson:"difficulty"`
	RewardCoins    int                 `json:"reward_coins" bson:"reward_coins"`
	RewardXP       int                 `json:"reward_xp" bson:"reward_xp"`
	State          TaskState           `json:"state" bson:"state"`
	CreatedAt      time.Time           `json:"created_at" bson:"created_at"`
	IdempotencyKey string              `json:"idempotency_key,omitempty" bson:"idempotency_key,omitempty"`
	StateHistory   []StateHistoryEntry `json:"state_history" bson:"state_history"`
}

// PairActive reports whether the task currently links a requester/helper
// pair, which is what authorizes the per-task chat channel.
func (t *Task) PairActive() bool {
	return t.HelperID != "" && (t.State == StateClaimed || t.State == StateHelperConfirmed)
}

// Involves reports whether userID is the requester or the assigned helper.
func (t *Task) Involves(userID string) bool {
	return userID != "" && (t.RequesterID == userID || t.HelperID == userID)
}
