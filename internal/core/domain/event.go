package domain

import "time"

// TaskEvent is the audit record emitted for every lifecycle transition.
// Settlement events additionally carry the amounts that moved.
type TaskEvent struct {
	TaskNumber string
	Event      string
	ActorID    string
	HelperID   string
	From       TaskState
	To         TaskState
	Coins      int
	XP         int
	Timestamp  time.Time
}

// Message is a single chat message exchanged over a task's channel.
type Message struct {
	ID         string    `json:"id"`
	TaskNumber string    `json:"task_number"`
	SenderID   string    `json:"sender_id"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sent_at"`
}
