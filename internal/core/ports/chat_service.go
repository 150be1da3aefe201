package ports

import (
	"context"
	"time"
)

// MessageView is the chat message shape returned to the transport layer.
type MessageView struct {
	ID         string
	TaskNumber string
	SenderID   string
	Content    string
	SentAt     time.Time
}

// ChatService stores and serves per-task messages. Authorization comes from
// the task pair link: only the requester and the assigned helper of an
// active task may use the channel.
type ChatService interface {
	Post(ctx context.Context, taskNumber, senderID, content string) (*MessageView, error)
	List(ctx context.Context, taskNumber, actorID string) ([]MessageView, error)
}

// LeaderboardEntry is the read-only projection consumed by the UI.
type LeaderboardEntry struct {
	UserID   string
	Username string
	XPTotal  int
	Rank     string
}

// LeaderboardService serves the XP-descending projection. Top reads the
// cached ranking; Rebuild repopulates the cache from primary storage.
type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	Rebuild(ctx context.Context) error
}
