package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/karmic/marketplace/internal/core/domain"
	"github.com/karmic/marketplace/internal/core/ports"
)

// ChatService stores and serves the per-task message channel. It owns no
// authorization state of its own: the task's requester/helper pair link is
// the only credential.
type ChatService struct {
	tasks    ports.TaskRepository
	messages ports.MessageRepository
	logger   zerolog.Logger
}

func NewChatService(tasks ports.TaskRepository, messages ports.MessageRepository, logger zerolog.Logger) *ChatService {
	return &ChatService{tasks: tasks, messages: messages, logger: logger}
}

// Post appends a message to the task's channel. The sender must be the
// requester or the assigned helper, and the pair must still be active.
func (s *ChatService) Post(ctx context.Context, taskNumber, senderID, content string) (*ports.MessageView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty message", domain.ErrInvalidTransition)
	}

	task, err := s.authorize(ctx, taskNumber, senderID)
	if err != nil {
		return nil, err
	}
	if !task.PairActive() {
		return nil, domain.ErrUnauthorized
	}

	msg, err := s.messages.Insert(ctx, &domain.Message{
		TaskNumber: taskNumber,
		SenderID:   senderID,
		Content:    content,
		SentAt:     time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("post message: %w", err)
	}

	s.logger.Debug().Str("task_number", taskNumber).Str("sender_id", senderID).Msg("message posted")
	return toMessageView(msg), nil
}

// List returns the task's messages in send order. Reading stays available
// after the task reaches a terminal state so the transcript survives
// settlement.
func (s *ChatService) List(ctx context.Context, taskNumber, actorID string) ([]ports.MessageView, error) {
	if _, err := s.authorize(ctx, taskNumber, actorID); err != nil {
		return nil, err
	}

	msgs, err := s.messages.ListByTask(ctx, taskNumber)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	views := make([]ports.MessageView, len(msgs))
	for i, m := range msgs {
		views[i] = *toMessageView(m)
	}
	return views, nil
}

func (s *ChatService) authorize(ctx context.Context, taskNumber, actorID string) (*domain.Task, error) {
	task, err := s.tasks.FindByTaskNumber(ctx, taskNumber)
	if err != nil {
		return nil, err
	}
	if !task.Involves(actorID) {
		return nil, domain.ErrUnauthorized
	}
	return task, nil
}

func toMessageView(m *domain.Message) *ports.MessageView {
	return &ports.MessageView{
		ID:         m.ID,
		TaskNumber: m.TaskNumber,
		SenderID:   m.SenderID,
		Content:    m.Content,
		SentAt:     m.SentAt,
	}
}
