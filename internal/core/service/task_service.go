package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/karmic/marketplace/internal/api/metrics"
	"github.com/karmic/marketplace/internal/core/domain"
	"github.com/karmic/marketplace/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type TaskService struct {
	repo   ports.TaskRepository
	logger zerolog.Logger
}

func NewTaskService(repo ports.TaskRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, logger: logger}
}

// CreateTask posts a new help request. The reward policy runs exactly once
// here to freeze the (coins, xp) pair onto the record; no funds move until
// settlement. If an idempotency key is provided and already seen, the
// previously created task is returned without side effects.
func (s *TaskService) CreateTask(ctx context.Context, input ports.CreateTaskInput) (*ports.TaskResult, error) {
	reward, err := domain.RewardFor(domain.Difficulty(input.Difficulty))
	if err != nil {
		return nil, err
	}

	if input.IdempotencyKey != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, input.IdempotencyKey)
		if err == nil && existing != nil {
			s.logger.Info().Str("idempotency_key", input.IdempotencyKey).Str("task_number", existing.TaskNumber).Msg("idempotent replay")
			return &ports.TaskResult{
				TaskNumber:     existing.TaskNumber,
				State:          string(existing.State),
				RewardCoins:    existing.RewardCoins,
				RewardXP:       existing.RewardXP,
				CreatedAt:      existing.CreatedAt,
				AlreadyExisted: true,
			}, nil
		}
	}

	now := time.Now().UTC()
	task := &domain.Task{
		TaskNumber:     generateTaskNumber(),
		RequesterID:    input.RequesterID,
		Title:          input.Title,
		Description:    input.Description,
		Difficulty:     domain.Difficulty(input.Difficulty),
		RewardCoins:    reward.Coins,
		RewardXP:       reward.XP,
		State:          domain.StateOpen,
		CreatedAt:      now,
		IdempotencyKey: input.IdempotencyKey,
		StateHistory: []domain.StateHistoryEntry{
			{State: domain.StateOpen, Timestamp: now},
		},
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.logger.Error().Err(err).Msg("failed to create task")
		return nil, err
	}

	metrics.TasksCreatedTotal.WithLabelValues(string(task.Difficulty)).Inc()
	s.logger.Info().
		Str("task_number", task.TaskNumber).
		Str("requester_id", input.RequesterID).
		Str("difficulty", input.Difficulty).
		Int("reward_coins", reward.Coins).
		Msg("task created")

	return &ports.TaskResult{
		TaskNumber:  task.TaskNumber,
		State:       string(task.State),
		RewardCoins: task.RewardCoins,
		RewardXP:    task.RewardXP,
		CreatedAt:   task.CreatedAt,
	}, nil
}

// GetTask returns the full task view including its lifecycle history.
func (s *TaskService) GetTask(ctx context.Context, taskNumber string) (*ports.TaskDetail, error) {
	task, err := s.repo.FindByTaskNumber(ctx, taskNumber)
	if err != nil {
		return nil, err
	}

	history := make([]ports.StateHistoryItem, len(task.StateHistory))
	for i, h := range task.StateHistory {
		history[i] = ports.StateHistoryItem{
			State:     string(h.State),
			Timestamp: h.Timestamp,
			Notes:     h.Notes,
		}
	}

	return &ports.TaskDetail{
		TaskNumber:   task.TaskNumber,
		RequesterID:  task.RequesterID,
		HelperID:     task.HelperID,
		Title:        task.Title,
		Description:  task.Description,
		Difficulty:   string(task.Difficulty),
		RewardCoins:  task.RewardCoins,
		RewardXP:     task.RewardXP,
		State:        string(task.State),
		CreatedAt:    task.CreatedAt,
		StateHistory: history,
	}, nil
}

// ListTasks returns a page of tasks. Scope "feed" is the open marketplace
// view: open tasks excluding the actor's own; "requested" and "helping" are
// the actor's two sides of the board.
func (s *TaskService) ListTasks(ctx context.Context, input ports.ListTasksInput) (*ports.ListTasksResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := ports.ListTasksFilter{
		State: input.State,
		Page:  page,
		Limit: limit,
	}
	switch input.Scope {
	case "feed":
		filter.State = string(domain.StateOpen)
		filter.ExcludeUser = input.ActorID
	case "requested":
		filter.RequesterID = input.ActorID
	case "helping":
		filter.HelperID = input.ActorID
	}

	tasks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	items := make([]ports.TaskSummary, len(tasks))
	for i, t := range tasks {
		items[i] = ports.TaskSummary{
			TaskNumber:  t.TaskNumber,
			RequesterID: t.RequesterID,
			HelperID:    t.HelperID,
			Title:       t.Title,
			Difficulty:  string(t.Difficulty),
			RewardCoins: t.RewardCoins,
			RewardXP:    t.RewardXP,
			State:       string(t.State),
			CreatedAt:   t.CreatedAt,
		}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListTasksResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// PairLinked is the read-only query the chat boundary consumes: it reports
// whether the two users are linked by any task whose pair is active.
func (s *TaskService) PairLinked(ctx context.Context, userA, userB string) (bool, error) {
	if userA == "" || userB == "" || userA == userB {
		return false, nil
	}
	return s.repo.PairExists(ctx, userA, userB)
}

// generateTaskNumber returns a unique task number in the format KRM-XXXXXXXX.
func generateTaskNumber() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("KRM-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("KRM-%08X", b)
}
