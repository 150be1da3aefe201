package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/karmic/marketplace/internal/api/metrics"
	"github.com/karmic/marketplace/internal/core/domain"
	"github.com/karmic/marketplace/internal/core/ports"
)

// SettleGuard abstracts the idempotency store (Redis). A mark records that
// the funds for a task have already moved, so a retried approve after a
// failed state write finishes the transition without paying twice.
type SettleGuard interface {
	IsSettled(ctx context.Context, taskNumber string) (bool, error)
	Mark(ctx context.Context, taskNumber string) error
}

// EventSink receives lifecycle audit events off the request path.
type EventSink interface {
	Enqueue(event domain.TaskEvent)
}

const lockStripes = 64

type settlementService struct {
	tasks  ports.TaskRepository
	ledger ports.Ledger
	guard  SettleGuard
	events EventSink
	log    zerolog.Logger

	// locks serialize transitions per task: every transition acquires the
	// stripe its task number hashes to, the same discipline the audit
	// dispatcher uses for worker sharding.
	locks [lockStripes]sync.Mutex
}

// NewSettlementService returns a SettlementService implementation.
func NewSettlementService(
	tasks ports.TaskRepository,
	ledger ports.Ledger,
	guard SettleGuard,
	events EventSink,
	log zerolog.Logger,
) ports.SettlementService {
	return &settlementService{
		tasks:  tasks,
		ledger: ledger,
		guard:  guard,
		events: events,
		log:    log,
	}
}

func (s *settlementService) lockFor(taskNumber string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(taskNumber))
	return &s.locks[int(h.Sum32())%lockStripes]
}

// Claim moves an open task to claimed and assigns the caller as helper.
// First successful claim wins; a requester cannot claim their own task.
func (s *settlementService) Claim(ctx context.Context, in ports.TransitionInput) error {
	mu := s.lockFor(in.TaskNumber)
	mu.Lock()
	defer mu.Unlock()

	task, err := s.tasks.FindByTaskNumber(ctx, in.TaskNumber)
	if err != nil {
		return s.fail("claim", err)
	}
	if task.RequesterID == in.ActorID {
		return s.fail("claim", domain.ErrUnauthorized)
	}

	// The repository claim is conditional on state=open and no helper, so a
	// concurrent claim that slipped past the lock on another instance still
	// yields exactly one winner.
	if err := s.tasks.Claim(ctx, in.TaskNumber, in.ActorID, time.Now().UTC()); err != nil {
		return s.fail("claim", err)
	}

	metrics.TransitionsTotal.WithLabelValues("claim").Inc()
	s.emit(task, "claim", in.ActorID, domain.StateOpen, domain.StateClaimed, 0, 0)
	s.log.Info().Str("task_number", in.TaskNumber).Str("helper_id", in.ActorID).Msg("task claimed")
	return nil
}

// HelperConfirm moves a claimed task to helper_confirmed. Only the assigned
// helper may confirm.
func (s *settlementService) HelperConfirm(ctx context.Context, in ports.TransitionInput) error {
	mu := s.lockFor(in.TaskNumber)
	mu.Lock()
	defer mu.Unlock()

	task, err := s.tasks.FindByTaskNumber(ctx, in.TaskNumber)
	if err != nil {
		return s.fail("helper_confirm", err)
	}
	if task.HelperID != in.ActorID {
		return s.fail("helper_confirm", domain.ErrUnauthorized)
	}
	if !task.State.CanTransitionTo(domain.StateHelperConfirmed) {
		return s.fail("helper_confirm", transitionErr(task.State, domain.StateHelperConfirmed))
	}

	if err := s.tasks.Transition(ctx, in.TaskNumber, domain.StateClaimed, domain.StateHelperConfirmed, time.Now().UTC(), "helper confirmed completion"); err != nil {
		return s.fail("helper_confirm", err)
	}

	metrics.TransitionsTotal.WithLabelValues("helper_confirm").Inc()
	s.emit(task, "helper_confirm", in.ActorID, domain.StateClaimed, domain.StateHelperConfirmed, 0, 0)
	s.log.Info().Str("task_number", in.TaskNumber).Msg("helper confirmed")
	return nil
}

// Approve settles a helper-confirmed task: debit the requester, credit the
// helper, commit the state. This is the only transition that touches the
// ledger and it is all-or-nothing: a failed debit leaves the task in
// helper_confirmed with both balances unchanged.
func (s *settlementService) Approve(ctx context.Context, in ports.TransitionInput) (*ports.SettlementResult, error) {
	start := time.Now()
	result, err := s.approve(ctx, in)
	outcome := "settled"
	if err != nil {
		outcome = "error"
	}
	metrics.SettlementDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return result, err
}

func (s *settlementService) approve(ctx context.Context, in ports.TransitionInput) (*ports.SettlementResult, error) {
	mu := s.lockFor(in.TaskNumber)
	mu.Lock()
	defer mu.Unlock()

	task, err := s.tasks.FindByTaskNumber(ctx, in.TaskNumber)
	if err != nil {
		return nil, s.fail("approve", err)
	}
	if task.RequesterID != in.ActorID {
		return nil, s.fail("approve", domain.ErrUnauthorized)
	}
	if !task.State.CanTransitionTo(domain.StateSettled) {
		return nil, s.fail("approve", transitionErr(task.State, domain.StateSettled))
	}

	// A settle mark with the task still in helper_confirmed means a prior
	// attempt moved the funds but lost the state write. Finish the
	// transition without touching the ledger again.
	settled, guardErr := s.guard.IsSettled(ctx, in.TaskNumber)
	if guardErr != nil {
		s.log.Warn().Err(guardErr).Str("task_number", in.TaskNumber).Msg("settle guard check failed, proceeding")
	}

	var requester, helper *domain.User
	if !settled {
		requester, err = s.ledger.Debit(ctx, task.RequesterID, task.RewardCoins)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientFunds) {
				// Recoverable: the requester can top up and retry.
				return nil, s.fail("approve", err)
			}
			return nil, s.fail("approve", fmt.Errorf("settle %s: %w", in.TaskNumber, err))
		}

		helper, err = s.ledger.Credit(ctx, task.HelperID, task.RewardCoins, task.RewardXP)
		if err != nil {
			// Put the escrowed coins back so no value is destroyed.
			if _, refundErr := s.ledger.Credit(ctx, task.RequesterID, task.RewardCoins, 0); refundErr != nil {
				s.log.Error().Err(refundErr).
					Str("task_number", in.TaskNumber).
					Str("requester_id", task.RequesterID).
					Int("coins", task.RewardCoins).
					Msg("refund after failed credit also failed; balance requires reconciliation")
			}
			return nil, s.fail("approve", fmt.Errorf("settle %s: credit helper: %w", in.TaskNumber, err))
		}

		if markErr := s.guard.Mark(ctx, in.TaskNumber); markErr != nil {
			s.log.Warn().Err(markErr).Str("task_number", in.TaskNumber).Msg("failed to set settle guard")
		}
	} else {
		s.log.Warn().Str("task_number", in.TaskNumber).Msg("funds already moved for task, committing state only")
		if requester, err = s.findUser(ctx, task.RequesterID); err != nil {
			return nil, s.fail("approve", err)
		}
		if helper, err = s.findUser(ctx, task.HelperID); err != nil {
			return nil, s.fail("approve", err)
		}
	}

	if err := s.tasks.Transition(ctx, in.TaskNumber, domain.StateHelperConfirmed, domain.StateSettled, time.Now().UTC(), "requester approved, reward settled"); err != nil {
		// Funds have moved; the guard mark lets a retry complete the commit.
		return nil, s.fail("approve", fmt.Errorf("settle %s: commit state: %w", in.TaskNumber, err))
	}

	metrics.TransitionsTotal.WithLabelValues("approve").Inc()
	metrics.CoinsSettledTotal.Add(float64(task.RewardCoins))
	metrics.XPMintedTotal.Add(float64(task.RewardXP))
	s.emit(task, "approve", in.ActorID, domain.StateHelperConfirmed, domain.StateSettled, task.RewardCoins, task.RewardXP)

	s.log.Info().
		Str("task_number", in.TaskNumber).
		Str("requester_id", task.RequesterID).
		Str("helper_id", task.HelperID).
		Int("coins", task.RewardCoins).
		Int("xp", task.RewardXP).
		Str("helper_rank", string(helper.Rank)).
		Msg("task settled")

	return &ports.SettlementResult{
		TaskNumber:       task.TaskNumber,
		RewardCoins:      task.RewardCoins,
		RewardXP:         task.RewardXP,
		RequesterBalance: requester.CoinBalance,
		HelperBalance:    helper.CoinBalance,
		HelperXPTotal:    helper.XPTotal,
		HelperRank:       string(helper.Rank),
	}, nil
}

// Reject closes a helper-confirmed task without moving funds. Terminal: the
// helper cannot re-confirm and the task cannot be reopened.
func (s *settlementService) Reject(ctx context.Context, in ports.TransitionInput) error {
	mu := s.lockFor(in.TaskNumber)
	mu.Lock()
	defer mu.Unlock()

	task, err := s.tasks.FindByTaskNumber(ctx, in.TaskNumber)
	if err != nil {
		return s.fail("reject", err)
	}
	if task.RequesterID != in.ActorID {
		return s.fail("reject", domain.ErrUnauthorized)
	}
	if !task.State.CanTransitionTo(domain.StateRejected) {
		return s.fail("reject", transitionErr(task.State, domain.StateRejected))
	}

	// A settle mark means a prior approve already moved the reward but lost
	// the state write. Rejecting now would terminate the task with the
	// helper paid, so the only way forward is retrying approve.
	settled, guardErr := s.guard.IsSettled(ctx, in.TaskNumber)
	if guardErr != nil {
		s.log.Warn().Err(guardErr).Str("task_number", in.TaskNumber).Msg("settle guard check failed, proceeding")
	}
	if settled {
		return s.fail("reject", fmt.Errorf("reject %s: %w: reward already paid", in.TaskNumber, domain.ErrInvalidTransition))
	}

	if err := s.tasks.Transition(ctx, in.TaskNumber, domain.StateHelperConfirmed, domain.StateRejected, time.Now().UTC(), "requester rejected completion"); err != nil {
		return s.fail("reject", err)
	}

	metrics.TransitionsTotal.WithLabelValues("reject").Inc()
	s.emit(task, "reject", in.ActorID, domain.StateHelperConfirmed, domain.StateRejected, 0, 0)
	s.log.Info().Str("task_number", in.TaskNumber).Msg("task rejected")
	return nil
}

// Cancel withdraws an open or claimed task. No funds have moved at either
// point, so there is nothing to unwind.
func (s *settlementService) Cancel(ctx context.Context, in ports.TransitionInput) error {
	mu := s.lockFor(in.TaskNumber)
	mu.Lock()
	defer mu.Unlock()

	task, err := s.tasks.FindByTaskNumber(ctx, in.TaskNumber)
	if err != nil {
		return s.fail("cancel", err)
	}
	if task.RequesterID != in.ActorID {
		return s.fail("cancel", domain.ErrUnauthorized)
	}
	if !task.State.CanTransitionTo(domain.StateCancelled) {
		return s.fail("cancel", transitionErr(task.State, domain.StateCancelled))
	}

	if err := s.tasks.Transition(ctx, in.TaskNumber, task.State, domain.StateCancelled, time.Now().UTC(), "requester cancelled"); err != nil {
		return s.fail("cancel", err)
	}

	metrics.TransitionsTotal.WithLabelValues("cancel").Inc()
	s.emit(task, "cancel", in.ActorID, task.State, domain.StateCancelled, 0, 0)
	s.log.Info().Str("task_number", in.TaskNumber).Msg("task cancelled")
	return nil
}

// findUser reads a user through the ledger's zero-amount credit, which
// returns the current document without changing it.
func (s *settlementService) findUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.ledger.Credit(ctx, userID, 0, 0)
}

func (s *settlementService) emit(task *domain.Task, event, actorID string, from, to domain.TaskState, coins, xp int) {
	if s.events == nil {
		return
	}
	helperID := task.HelperID
	if event == "claim" {
		helperID = actorID
	}
	s.events.Enqueue(domain.TaskEvent{
		TaskNumber: task.TaskNumber,
		Event:      event,
		ActorID:    actorID,
		HelperID:   helperID,
		From:       from,
		To:         to,
		Coins:      coins,
		XP:         xp,
		Timestamp:  time.Now().UTC(),
	})
}

func (s *settlementService) fail(event string, err error) error {
	metrics.TransitionErrorsTotal.WithLabelValues(event, failReason(err)).Inc()
	return err
}

func failReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrAlreadyClaimed):
		return "already_claimed"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrTaskNotFound):
		return "not_found"
	default:
		return "storage"
	}
}

func transitionErr(from, to domain.TaskState) error {
	return fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, from, to)
}
