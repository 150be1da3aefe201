package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/karmic/marketplace/internal/core/domain"
	"github.com/karmic/marketplace/internal/core/ports"
)

// LedgerService wraps the user repository's atomic balance operations with
// amount validation and logging. It is the only component the settlement
// engine moves coins through.
type LedgerService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewLedgerService(users ports.UserRepository, logger zerolog.Logger) *LedgerService {
	return &LedgerService{users: users, logger: logger}
}

// Credit increases the user's coin balance and XP total. The repository
// recomputes and stores the rank derived from the new XP total as part of
// the same operation.
func (l *LedgerService) Credit(ctx context.Context, userID string, coins, xp int) (*domain.User, error) {
	if coins < 0 || xp < 0 {
		return nil, domain.ErrNegativeAmount
	}

	user, err := l.users.Credit(ctx, userID, coins, xp)
	if err != nil {
		return nil, fmt.Errorf("ledger credit: %w", err)
	}

	l.logger.Info().
		Str("user_id", userID).
		Int("coins", coins).
		Int("xp", xp).
		Int("balance", user.CoinBalance).
		Str("rank", string(user.Rank)).
		Msg("ledger credit applied")

	return user, nil
}

// Debit decreases the user's coin balance. The balance guard and the
// decrement are a single atomic repository operation, so a concurrent debit
// can never observe an intermediate balance.
func (l *LedgerService) Debit(ctx context.Context, userID string, coins int) (*domain.User, error) {
	if coins < 0 {
		return nil, domain.ErrNegativeAmount
	}

	user, err := l.users.Debit(ctx, userID, coins)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			return nil, err
		}
		return nil, fmt.Errorf("ledger debit: %w", err)
	}

	l.logger.Info().
		Str("user_id", userID).
		Int("coins", coins).
		Int("balance", user.CoinBalance).
		Msg("ledger debit applied")

	return user, nil
}
