package ports

import (
	"context"

	"github.com/karmic/marketplace/internal/core/domain"
)

// UserRepository defines persistence for accounts and their balances. Credit
// and Debit are the only balance mutators in the system; both are atomic
// single-document operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// Credit increments the coin balance and XP total and stores the rank
	// derived from the new total. Returns the updated user.
	Credit(ctx context.Context, userID string, coins, xp int) (*domain.User, error)

	// Debit decrements the coin balance. The balance check and the decrement
	// are one atomic operation; domain.ErrInsufficientFunds is returned
	// without any intermediate state when the balance is too low.
	Debit(ctx context.Context, userID string, coins int) (*domain.User, error)

	// TopByXP returns up to limit users ordered by XP total descending,
	// ties broken by coin balance then username.
	TopByXP(ctx context.Context, limit int) ([]*domain.User, error)
}
