package service

import (
	"context"
	"errors"
	"testing"

	"github.com/karmic/marketplace/internal/core/domain"
)

func TestLedger_Credit_UpdatesBalanceXPAndRank(t *testing.T) {
	users := newStubUserRepo()
	users.seedUser("u1", 100, 5)
	ledger := NewLedgerService(users, discardLogger)

	user, err := ledger.Credit(context.Background(), "u1", 25, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.CoinBalance != 125 {
		t.Errorf("balance: expected 125, got %d", user.CoinBalance)
	}
	if user.XPTotal != 30 {
		t.Errorf("xp: expected 30, got %d", user.XPTotal)
	}
	// 5 + 25 XP crosses the Helper Recruit threshold.
	if user.Rank != domain.RankHelperRecruit {
		t.Errorf("rank: expected %q, got %q", domain.RankHelperRecruit, user.Rank)
	}
}

func TestLedger_Debit_Success(t *testing.T) {
	users := newStubUserRepo()
	users.seedUser("u1", 100, 0)
	ledger := NewLedgerService(users, discardLogger)

	user, err := ledger.Debit(context.Background(), "u1", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.CoinBalance != 40 {
		t.Errorf("balance: expected 40, got %d", user.CoinBalance)
	}
}

func TestLedger_Debit_ExactBalanceAllowed(t *testing.T) {
	users := newStubUserRepo()
	users.seedUser("u1", 50, 0)
	ledger := NewLedgerService(users, discardLogger)

	user, err := ledger.Debit(context.Background(), "u1", 50)
	if err != nil {
		t.Fatalf("debit to zero must be allowed: %v", err)
	}
	if user.CoinBalance != 0 {
		t.Errorf("balance: expected 0, got %d", user.CoinBalance)
	}
}

func TestLedger_Debit_InsufficientFunds(t *testing.T) {
	users := newStubUserRepo()
	users.seedUser("u1", 10, 0)
	ledger := NewLedgerService(users, discardLogger)

	_, err := ledger.Debit(context.Background(), "u1", 25)
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if users.balance("u1") != 10 {
		t.Errorf("failed debit must not change balance, got %d", users.balance("u1"))
	}
}

func TestLedger_NegativeAmountsRejected(t *testing.T) {
	users := newStubUserRepo()
	users.seedUser("u1", 100, 0)
	ledger := NewLedgerService(users, discardLogger)

	if _, err := ledger.Credit(context.Background(), "u1", -5, 0); !errors.Is(err, domain.ErrNegativeAmount) {
		t.Errorf("negative coin credit: expected ErrNegativeAmount, got %v", err)
	}
	if _, err := ledger.Credit(context.Background(), "u1", 0, -5); !errors.Is(err, domain.ErrNegativeAmount) {
		t.Errorf("negative xp credit: expected ErrNegativeAmount, got %v", err)
	}
	if _, err := ledger.Debit(context.Background(), "u1", -5); !errors.Is(err, domain.ErrNegativeAmount) {
		t.Errorf("negative debit: expected ErrNegativeAmount, got %v", err)
	}
	if users.balance("u1") != 100 {
		t.Errorf("rejected amounts must not change balance, got %d", users.balance("u1"))
	}
}

func TestLedger_UnknownUser(t *testing.T) {
	users := newStubUserRepo()
	ledger := NewLedgerService(users, discardLogger)

	if _, err := ledger.Credit(context.Background(), "ghost", 10, 10); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("credit unknown user: expected ErrUserNotFound, got %v", err)
	}
	if _, err := ledger.Debit(context.Background(), "ghost", 10); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("debit unknown user: expected ErrUserNotFound, got %v", err)
	}
}
