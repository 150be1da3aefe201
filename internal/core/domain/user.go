package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// StartingCoins is granted to every account at registration.
const StartingCoins = 100

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrNegativeAmount = errors.New("ledger amounts must be non-negative")

// User models an account holding the coin balance and XP total. Both are
// mutated only through ledger operations; Rank is always the derived value
// for XPTotal, recomputed on every credit.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CoinBalance  int       `json:"coin_balance"`
	XPTotal      int       `json:"xp_total"`
	Rank         Rank      `json:"rank"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
