package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/karmic/marketplace/internal/core/domain"
)

const testSecret = "test-secret"

func TestAuth_Register_Defaults(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, testSecret, time.Hour)

	user, err := svc.Register(context.Background(), "alice", "s3cretpass", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.ID == "" {
		t.Error("registered user must get an id")
	}
	if user.Role != domain.RoleMember {
		t.Errorf("default role: expected %q, got %q", domain.RoleMember, user.Role)
	}
	if user.CoinBalance != domain.StartingCoins {
		t.Errorf("starting balance: expected %d, got %d", domain.StartingCoins, user.CoinBalance)
	}
	if user.XPTotal != 0 {
		t.Errorf("starting xp: expected 0, got %d", user.XPTotal)
	}
	if user.Rank != domain.RankNewbie {
		t.Errorf("starting rank: expected %q, got %q", domain.RankNewbie, user.Rank)
	}
}

func TestAuth_Register_HashesPassword(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, testSecret, time.Hour)

	user, err := svc.Register(context.Background(), "alice", "s3cretpass", "")
	if err != nil {
		t.Fatal(err)
	}

	stored, _ := users.FindByID(context.Background(), user.ID)
	if stored.PasswordHash == "s3cretpass" {
		t.Fatal("password must not be stored in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cretpass")) != nil {
		t.Error("stored hash must verify against the original password")
	}
}

func TestAuth_Register_DuplicateUsername(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, testSecret, time.Hour)

	if _, err := svc.Register(context.Background(), "alice", "s3cretpass", ""); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Register(context.Background(), "alice", "otherpass1", "")
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuth_Register_Invalid(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, testSecret, time.Hour)

	cases := []struct {
		name               string
		username, password string
		role               string
	}{
		{"empty username", "", "s3cretpass", ""},
		{"empty password", "alice", "", ""},
		{"made-up role", "alice", "s3cretpass", "superuser"},
	}
	for _, tc := range cases {
		if _, err := svc.Register(context.Background(), tc.username, tc.password, tc.role); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("%s: expected ErrInvalidCredentials, got %v", tc.name, err)
		}
	}
}

func TestAuth_Login_Success(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, testSecret, time.Hour)

	registered, err := svc.Register(context.Background(), "alice", "s3cretpass", domain.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	token, user, err := svc.Login(context.Background(), "alice", "s3cretpass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("expected user %q, got %q", registered.ID, user.ID)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token must parse and validate: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["user_id"] != registered.ID {
		t.Errorf("user_id claim: expected %q, got %v", registered.ID, claims["user_id"])
	}
	if claims["role"] != domain.RoleAdmin {
		t.Errorf("role claim: expected %q, got %v", domain.RoleAdmin, claims["role"])
	}
}

func TestAuth_Login_WrongPassword(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, testSecret, time.Hour)

	if _, err := svc.Register(context.Background(), "alice", "s3cretpass", ""); err != nil {
		t.Fatal(err)
	}
	_, _, err := svc.Login(context.Background(), "alice", "wrongpass")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuth_Login_UnknownUser(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, testSecret, time.Hour)

	_, _, err := svc.Login(context.Background(), "nobody", "whatever1")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
