package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/karmic/marketplace/internal/core/domain"
)

func auditEvent(event, helperID string) domain.TaskEvent {
	return domain.TaskEvent{
		TaskNumber: "KRM-AUDIT001",
		Event:      event,
		ActorID:    "req1",
		HelperID:   helperID,
		From:       domain.StateHelperConfirmed,
		To:         domain.StateSettled,
		Coins:      25,
		XP:         25,
		Timestamp:  time.Now().UTC(),
	}
}

func TestAudit_Process_PersistsEvent(t *testing.T) {
	events := &stubEventRepo{}
	users := newStubUserRepo()
	svc := NewAuditService(events, users, nil, discardLogger)

	if err := svc.Process(context.Background(), auditEvent("claim", "helper1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := events.ListByTask(context.Background(), "KRM-AUDIT001")
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(stored))
	}
	if stored[0].Event != "claim" {
		t.Errorf("expected event claim, got %q", stored[0].Event)
	}
}

func TestAudit_Process_ApproveUpdatesRankingCache(t *testing.T) {
	events := &stubEventRepo{}
	users := newStubUserRepo()
	users.seedUser("helper1", 125, 25)
	cache := newStubCache()
	leaderboard := NewLeaderboardService(users, cache, discardLogger)
	svc := NewAuditService(events, users, leaderboard, discardLogger)

	if err := svc.Process(context.Background(), auditEvent("approve", "helper1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cache.scores["helper1"] != 25 {
		t.Errorf("approve must record the helper's xp in the cache, got %d", cache.scores["helper1"])
	}
}

func TestAudit_Process_NonApproveSkipsCache(t *testing.T) {
	events := &stubEventRepo{}
	users := newStubUserRepo()
	users.seedUser("helper1", 100, 25)
	cache := newStubCache()
	leaderboard := NewLeaderboardService(users, cache, discardLogger)
	svc := NewAuditService(events, users, leaderboard, discardLogger)

	for _, ev := range []string{"claim", "helper_confirm", "reject", "cancel"} {
		if err := svc.Process(context.Background(), auditEvent(ev, "helper1")); err != nil {
			t.Fatalf("%s: %v", ev, err)
		}
	}
	if len(cache.scores) != 0 {
		t.Errorf("only approve events update the cache, got %v", cache.scores)
	}
}

func TestAudit_Process_MissingHelperNonFatal(t *testing.T) {
	events := &stubEventRepo{}
	users := newStubUserRepo()
	cache := newStubCache()
	leaderboard := NewLeaderboardService(users, cache, discardLogger)
	svc := NewAuditService(events, users, leaderboard, discardLogger)

	// The event still lands in the audit trail even when the account is gone.
	if err := svc.Process(context.Background(), auditEvent("approve", "ghost")); err != nil {
		t.Fatalf("missing helper must not fail the write: %v", err)
	}
	stored, _ := events.ListByTask(context.Background(), "KRM-AUDIT001")
	if len(stored) != 1 {
		t.Error("event must be persisted")
	}
}

func TestAudit_Process_InsertFailure(t *testing.T) {
	events := &stubEventRepo{insertErr: errors.New("db unavailable")}
	users := newStubUserRepo()
	svc := NewAuditService(events, users, nil, discardLogger)

	if err := svc.Process(context.Background(), auditEvent("claim", "helper1")); err == nil {
		t.Fatal("expected error when insert fails")
	}
}
