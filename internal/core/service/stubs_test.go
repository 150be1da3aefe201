package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/karmic/marketplace/internal/core/domain"
	"github.com/karmic/marketplace/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the service tests. The task and user
// stubs enforce the same conditional-update semantics as the Mongo
// implementations, so races behave the way they would against the real store.
// ---------------------------------------------------------------------------

type stubTaskRepo struct {
	mu       sync.Mutex
	byNumber map[string]*domain.Task
	byKey    map[string]*domain.Task

	createErr     error
	transitionErr error
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{
		byNumber: make(map[string]*domain.Task),
		byKey:    make(map[string]*domain.Task),
	}
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *t
	r.byNumber[t.TaskNumber] = &clone
	if t.IdempotencyKey != "" {
		r.byKey[t.IdempotencyKey] = &clone
	}
	return nil
}

func (r *stubTaskRepo) FindByTaskNumber(_ context.Context, taskNumber string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byNumber[taskNumber]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) FindByIdempotencyKey(_ context.Context, key string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byKey[key]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

// Claim mirrors the conditional update of the real repo: it succeeds only
// when the task is still open with no helper assigned.
func (r *stubTaskRepo) Claim(_ context.Context, taskNumber, helperID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byNumber[taskNumber]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if t.HelperID != "" {
		return domain.ErrAlreadyClaimed
	}
	if t.State != domain.StateOpen {
		return domain.ErrInvalidTransition
	}
	t.HelperID = helperID
	t.State = domain.StateClaimed
	t.StateHistory = append(t.StateHistory, domain.StateHistoryEntry{State: domain.StateClaimed, Timestamp: at})
	return nil
}

func (r *stubTaskRepo) Transition(_ context.Context, taskNumber string, from, to domain.TaskState, at time.Time, notes string) error {
	if r.transitionErr != nil {
		return r.transitionErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byNumber[taskNumber]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if t.State != from {
		return domain.ErrInvalidTransition
	}
	t.State = to
	t.StateHistory = append(t.StateHistory, domain.StateHistoryEntry{State: to, Timestamp: at, Notes: notes})
	return nil
}

func (r *stubTaskRepo) List(_ context.Context, f ports.ListTasksFilter) ([]*domain.Task, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*domain.Task
	for _, t := range r.byNumber {
		if f.State != "" && string(t.State) != f.State {
			continue
		}
		if f.RequesterID != "" && t.RequesterID != f.RequesterID {
			continue
		}
		if f.HelperID != "" && t.HelperID != f.HelperID {
			continue
		}
		if f.ExcludeUser != "" && t.RequesterID == f.ExcludeUser {
			continue
		}
		clone := *t
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].TaskNumber < matched[j].TaskNumber
	})

	total := int64(len(matched))
	limit := f.Limit
	if limit <= 0 {
		limit = len(matched)
	}
	skip := (f.Page - 1) * limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return []*domain.Task{}, total, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubTaskRepo) PairExists(_ context.Context, userA, userB string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.byNumber {
		if !t.PairActive() {
			continue
		}
		if (t.RequesterID == userA && t.HelperID == userB) || (t.RequesterID == userB && t.HelperID == userA) {
			return true, nil
		}
	}
	return false, nil
}

// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.User
	seq  int

	credits int // number of Credit calls with a non-zero amount
	debits  int // number of Debit calls

	// creditErrUser fails Credit for one specific user, for exercising the
	// compensating-refund path.
	creditErrUser string
	creditErr     error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) seedUser(id string, coins, xp int) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := &domain.User{
		ID:          id,
		Username:    "user_" + id,
		Role:        domain.RoleMember,
		CoinBalance: coins,
		XPTotal:     xp,
		Rank:        domain.RankFor(xp),
	}
	r.byID[id] = u
	return u
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	clone := *user
	clone.ID = fmt.Sprintf("u%d", r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Credit(_ context.Context, userID string, coins, xp int) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.creditErr != nil && userID == r.creditErrUser {
		return nil, r.creditErr
	}
	u, ok := r.byID[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if coins != 0 || xp != 0 {
		r.credits++
	}
	u.CoinBalance += coins
	u.XPTotal += xp
	u.Rank = domain.RankFor(u.XPTotal)
	clone := *u
	return &clone, nil
}

// Debit applies the balance guard and the decrement under one lock, the way
// the real repo does it in one conditional document update.
func (r *stubUserRepo) Debit(_ context.Context, userID string, coins int) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if u.CoinBalance < coins {
		return nil, domain.ErrInsufficientFunds
	}
	r.debits++
	u.CoinBalance -= coins
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) TopByXP(_ context.Context, limit int) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		clone := *u
		users = append(users, &clone)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].XPTotal != users[j].XPTotal {
			return users[i].XPTotal > users[j].XPTotal
		}
		if users[i].CoinBalance != users[j].CoinBalance {
			return users[i].CoinBalance > users[j].CoinBalance
		}
		return users[i].Username < users[j].Username
	})
	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}
	return users, nil
}

func (r *stubUserRepo) balance(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id].CoinBalance
}

// ---------------------------------------------------------------------------

type stubGuard struct {
	mu      sync.Mutex
	settled map[string]bool
	isErr   error
}

func newStubGuard() *stubGuard {
	return &stubGuard{settled: make(map[string]bool)}
}

func (g *stubGuard) IsSettled(_ context.Context, taskNumber string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.isErr != nil {
		return false, g.isErr
	}
	return g.settled[taskNumber], nil
}

func (g *stubGuard) Mark(_ context.Context, taskNumber string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.settled[taskNumber] = true
	return nil
}

// ---------------------------------------------------------------------------

type stubSink struct {
	mu     sync.Mutex
	events []domain.TaskEvent
}

func (s *stubSink) Enqueue(event domain.TaskEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *stubSink) byType(event string) []domain.TaskEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.TaskEvent
	for _, e := range s.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// ---------------------------------------------------------------------------

type stubMessageRepo struct {
	mu       sync.Mutex
	messages []*domain.Message
	seq      int
}

func (r *stubMessageRepo) Insert(_ context.Context, msg *domain.Message) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *msg
	clone.ID = fmt.Sprintf("m%d", r.seq)
	r.messages = append(r.messages, &clone)
	out := clone
	return &out, nil
}

func (r *stubMessageRepo) ListByTask(_ context.Context, taskNumber string) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Message
	for _, m := range r.messages {
		if m.TaskNumber == taskNumber {
			clone := *m
			out = append(out, &clone)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------

type stubEventRepo struct {
	mu        sync.Mutex
	events    []*domain.TaskEvent
	insertErr error
}

func (r *stubEventRepo) Insert(_ context.Context, event *domain.TaskEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *event
	r.events = append(r.events, &clone)
	return nil
}

func (r *stubEventRepo) ListByTask(_ context.Context, taskNumber string) ([]*domain.TaskEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.TaskEvent
	for _, e := range r.events {
		if e.TaskNumber == taskNumber {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------

type stubCache struct {
	mu     sync.Mutex
	scores map[string]int
	topErr error
	setErr error
}

func newStubCache() *stubCache {
	return &stubCache{scores: make(map[string]int)}
}

func (c *stubCache) TopIDs(_ context.Context, limit int) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.topErr != nil {
		return nil, c.topErr
	}
	type pair struct {
		id    string
		score int
	}
	pairs := make([]pair, 0, len(c.scores))
	for id, score := range c.scores {
		pairs = append(pairs, pair{id, score})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		return pairs[i].id < pairs[j].id
	})
	ids := make([]string, 0, limit)
	for _, p := range pairs {
		if len(ids) == limit {
			break
		}
		ids = append(ids, p.id)
	}
	return ids, nil
}

func (c *stubCache) Set(_ context.Context, userID string, xp int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.scores[userID] = xp
	return nil
}

func (c *stubCache) Replace(_ context.Context, scores map[string]int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scores = make(map[string]int, len(scores))
	for id, score := range scores {
		c.scores[id] = score
	}
	return nil
}
