package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/karmic/marketplace/internal/core/domain"
	"github.com/karmic/marketplace/internal/core/ports"
)

const collectionTasks = "tasks"

// TaskRepository implements ports.TaskRepository. Claim and Transition use
// guarded single-document updates: the filter carries the expected current
// state, so of any number of concurrent callers exactly one matches.
type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTasks)}
}

// Create inserts a new task document.
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, t)
	return err
}

// FindByTaskNumber retrieves a task by task number.
func (r *TaskRepository) FindByTaskNumber(ctx context.Context, taskNumber string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Task
	err := r.col.FindOne(ctx, bson.M{"task_number": taskNumber}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByIdempotencyKey retrieves an existing task created with the given key.
func (r *TaskRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Task
	err := r.col.FindOne(ctx, bson.M{"idempotency_key": key}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Claim atomically assigns the helper to an open, unassigned task. The
// filter admits exactly one winner; losers are classified by re-reading the
// document.
func (r *TaskRepository) Claim(ctx context.Context, taskNumber, helperID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"task_number": taskNumber,
		"state":       string(domain.StateOpen),
		"helper_id":   bson.M{"$exists": false},
	}
	update := bson.M{
		"$set": bson.M{
			"state":     string(domain.StateClaimed),
			"helper_id": helperID,
		},
		"$push": bson.M{"state_history": bson.M{
			"state":     string(domain.StateClaimed),
			"timestamp": at.UTC(),
			"notes":     "claimed by helper",
		}},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("claim task: %w", err)
	}
	if res.ModifiedCount == 1 {
		return nil
	}

	task, err := r.FindByTaskNumber(ctx, taskNumber)
	if err != nil {
		return err
	}
	if task.HelperID != "" {
		return domain.ErrAlreadyClaimed
	}
	return fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, task.State, domain.StateClaimed)
}

// Transition atomically swaps the state from `from` to `to` and appends a
// history entry.
func (r *TaskRepository) Transition(ctx context.Context, taskNumber string, from, to domain.TaskState, at time.Time, notes string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"task_number": taskNumber, "state": string(from)}
	update := bson.M{
		"$set": bson.M{"state": string(to)},
		"$push": bson.M{"state_history": bson.M{
			"state":     string(to),
			"timestamp": at.UTC(),
			"notes":     notes,
		}},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("transition task: %w", err)
	}
	if res.ModifiedCount == 1 {
		return nil
	}

	task, err := r.FindByTaskNumber(ctx, taskNumber)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, task.State, to)
}

// List returns a page of tasks matching filter and the total count, newest
// first.
func (r *TaskRepository) List(ctx context.Context, f ports.ListTasksFilter) ([]*domain.Task, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.State != "" {
		filter["state"] = f.State
	}
	if f.RequesterID != "" {
		filter["requester_id"] = f.RequesterID
	}
	if f.HelperID != "" {
		filter["helper_id"] = f.HelperID
	}
	if f.ExcludeUser != "" {
		filter["requester_id"] = bson.M{"$ne": f.ExcludeUser}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer cur.Close(ctx)

	var tasks []*domain.Task
	for cur.Next(ctx) {
		var t domain.Task
		if err := cur.Decode(&t); err != nil {
			return nil, 0, fmt.Errorf("list tasks: decode: %w", err)
		}
		tasks = append(tasks, &t)
	}
	return tasks, total, cur.Err()
}

// PairExists reports whether any pair-active task links the two users.
func (r *TaskRepository) PairExists(ctx context.Context, userA, userB string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"state": bson.M{"$in": []string{
			string(domain.StateClaimed),
			string(domain.StateHelperConfirmed),
		}},
		"$or": []bson.M{
			{"requester_id": userA, "helper_id": userB},
			{"requester_id": userB, "helper_id": userA},
		},
	}

	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("pair exists: %w", err)
	}
	return n > 0, nil
}

// EnsureIndexes creates necessary indexes on the tasks collection.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "task_number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "requester_id", Value: 1}, {Key: "state", Value: 1}}},
		{Keys: bson.D{{Key: "helper_id", Value: 1}, {Key: "state", Value: 1}}},
		{Keys: bson.D{{Key: "idempotency_key", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
