package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/karmic/marketplace/internal/core/domain"
	"github.com/karmic/marketplace/internal/core/ports"
)

const collectionEvents = "task_events"

// EventRepository persists lifecycle audit events.
type EventRepository struct {
	col *mongo.Collection
}

func NewEventRepository(db *mongo.Database) ports.EventRepository {
	return &EventRepository{col: db.Collection(collectionEvents)}
}

type mongoEvent struct {
	TaskNumber  string    `bson:"task_number"`
	Event       string    `bson:"event"`
	ActorID     string    `bson:"actor_id"`
	From        string    `bson:"from"`
	To          string    `bson:"to"`
	Coins       int       `bson:"coins,omitempty"`
	XP          int       `bson:"xp,omitempty"`
	Timestamp   time.Time `bson:"timestamp"`
	ProcessedAt time.Time `bson:"processed_at"`
}

func (r *EventRepository) Insert(ctx context.Context, event *domain.TaskEvent) error {
	doc := mongoEvent{
		TaskNumber:  event.TaskNumber,
		Event:       event.Event,
		ActorID:     event.ActorID,
		From:        string(event.From),
		To:          string(event.To),
		Coins:       event.Coins,
		XP:          event.XP,
		Timestamp:   event.Timestamp.UTC(),
		ProcessedAt: time.Now().UTC(),
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

func (r *EventRepository) ListByTask(ctx context.Context, taskNumber string) ([]*domain.TaskEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"task_number": taskNumber}, opts)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cur.Close(ctx)

	var events []*domain.TaskEvent
	for cur.Next(ctx) {
		var me mongoEvent
		if err := cur.Decode(&me); err != nil {
			return nil, fmt.Errorf("list events: decode: %w", err)
		}
		events = append(events, &domain.TaskEvent{
			TaskNumber: me.TaskNumber,
			Event:      me.Event,
			ActorID:    me.ActorID,
			From:       domain.TaskState(me.From),
			To:         domain.TaskState(me.To),
			Coins:      me.Coins,
			XP:         me.XP,
			Timestamp:  me.Timestamp,
		})
	}
	return events, cur.Err()
}
