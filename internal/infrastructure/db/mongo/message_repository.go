package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/karmic/marketplace/internal/core/domain"
)

const collectionMessages = "task_messages"

// MessageRepository implements ports.MessageRepository.
type MessageRepository struct {
	col *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{col: db.Collection(collectionMessages)}
}

type mongoMessage struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	TaskNumber string             `bson:"task_number"`
	SenderID   string             `bson:"sender_id"`
	Content    string             `bson:"content"`
	SentAt     time.Time          `bson:"sent_at"`
}

func (r *MessageRepository) Insert(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoMessage{
		TaskNumber: msg.TaskNumber,
		SenderID:   msg.SenderID,
		Content:    msg.Content,
		SentAt:     msg.SentAt.UTC(),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	stored := *msg
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		stored.ID = oid.Hex()
	}
	return &stored, nil
}

func (r *MessageRepository) ListByTask(ctx context.Context, taskNumber string) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sent_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"task_number": taskNumber}, opts)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cur.Close(ctx)

	var msgs []*domain.Message
	for cur.Next(ctx) {
		var mm mongoMessage
		if err := cur.Decode(&mm); err != nil {
			return nil, fmt.Errorf("list messages: decode: %w", err)
		}
		msgs = append(msgs, &domain.Message{
			ID:         mm.ID.Hex(),
			TaskNumber: mm.TaskNumber,
			SenderID:   mm.SenderID,
			Content:    mm.Content,
			SentAt:     mm.SentAt,
		})
	}
	return msgs, cur.Err()
}

// EnsureIndexes creates necessary indexes on the task_messages collection.
func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "task_number", Value: 1}, {Key: "sent_at", Value: 1}},
	})
	return err
}
