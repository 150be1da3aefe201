package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/karmic/marketplace/internal/core/domain"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository on a single users
// collection. Ledger mutations are single-document $inc updates, which is
// what gives each user's balance serializable behaviour without any
// application-level locking.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	CoinBalance  int                `bson:"coin_balance"`
	XPTotal      int                `bson:"xp_total"`
	Rank         string             `bson:"rank"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		CoinBalance:  user.CoinBalance,
		XPTotal:      user.XPTotal,
		Rank:         string(user.Rank),
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}

	_, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	// fetch back to get ID
	return r.FindByUsername(ctx, user.Username)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var mu mongoUser
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomainUser(mu), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var mu mongoUser
	if err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomainUser(mu), nil
}

// Credit applies the $inc and then stores the rank derived from the new XP
// total. Rank is purely derived, so the second write only de-stales the
// stored label; reads that race it still compute the right rank from XP.
func (r *UserRepository) Credit(ctx context.Context, userID string, coins, xp int) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	after := options.After
	update := bson.M{
		"$inc": bson.M{"coin_balance": coins, "xp_total": xp},
		"$set": bson.M{"updated_at": time.Now().UTC().Unix()},
	}

	var mu mongoUser
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(after)).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("credit user: %w", err)
	}

	rank := domain.RankFor(mu.XPTotal)
	if string(rank) != mu.Rank {
		if _, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"rank": string(rank)}}); err != nil {
			return nil, fmt.Errorf("credit user: store rank: %w", err)
		}
	}
	mu.Rank = string(rank)

	return toDomainUser(mu), nil
}

// Debit decrements the balance only when it covers the amount; the guard
// and the decrement are one atomic update, so no intermediate state is ever
// observable.
func (r *UserRepository) Debit(ctx context.Context, userID string, coins int) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	after := options.After
	filter := bson.M{"_id": oid, "coin_balance": bson.M{"$gte": coins}}
	update := bson.M{
		"$inc": bson.M{"coin_balance": -coins},
		"$set": bson.M{"updated_at": time.Now().UTC().Unix()},
	}

	var mu mongoUser
	err = r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(after)).Decode(&mu)
	if err == nil {
		return toDomainUser(mu), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("debit user: %w", err)
	}

	// No match: either the user is gone or the balance fell short.
	if _, findErr := r.FindByID(ctx, userID); findErr != nil {
		return nil, findErr
	}
	return nil, domain.ErrInsufficientFunds
}

// TopByXP returns up to limit users ordered by XP total descending, ties
// broken by coin balance then username.
func (r *UserRepository) TopByXP(ctx context.Context, limit int) ([]*domain.User, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "xp_total", Value: -1},
			{Key: "coin_balance", Value: -1},
			{Key: "username", Value: 1},
		}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("top users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("top users: decode: %w", err)
		}
		users = append(users, toDomainUser(mu))
	}
	return users, cur.Err()
}

// EnsureIndexes creates necessary indexes on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "xp_total", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func toDomainUser(mu mongoUser) *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		PasswordHash: mu.PasswordHash,
		Role:         mu.Role,
		CoinBalance:  mu.CoinBalance,
		XPTotal:      mu.XPTotal,
		Rank:         domain.Rank(mu.Rank),
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
