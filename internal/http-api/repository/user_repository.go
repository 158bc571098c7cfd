package repository

import (
	"context"
	"fmt"
	"time"

	"mangapress/internal/http-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userCollection = "users"

// UserRepository defines data operations on the users collection.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
	List(ctx context.Context, offset, limit int) ([]models.User, int64, error)
	UpdateNickname(ctx context.Context, id, nickname string) error
	SetRole(ctx context.Context, id string, role models.Role) error
	SetVerified(ctx context.Context, id string, verified bool) error
	IncrementCoins(ctx context.Context, id string, amount int64) error
	DecrementCoins(ctx context.Context, id string, amount int64) error
	AddFollow(ctx context.Context, followerID, followeeID string) error
	RemoveFollow(ctx context.Context, followerID, followeeID string) error
}

type userRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a UserRepository backed by MongoDB.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{coll: db.Collection(userCollection)}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	users := make([]models.User, 0, len(ids))
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (r *userRepository) List(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", err)
	}
	return users, total, nil
}

func (r *userRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdateNickname(ctx context.Context, id, nickname string) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{"nickname": nickname, "updated_at": time.Now().UTC()},
	})
}

func (r *userRepository) SetRole(ctx context.Context, id string, role models.Role) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{"role": role, "updated_at": time.Now().UTC()},
	})
}

func (r *userRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{"is_verified": verified, "updated_at": time.Now().UTC()},
	})
}

func (r *userRepository) IncrementCoins(ctx context.Context, id string, amount int64) error {
	return r.updateOne(ctx, id, bson.M{"$inc": bson.M{"coins": amount}})
}

// DecrementCoins atomically takes amount coins from the user. The filter
// requires coins >= amount, so the balance can never go negative: a user
// without funds simply matches no document.
func (r *userRepository) DecrementCoins(ctx context.Context, id string, amount int64) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "coins": bson.M{"$gte": amount}},
		bson.M{"$inc": bson.M{"coins": -amount}},
	)
	if err != nil {
		return fmt.Errorf("debit user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

// AddFollow records the edge on both sides. $addToSet keeps the sets
// duplicate-free even if the request is replayed.
func (r *userRepository) AddFollow(ctx context.Context, followerID, followeeID string) error {
	if err := r.updateOne(ctx, followerID, bson.M{"$addToSet": bson.M{"following": followeeID}}); err != nil {
		return err
	}
	return r.updateOne(ctx, followeeID, bson.M{"$addToSet": bson.M{"followers": followerID}})
}

func (r *userRepository) RemoveFollow(ctx context.Context, followerID, followeeID string) error {
	if err := r.updateOne(ctx, followerID, bson.M{"$pull": bson.M{"following": followeeID}}); err != nil {
		return err
	}
	return r.updateOne(ctx, followeeID, bson.M{"$pull": bson.M{"followers": followerID}})
}
