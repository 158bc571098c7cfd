package repository

import (
	"context"
	"fmt"

	"mangapress/internal/http-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const transactionCollection = "transactions"

// TransactionRepository appends to and reads the coin ledger. The
// ledger is append-only: this interface deliberately has no update or
// delete method.
type TransactionRepository interface {
	Insert(ctx context.Context, tx *models.Transaction) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.Transaction, int64, error)
}

type transactionRepository struct {
	coll *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) TransactionRepository {
	return &transactionRepository{coll: db.Collection(transactionCollection)}
}

func (r *transactionRepository) Insert(ctx context.Context, tx *models.Transaction) error {
	if _, err := r.coll.InsertOne(ctx, tx); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.Transaction, int64, error) {
	filter := bson.M{"user_id": userID}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer cur.Close(ctx)

	var list []models.Transaction
	if err := cur.All(ctx, &list); err != nil {
		return nil, 0, fmt.Errorf("decode transactions: %w", err)
	}
	return list, total, nil
}
