package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mangapress/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// ConnectMongo establishes a MongoDB client, verifies connectivity with
// a ping, creates the indexes the API relies on, and returns the client
// and selected database.
func ConnectMongo(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.MongoDB)
	if err := ensureIndexes(connectCtx, db); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("ensure indexes: %w", err)
	}

	logger.Info("connected to mongodb", "database", cfg.MongoDB)
	return client, db, nil
}

// ensureIndexes creates the indexes the handlers assume. The unique
// indexes on users are behaviorally load-bearing: duplicate-key errors
// are how registration detects an email or username already in use.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}

	chapterIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "manga_id", Value: 1}, {Key: "number", Value: -1}}},
	}
	if _, err := db.Collection("chapters").Indexes().CreateMany(ctx, chapterIndexes); err != nil {
		return fmt.Errorf("chapter indexes: %w", err)
	}

	txIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := db.Collection("transactions").Indexes().CreateMany(ctx, txIndexes); err != nil {
		return fmt.Errorf("transaction indexes: %w", err)
	}

	commentIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "manga_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := db.Collection("comments").Indexes().CreateMany(ctx, commentIndexes); err != nil {
		return fmt.Errorf("comment indexes: %w", err)
	}

	notificationIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "read", Value: 1}}},
	}
	if _, err := db.Collection("notifications").Indexes().CreateMany(ctx, notificationIndexes); err != nil {
		return fmt.Errorf("notification indexes: %w", err)
	}

	return nil
}
