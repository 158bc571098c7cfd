package repository

import (
	"context"
	"fmt"

	"mangapress/internal/http-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const commentCollection = "comments"

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id string) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id string) error
	ListByManga(ctx context.Context, mangaID string, offset, limit int) ([]models.Comment, int64, error)
}

type commentRepository struct {
	coll *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) CommentRepository {
	return &commentRepository{coll: db.Collection(commentCollection)}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if _, err := r.coll.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return &c, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": comment.ID}, comment)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *commentRepository) ListByManga(ctx context.Context, mangaID string, offset, limit int) ([]models.Comment, int64, error) {
	filter := bson.M{"manga_id": mangaID}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer cur.Close(ctx)

	var list []models.Comment
	if err := cur.All(ctx, &list); err != nil {
		return nil, 0, fmt.Errorf("decode comments: %w", err)
	}
	return list, total, nil
}
