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

const chapterCollection = "chapters"

type ChapterRepository interface {
	Create(ctx context.Context, ch *models.Chapter) error
	FindByID(ctx context.Context, id string) (*models.Chapter, error)
	// ListByManga returns a page of a manga's chapters sorted by
	// descending number, then descending creation time. When
	// publishedOnly is set, chapters whose publish date is after now are
	// excluded; chapters without a publish date are always included.
	ListByManga(ctx context.Context, mangaID string, publishedOnly bool, now time.Time, offset, limit int) ([]models.Chapter, int64, error)
	Update(ctx context.Context, ch *models.Chapter) error
	Delete(ctx context.Context, id string) error
	DeleteByManga(ctx context.Context, mangaID string) error
	IncrementViews(ctx context.Context, id string) error
}

type chapterRepository struct {
	coll *mongo.Collection
}

func NewChapterRepository(db *mongo.Database) ChapterRepository {
	return &chapterRepository{coll: db.Collection(chapterCollection)}
}

func (r *chapterRepository) Create(ctx context.Context, ch *models.Chapter) error {
	if _, err := r.coll.InsertOne(ctx, ch); err != nil {
		return fmt.Errorf("insert chapter: %w", err)
	}
	return nil
}

func (r *chapterRepository) FindByID(ctx context.Context, id string) (*models.Chapter, error) {
	var ch models.Chapter
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ch); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find chapter: %w", err)
	}
	return &ch, nil
}

func (r *chapterRepository) ListByManga(ctx context.Context, mangaID string, publishedOnly bool, now time.Time, offset, limit int) ([]models.Chapter, int64, error) {
	filter := bson.M{"manga_id": mangaID}
	if publishedOnly {
		filter["$or"] = bson.A{
			bson.M{"publish_date": bson.M{"$exists": false}},
			bson.M{"publish_date": bson.M{"$lte": now}},
		}
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count chapters: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "number", Value: -1}, {Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list chapters: %w", err)
	}
	defer cur.Close(ctx)

	var list []models.Chapter
	if err := cur.All(ctx, &list); err != nil {
		return nil, 0, fmt.Errorf("decode chapters: %w", err)
	}
	return list, total, nil
}

func (r *chapterRepository) Update(ctx context.Context, ch *models.Chapter) error {
	ch.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": ch.ID}, ch)
	if err != nil {
		return fmt.Errorf("update chapter: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *chapterRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete chapter: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *chapterRepository) DeleteByManga(ctx context.Context, mangaID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"manga_id": mangaID})
	if err != nil {
		return fmt.Errorf("delete chapters: %w", err)
	}
	return nil
}

func (r *chapterRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}
