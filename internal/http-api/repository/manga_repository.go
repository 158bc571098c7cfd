package repository

import (
	"context"
	"fmt"
	"time"

	"mangapress/internal/http-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mangaCollection = "manga"

type MangaRepository interface {
	Create(ctx context.Context, m *models.Manga) error
	FindByID(ctx context.Context, id string) (*models.Manga, error)
	List(ctx context.Context, offset, limit int) ([]models.Manga, int64, error)
	SearchByTitle(ctx context.Context, title string, offset, limit int) ([]models.Manga, int64, error)
	Update(ctx context.Context, m *models.Manga) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	IncrementLikes(ctx context.Context, id string) error
}

type mangaRepository struct {
	coll *mongo.Collection
}

func NewMangaRepository(db *mongo.Database) MangaRepository {
	return &mangaRepository{coll: db.Collection(mangaCollection)}
}

func (r *mangaRepository) Create(ctx context.Context, m *models.Manga) error {
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert manga: %w", err)
	}
	return nil
}

func (r *mangaRepository) FindByID(ctx context.Context, id string) (*models.Manga, error) {
	var m models.Manga
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find manga: %w", err)
	}
	return &m, nil
}

func (r *mangaRepository) find(ctx context.Context, filter bson.M, offset, limit int) ([]models.Manga, int64, error) {
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count manga: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list manga: %w", err)
	}
	defer cur.Close(ctx)

	var list []models.Manga
	if err := cur.All(ctx, &list); err != nil {
		return nil, 0, fmt.Errorf("decode manga: %w", err)
	}
	return list, total, nil
}

func (r *mangaRepository) List(ctx context.Context, offset, limit int) ([]models.Manga, int64, error) {
	return r.find(ctx, bson.M{}, offset, limit)
}

// SearchByTitle performs a case-insensitive partial match on the title.
func (r *mangaRepository) SearchByTitle(ctx context.Context, title string, offset, limit int) ([]models.Manga, int64, error) {
	filter := bson.M{"title": bson.M{
		"$regex": primitive.Regex{Pattern: regexEscape(title), Options: "i"},
	}}
	return r.find(ctx, filter, offset, limit)
}

func (r *mangaRepository) Update(ctx context.Context, m *models.Manga) error {
	m.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return fmt.Errorf("update manga: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mangaRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete manga: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mangaRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

func (r *mangaRepository) IncrementLikes(ctx context.Context, id string) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"likes": 1}})
	return err
}

// regexEscape neutralizes regex metacharacters in user-supplied search text.
func regexEscape(s string) string {
	const meta = `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(meta); j++ {
			if s[i] == meta[j] {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}
