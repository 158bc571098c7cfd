package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const processedEventCollection = "processed_events"

// ProcessedEventRepository records payment-provider event ids that have
// already been handled. Providers redeliver webhooks; inserting the
// event id (as _id, so uniqueness is structural) inside the same
// transaction as the credit guarantees a replayed delivery credits
// nothing a second time.
type ProcessedEventRepository interface {
	// MarkProcessed inserts the event id, returning ErrDuplicate when it
	// was already recorded.
	MarkProcessed(ctx context.Context, eventID string) error
}

type processedEvent struct {
	ID          string    `bson:"_id"`
	ProcessedAt time.Time `bson:"processed_at"`
}

type processedEventRepository struct {
	coll *mongo.Collection
}

func NewProcessedEventRepository(db *mongo.Database) ProcessedEventRepository {
	return &processedEventRepository{coll: db.Collection(processedEventCollection)}
}

func (r *processedEventRepository) MarkProcessed(ctx context.Context, eventID string) error {
	doc := processedEvent{ID: eventID, ProcessedAt: time.Now().UTC()}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("mark event processed: %w", err)
	}
	return nil
}
