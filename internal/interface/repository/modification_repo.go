package repository

import (
	"context"
	"fmt"

	"bookingdesk/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoModificationRepository implements the ModificationRepository interface
type MongoModificationRepository struct {
	collection *mongo.Collection
}

func NewMongoModificationRepository(db *mongo.Database) *MongoModificationRepository {
	return &MongoModificationRepository{
		collection: db.Collection(modificationsCollection),
	}
}

func (r *MongoModificationRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.collection,
		index(bson.D{{Key: "booking_id", Value: 1}, {Key: "created_at", Value: -1}}),
	)
}

func (r *MongoModificationRepository) Create(ctx context.Context, mod *entity.BookingModification) error {
	if _, err := r.collection.InsertOne(ctx, mod); err != nil {
		return fmt.Errorf("failed to insert modification: %w", err)
	}
	return nil
}

func (r *MongoModificationRepository) ListByBooking(ctx context.Context, bookingID string, limit int) ([]*entity.BookingModification, error) {
	return findMany[entity.BookingModification](ctx, r.collection, bson.M{"booking_id": bookingID}, newestFirst("created_at"), limit)
}
