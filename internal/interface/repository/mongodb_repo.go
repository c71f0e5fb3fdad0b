package repository

import (
	"context"
	"errors"
	"fmt"

	"bookingdesk/internal/domain/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	usersCollection         = "users"
	suppliersCollection     = "suppliers"
	bookingsCollection      = "bookings"
	modificationsCollection = "booking_modifications"
	auditCollection         = "audit_logs"
)

// IndexManager is implemented by every Mongo repository
type IndexManager interface {
	EnsureIndexes(ctx context.Context) error
}

// EnsureIndexes creates the indexes of every given repository, stopping at the first failure
func EnsureIndexes(ctx context.Context, repos ...IndexManager) error {
	for _, r := range repos {
		if err := r.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}

func createIndexes(ctx context.Context, collection *mongo.Collection, models ...mongo.IndexModel) error {
	if _, err := collection.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create indexes on %s: %w", collection.Name(), err)
	}
	return nil
}

func uniqueIndex(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
}

func index(keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys}
}

// findOne decodes a single document, mapping a miss to NotFound
func findOne(ctx context.Context, collection *mongo.Collection, filter bson.M, out interface{}, notFound string) error {
	err := collection.FindOne(ctx, filter).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.NotFound(notFound)
		}
		return fmt.Errorf("failed to find in %s: %w", collection.Name(), err)
	}
	return nil
}

// findMany runs a sorted, capped query
func findMany[T any](ctx context.Context, collection *mongo.Collection, filter bson.M, sort bson.D, limit int) ([]*T, error) {
	opts := options.Find().SetSort(sort)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection.Name(), err)
	}
	defer cursor.Close(ctx)

	out := make([]*T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", collection.Name(), err)
	}
	return out, nil
}

// setFields applies a $set to the document with the given id
func setFields(ctx context.Context, collection *mongo.Collection, id string, set bson.M, notFound string) error {
	result, err := collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", collection.Name(), err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound(notFound)
	}
	return nil
}

// requireExists returns NotFound unless a document with the given id exists
func requireExists(ctx context.Context, collection *mongo.Collection, id string, notFound string) error {
	err := collection.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.NotFound(notFound)
		}
		return fmt.Errorf("failed to find in %s: %w", collection.Name(), err)
	}
	return nil
}

func newestFirst(field string) bson.D {
	return bson.D{{Key: field, Value: -1}}
}
