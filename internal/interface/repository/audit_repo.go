package repository

import (
	"context"
	"fmt"

	"bookingdesk/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAuditRepository implements the AuditRepository interface
type MongoAuditRepository struct {
	collection *mongo.Collection
}

func NewMongoAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{
		collection: db.Collection(auditCollection),
	}
}

func (r *MongoAuditRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.collection,
		index(newestFirst("timestamp")),
		index(bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}),
		index(bson.D{{Key: "entity_type", Value: 1}, {Key: "timestamp", Value: -1}}),
	)
}

// Append stores an audit entry
func (r *MongoAuditRepository) Append(ctx context.Context, entry *entity.AuditLog) error {
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

// Find returns entries matching filter, most recent first
func (r *MongoAuditRepository) Find(ctx context.Context, filter entity.AuditFilter) ([]*entity.AuditLog, error) {
	query := bson.M{}
	if !filter.Since.IsZero() {
		query["timestamp"] = bson.M{"$gte": filter.Since}
	}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.EntityType != "" {
		query["entity_type"] = filter.EntityType
	}
	return findMany[entity.AuditLog](ctx, r.collection, query, newestFirst("timestamp"), filter.Limit)
}
