package repository

import (
	"context"
	"fmt"
	"regexp"

	"bookingdesk/internal/domain/apperr"
	"bookingdesk/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingRepository implements the BookingRepository interface
type MongoBookingRepository struct {
	collection *mongo.Collection
}

// NewMongoBookingRepository creates a new booking repository
func NewMongoBookingRepository(db *mongo.Database) *MongoBookingRepository {
	return &MongoBookingRepository{
		collection: db.Collection(bookingsCollection),
	}
}

// EnsureIndexes creates the unique PNR index and the listing indexes
func (r *MongoBookingRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.collection,
		uniqueIndex("pnr"),
		index(bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}}),
		index(bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}),
		index(bson.D{{Key: "contact_number", Value: 1}}),
	)
}

// Create inserts a booking; the unique index backs the PNR pre-check
func (r *MongoBookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict(fmt.Sprintf("PNR %s already exists", booking.PNR))
		}
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	var booking entity.Booking
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &booking, "booking not found"); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *MongoBookingRepository) ExistsByPNR(ctx context.Context, pnr string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"pnr": pnr})
	if err != nil {
		return false, fmt.Errorf("failed to count bookings by pnr: %w", err)
	}
	return n > 0, nil
}

// List returns bookings matching filter, most recent first
func (r *MongoBookingRepository) List(ctx context.Context, filter entity.BookingFilter) ([]*entity.Booking, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.CreatedBy != "" {
		query["created_by"] = filter.CreatedBy
	}
	if filter.SupplierID != "" {
		query["supplier_id"] = filter.SupplierID
	}
	if filter.From != nil || filter.To != nil {
		created := bson.M{}
		if filter.From != nil {
			created["$gte"] = *filter.From
		}
		if filter.To != nil {
			created["$lte"] = *filter.To
		}
		query["created_at"] = created
	}
	return findMany[entity.Booking](ctx, r.collection, query, newestFirst("created_at"), filter.Limit)
}

// Search matches a literal term inside the PNR or the contact number
func (r *MongoBookingRepository) Search(ctx context.Context, term, createdBy string, limit int) ([]*entity.Booking, error) {
	pattern := regexp.QuoteMeta(term)
	query := bson.M{
		"$or": []bson.M{
			{"pnr": primitive.Regex{Pattern: pattern, Options: "i"}},
			{"contact_number": primitive.Regex{Pattern: pattern, Options: "i"}},
		},
	}
	if createdBy != "" {
		query["created_by"] = createdBy
	}
	return findMany[entity.Booking](ctx, r.collection, query, newestFirst("created_at"), limit)
}

// UpdateFields applies a partial update, optionally guarded on the current status
func (r *MongoBookingRepository) UpdateFields(ctx context.Context, id string, set map[string]interface{}, expected *entity.BookingStatus) error {
	filter := bson.M{"_id": id}
	if expected != nil {
		filter["status"] = *expected
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M(set)})
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}
	if expected == nil {
		return apperr.NotFound("booking not found")
	}

	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to count bookings: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("booking not found")
	}
	return apperr.InvalidState(fmt.Sprintf("booking is no longer %s", *expected))
}
