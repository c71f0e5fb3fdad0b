package repository

import (
	"context"
	"fmt"

	"bookingdesk/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const maxSuppliers = 1000

// MongoSupplierRepository implements the SupplierRepository interface
type MongoSupplierRepository struct {
	collection *mongo.Collection
}

// NewMongoSupplierRepository creates a new MongoDB supplier repository
func NewMongoSupplierRepository(db *mongo.Database) *MongoSupplierRepository {
	return &MongoSupplierRepository{
		collection: db.Collection(suppliersCollection),
	}
}

func (r *MongoSupplierRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.collection, index(bson.D{{Key: "name", Value: 1}}))
}

func (r *MongoSupplierRepository) Create(ctx context.Context, supplier *entity.Supplier) error {
	if _, err := r.collection.InsertOne(ctx, supplier); err != nil {
		return fmt.Errorf("failed to insert supplier: %w", err)
	}
	return nil
}

func (r *MongoSupplierRepository) FindByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var supplier entity.Supplier
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &supplier, "supplier not found"); err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *MongoSupplierRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*entity.Supplier, error) {
	result := make(map[string]*entity.Supplier)
	if len(ids) == 0 {
		return result, nil
	}
	suppliers, err := findMany[entity.Supplier](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}}, newestFirst("created_at"), 0)
	if err != nil {
		return nil, err
	}
	for _, s := range suppliers {
		result[s.ID] = s
	}
	return result, nil
}

func (r *MongoSupplierRepository) List(ctx context.Context) ([]*entity.Supplier, error) {
	return findMany[entity.Supplier](ctx, r.collection, bson.M{}, newestFirst("created_at"), maxSuppliers)
}

func (r *MongoSupplierRepository) Update(ctx context.Context, id string, patch entity.SupplierPatch) error {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.ContactInfo != nil {
		set["contact_info"] = *patch.ContactInfo
	}
	if patch.Empty() {
		return requireExists(ctx, r.collection, id, "supplier not found")
	}
	return setFields(ctx, r.collection, id, set, "supplier not found")
}
