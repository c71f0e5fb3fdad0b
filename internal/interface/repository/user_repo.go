package repository

import (
	"context"
	"fmt"
	"strings"

	"bookingdesk/internal/domain/apperr"
	"bookingdesk/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const maxUsers = 1000

// MongoUserRepository implements the UserRepository interface
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoDB user repository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		collection: db.Collection(usersCollection),
	}
}

// EnsureIndexes creates the unique email index
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.collection, uniqueIndex("email"))
}

// Create inserts a user; a taken email is a Conflict
func (r *MongoUserRepository) Create(ctx context.Context, user *entity.User) error {
	user.Email = strings.ToLower(user.Email)
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("email already registered")
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &user, "user not found"); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	filter := bson.M{"email": strings.ToLower(email)}
	if err := findOne(ctx, r.collection, filter, &user, "user not found"); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs finds multiple users by ID (batch operation)
func (r *MongoUserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	result := make(map[string]*entity.User)
	if len(ids) == 0 {
		return result, nil
	}
	users, err := findMany[entity.User](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}}, newestFirst("created_at"), 0)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func (r *MongoUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	return findMany[entity.User](ctx, r.collection, bson.M{}, newestFirst("created_at"), maxUsers)
}

// Update applies the present fields of patch
func (r *MongoUserRepository) Update(ctx context.Context, id string, patch entity.UserPatch) error {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	if patch.IsActive != nil {
		set["is_active"] = *patch.IsActive
	}
	if patch.Empty() {
		return requireExists(ctx, r.collection, id, "user not found")
	}
	return setFields(ctx, r.collection, id, set, "user not found")
}
