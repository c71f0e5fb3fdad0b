package repository

import (
	"context"

	"bookingdesk/internal/domain/entity"
)

// UserRepository defines the interface for user storage operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	Update(ctx context.Context, id string, patch entity.UserPatch) error
}
