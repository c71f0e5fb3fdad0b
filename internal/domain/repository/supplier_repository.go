package repository

import (
	"context"

	"bookingdesk/internal/domain/entity"
)

// SupplierRepository defines the interface for supplier storage operations
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	FindByID(ctx context.Context, id string) (*entity.Supplier, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*entity.Supplier, error)
	List(ctx context.Context) ([]*entity.Supplier, error)
	Update(ctx context.Context, id string, patch entity.SupplierPatch) error
}
