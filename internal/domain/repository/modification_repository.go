package repository

import (
	"context"

	"bookingdesk/internal/domain/entity"
)

// ModificationRepository stores the append-only modification ledger
type ModificationRepository interface {
	Create(ctx context.Context, mod *entity.BookingModification) error
	ListByBooking(ctx context.Context, bookingID string, limit int) ([]*entity.BookingModification, error)
}
