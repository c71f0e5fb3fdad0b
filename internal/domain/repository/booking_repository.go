package repository

import (
	"context"

	"bookingdesk/internal/domain/entity"
)

// BookingRepository defines the interface for booking storage operations.
// Lookups of a missing booking return an apperr NotFound.
type BookingRepository interface {
	// Create fails with Conflict when the PNR is already taken.
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id string) (*entity.Booking, error)
	ExistsByPNR(ctx context.Context, pnr string) (bool, error)
	List(ctx context.Context, filter entity.BookingFilter) ([]*entity.Booking, error)
	// Search matches term against pnr or contact_number, case-insensitive.
	// An empty createdBy searches all bookings.
	Search(ctx context.Context, term, createdBy string, limit int) ([]*entity.Booking, error)
	// UpdateFields applies a partial $set. When expected is non-nil the update only
	// matches a booking in that status, and a miss returns InvalidState.
	UpdateFields(ctx context.Context, id string, set map[string]interface{}, expected *entity.BookingStatus) error
}
