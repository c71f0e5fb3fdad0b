package repository

import (
	"context"

	"bookingdesk/internal/domain/entity"
)

// AirlineRepository defines the interface for airline operations
type AirlineRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airline, error)
}
