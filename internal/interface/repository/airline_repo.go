package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookingdesk/internal/domain/apperr"
	"bookingdesk/internal/domain/entity"

	"gorm.io/gorm"
)

// GormAirlineRepository implements the AirlineRepository interface
type GormAirlineRepository struct {
	db *gorm.DB
}

// NewGormAirlineRepository creates a new GORM airline repository
func NewGormAirlineRepository(db *gorm.DB) *GormAirlineRepository {
	return &GormAirlineRepository{
		db: db,
	}
}

// Airlines GORM model for database mapping
type Airlines struct {
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"column:code;unique"`
	Name      string         `gorm:"column:name;unique"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (Airlines) TableName() string {
	return "m_airlines"
}

func (a Airlines) toEntity() *entity.Airline {
	return &entity.Airline{ID: a.ID, Code: a.Code, Name: a.Name}
}

// GetByCode finds an airline by code
func (r *GormAirlineRepository) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	var airline Airlines
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&airline).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("airline not found")
		}
		return nil, fmt.Errorf("failed to find airline: %w", err)
	}
	return airline.toEntity(), nil
}
