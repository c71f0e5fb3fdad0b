package usecase

import (
	"context"

	"bookingdesk/internal/domain/apperr"
	"bookingdesk/internal/domain/entity"
)

// DefaultUsers are the starter accounts created by the seed command
var DefaultUsers = []RegisterInput{
	{Email: "admin@pax.com", Password: "admin123", Name: "Admin User", Role: string(entity.RoleAdmin)},
	{Email: "agent@pax.com", Password: "agent123", Name: "Agent User", Role: string(entity.RoleAgent1)},
	{Email: "account@pax.com", Password: "account123", Name: "Account User", Role: string(entity.RoleAccount)},
}

// DefaultSuppliers are created only into an empty supplier list
var DefaultSuppliers = []SupplierInput{
	{Name: "Emirates Airlines", ContactInfo: ptr("+971-4-123-4567")},
	{Name: "Qatar Airways", ContactInfo: ptr("+974-4-456-7890")},
	{Name: "Etihad Airways", ContactInfo: ptr("+971-2-234-5678")},
}

var systemActor = entity.Actor{ID: "system", Name: "system", Role: entity.RoleAdmin}

// SeedReport lists what a seed run created
type SeedReport struct {
	CreatedUsers     []string
	SkippedUsers     []string
	CreatedSuppliers int
}

// Seed creates the default users and suppliers; existing data is left alone
func (s *Identity) Seed(ctx context.Context) (*SeedReport, error) {
	report := &SeedReport{}
	for _, in := range DefaultUsers {
		_, err := s.CreateUser(ctx, in)
		switch {
		case err == nil:
			report.CreatedUsers = append(report.CreatedUsers, in.Email)
		case apperr.IsKind(err, apperr.KindConflict):
			report.SkippedUsers = append(report.SkippedUsers, in.Email)
		default:
			return report, err
		}
	}

	existing, err := s.suppliers.List(ctx)
	if err != nil {
		return report, err
	}
	if len(existing) > 0 {
		return report, nil
	}
	for _, in := range DefaultSuppliers {
		if _, err := s.CreateSupplier(ctx, systemActor, in); err != nil {
			return report, err
		}
		report.CreatedSuppliers++
	}
	return report, nil
}
