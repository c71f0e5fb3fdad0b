package usecase

import (
	"context"
	"strings"

	"bookingdesk/internal/domain/apperr"
	"bookingdesk/internal/domain/entity"
	"bookingdesk/internal/domain/repository"
	"bookingdesk/pkg/logger"
	"bookingdesk/pkg/metrics"
)

const maxModificationsPerBooking = 100

// RecordModificationInput is the body of a new modification record
type RecordModificationInput struct {
	BookingID           string                      `json:"booking_id"`
	ModificationType    string                      `json:"modification_type"`
	CancellationDetails *entity.CancellationDetails `json:"cancellation_details,omitempty"`
	DateChangeDetails   *entity.DateChangeDetails   `json:"date_change_details,omitempty"`
	FlightChangeDetails *entity.FlightChangeDetails `json:"flight_change_details,omitempty"`
}

// ModificationLedger records date changes, flight changes and cancellations.
// Records are immutable and never touch the booking itself.
type ModificationLedger struct {
	mods      repository.ModificationRepository
	lifecycle *BookingLifecycle
	audit     *AuditTrail
	logger    logger.Logger
	metrics   *metrics.Metrics
	now       Clock
	newID     IDGenerator
}

func NewModificationLedger(
	mods repository.ModificationRepository,
	lifecycle *BookingLifecycle,
	audit *AuditTrail,
	logger logger.Logger,
	m *metrics.Metrics,
) *ModificationLedger {
	return &ModificationLedger{
		mods:      mods,
		lifecycle: lifecycle,
		audit:     audit,
		logger:    logger,
		metrics:   m,
		now:       defaultClock,
		newID:     defaultID,
	}
}

// Record appends a modification for a booking visible to the actor
func (m *ModificationLedger) Record(ctx context.Context, actor entity.Actor, in RecordModificationInput) (*entity.BookingModification, error) {
	if strings.TrimSpace(in.BookingID) == "" {
		return nil, apperr.Validation("booking_id", "is required")
	}
	modType, ok := entity.ParseModificationType(in.ModificationType)
	if !ok {
		return nil, apperr.Validation("modification_type", "must be one of: date_change flight_change cancellation")
	}
	payload, err := entity.ResolvePayload(modType, in.CancellationDetails, in.DateChangeDetails, in.FlightChangeDetails)
	if err != nil {
		return nil, apperr.Validation(string(modType)+"_details", err.Error())
	}
	if err := validateStruct(payload); err != nil {
		return nil, err
	}
	if _, err := m.lifecycle.Get(ctx, actor, in.BookingID); err != nil {
		return nil, err
	}

	mod := entity.NewModification(m.newID(), in.BookingID, payload, actor.ID, m.now())
	if err := m.mods.Create(ctx, mod); err != nil {
		return nil, err
	}

	m.metrics.Transition("modification_" + string(modType))
	m.audit.Record(ctx, actor, "BOOKING_"+strings.ToUpper(string(modType)), entity.EntityModification, mod.ID, map[string]interface{}{
		"booking_id": in.BookingID,
		"details":    mod.Payload(),
	})
	return mod, nil
}

// ListByBooking returns the ledger of a visible booking, newest first
func (m *ModificationLedger) ListByBooking(ctx context.Context, actor entity.Actor, bookingID string) ([]*entity.BookingModification, error) {
	if _, err := m.lifecycle.Get(ctx, actor, bookingID); err != nil {
		return nil, err
	}
	return m.mods.ListByBooking(ctx, bookingID, maxModificationsPerBooking)
}
