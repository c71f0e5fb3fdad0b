package entity

import (
	"fmt"
	"time"
)

// ModificationType names a post-booking change
type ModificationType string

const (
	ModificationDateChange   ModificationType = "date_change"
	ModificationFlightChange ModificationType = "flight_change"
	ModificationCancellation ModificationType = "cancellation"
)

func ParseModificationType(s string) (ModificationType, bool) {
	switch ModificationType(s) {
	case ModificationDateChange, ModificationFlightChange, ModificationCancellation:
		return ModificationType(s), true
	}
	return "", false
}

// ModificationPayload is implemented by exactly the three detail variants.
type ModificationPayload interface {
	modificationType() ModificationType
}

type CancellationDetails struct {
	PaymentModeWas    PaymentMode `json:"payment_mode_was" bson:"payment_mode_was" validate:"required,oneof=cash cheque credit_card upi bank_transfer"`
	TotalPaidByClient float64     `json:"total_paid_by_client" bson:"total_paid_by_client" validate:"gte=0"`
	RefundableAmount  float64     `json:"refundable_amount" bson:"refundable_amount" validate:"gte=0"`
	OldMargin         float64     `json:"old_margin" bson:"old_margin"`
	CommittedToClient *float64    `json:"committed_to_client,omitempty" bson:"committed_to_client,omitempty"`
	ChargeFromClient  *float64    `json:"charge_from_client,omitempty" bson:"charge_from_client,omitempty"`
	RefundProcessed   bool        `json:"refund_processed" bson:"refund_processed"`
	Remarks           string      `json:"remarks" bson:"remarks"`
}

type DateChangeDetails struct {
	NewTravelDetails TravelDetails `json:"new_travel_details" bson:"new_travel_details" validate:"required"`
	OurCost          float64       `json:"our_cost" bson:"our_cost" validate:"gte=0"`
	SalePrice        float64       `json:"sale_price" bson:"sale_price" validate:"gte=0"`
	Remarks          string        `json:"remarks" bson:"remarks"`
}

type FlightChangeDetails struct {
	NewTravelDetails TravelDetails `json:"new_travel_details" bson:"new_travel_details" validate:"required"`
	NewAirline       string        `json:"new_airline" bson:"new_airline" validate:"required"`
	OurCost          float64       `json:"our_cost" bson:"our_cost" validate:"gte=0"`
	SalePrice        float64       `json:"sale_price" bson:"sale_price" validate:"gte=0"`
	Remarks          string        `json:"remarks" bson:"remarks"`
}

func (*CancellationDetails) modificationType() ModificationType { return ModificationCancellation }
func (*DateChangeDetails) modificationType() ModificationType   { return ModificationDateChange }
func (*FlightChangeDetails) modificationType() ModificationType { return ModificationFlightChange }

// BookingModification is an append-only record of a change to a booking
type BookingModification struct {
	ID                  string               `json:"id" bson:"_id"`
	BookingID           string               `json:"booking_id" bson:"booking_id"`
	ModificationType    ModificationType     `json:"modification_type" bson:"modification_type"`
	CancellationDetails *CancellationDetails `json:"cancellation_details,omitempty" bson:"cancellation_details,omitempty"`
	DateChangeDetails   *DateChangeDetails   `json:"date_change_details,omitempty" bson:"date_change_details,omitempty"`
	FlightChangeDetails *FlightChangeDetails `json:"flight_change_details,omitempty" bson:"flight_change_details,omitempty"`
	CreatedBy           string               `json:"created_by" bson:"created_by"`
	CreatedAt           time.Time            `json:"created_at" bson:"created_at"`
}

// Payload returns the single stored variant
func (m *BookingModification) Payload() ModificationPayload {
	switch m.ModificationType {
	case ModificationCancellation:
		return m.CancellationDetails
	case ModificationDateChange:
		return m.DateChangeDetails
	case ModificationFlightChange:
		return m.FlightChangeDetails
	}
	return nil
}

// ResolvePayload checks that exactly one variant is present and that it matches t.
func ResolvePayload(t ModificationType, c *CancellationDetails, d *DateChangeDetails, f *FlightChangeDetails) (ModificationPayload, error) {
	var present []ModificationPayload
	if c != nil {
		present = append(present, c)
	}
	if d != nil {
		present = append(present, d)
	}
	if f != nil {
		present = append(present, f)
	}
	if len(present) != 1 {
		return nil, fmt.Errorf("exactly one details payload is required, got %d", len(present))
	}
	if got := present[0].modificationType(); got != t {
		return nil, fmt.Errorf("payload %s does not match modification type %s", got, t)
	}
	return present[0], nil
}

// NewModification builds a record holding payload in its matching slot
func NewModification(id, bookingID string, payload ModificationPayload, createdBy string, at time.Time) *BookingModification {
	m := &BookingModification{
		ID:        id,
		BookingID: bookingID,
		CreatedBy: createdBy,
		CreatedAt: at,
	}
	switch p := payload.(type) {
	case *CancellationDetails:
		m.ModificationType = ModificationCancellation
		m.CancellationDetails = p
	case *DateChangeDetails:
		m.ModificationType = ModificationDateChange
		m.DateChangeDetails = p
	case *FlightChangeDetails:
		m.ModificationType = ModificationFlightChange
		m.FlightChangeDetails = p
	}
	return m
}
