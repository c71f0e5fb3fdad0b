package entity

import (
	"time"
)

// BookingStatus is the workflow state of a booking
type BookingStatus string

const (
	StatusDraft               BookingStatus = "draft"
	StatusSubmitted           BookingStatus = "submitted"
	StatusPendingVerification BookingStatus = "pending_verification"
	StatusAccountVerified     BookingStatus = "account_verified"
	StatusAdminVerified       BookingStatus = "admin_verified"
	StatusBilled              BookingStatus = "billed"
	StatusPaid                BookingStatus = "paid"
)

// ParseBookingStatus validates a status name
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case StatusDraft, StatusSubmitted, StatusPendingVerification, StatusAccountVerified,
		StatusAdminVerified, StatusBilled, StatusPaid:
		return BookingStatus(s), true
	}
	return "", false
}

// BillingStatus tracks what the agency has paid its supplier
type BillingStatus string

const (
	BillingUnpaid      BillingStatus = "unpaid"
	BillingPartialPaid BillingStatus = "partial_paid"
	BillingFullyPaid   BillingStatus = "fully_paid"
)

func ParseBillingStatus(s string) (BillingStatus, bool) {
	switch BillingStatus(s) {
	case BillingUnpaid, BillingPartialPaid, BillingFullyPaid:
		return BillingStatus(s), true
	}
	return "", false
}

type SectorType string

const (
	SectorOneWay    SectorType = "one_way"
	SectorRoundTrip SectorType = "round_trip"
	SectorMultiple  SectorType = "multiple"
)

type PaymentType string

const (
	PaymentFull         PaymentType = "full_payment"
	PaymentInstallments PaymentType = "installments"
)

type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "cash"
	PaymentModeCheque       PaymentMode = "cheque"
	PaymentModeCreditCard   PaymentMode = "credit_card"
	PaymentModeUPI          PaymentMode = "upi"
	PaymentModeBankTransfer PaymentMode = "bank_transfer"
)

// TravelLeg is one segment of the itinerary
type TravelLeg struct {
	TravelDate   string  `json:"travel_date" bson:"travel_date" validate:"required"`
	FromLocation string  `json:"from_location" bson:"from_location" validate:"required"`
	ToLocation   string  `json:"to_location" bson:"to_location" validate:"required"`
	ReturnDate   *string `json:"return_date,omitempty" bson:"return_date,omitempty"`
}

// TravelDetails is the itinerary of a booking
type TravelDetails struct {
	SectorType SectorType  `json:"sector_type" bson:"sector_type" validate:"required,oneof=one_way round_trip multiple"`
	Legs       []TravelLeg `json:"legs" bson:"legs" validate:"required,min=1,dive"`
	Note       *string     `json:"note,omitempty" bson:"note,omitempty"`
}

// Installment is one client payment toward the sale price
type Installment struct {
	ID          string      `json:"id" bson:"id"`
	Amount      float64     `json:"amount" bson:"amount" validate:"gte=0"`
	PaymentMode PaymentMode `json:"payment_mode" bson:"payment_mode" validate:"required,oneof=cash cheque credit_card upi bank_transfer"`
	PaymentDate string      `json:"payment_date" bson:"payment_date" validate:"required"`
	ReferenceNo *string     `json:"reference_no,omitempty" bson:"reference_no,omitempty"`
}

// Booking is the central aggregate
type Booking struct {
	ID            string        `json:"id" bson:"_id"`
	PaxName       string        `json:"pax_name" bson:"pax_name"`
	ContactPerson *string       `json:"contact_person,omitempty" bson:"contact_person,omitempty"`
	ContactNumber string        `json:"contact_number" bson:"contact_number"`
	PNR           string        `json:"pnr" bson:"pnr"`
	TravelDetails TravelDetails `json:"travel_details" bson:"travel_details"`
	Airline       string        `json:"airline" bson:"airline"`
	SupplierID    string        `json:"supplier_id" bson:"supplier_id"`

	OurCost      float64       `json:"our_cost" bson:"our_cost"`
	SalePrice    float64       `json:"sale_price" bson:"sale_price"`
	PaymentType  PaymentType   `json:"payment_type" bson:"payment_type"`
	Installments []Installment `json:"installments,omitempty" bson:"installments,omitempty"`

	Status            BookingStatus `json:"status" bson:"status"`
	CreatedBy         string        `json:"created_by" bson:"created_by"`
	SubmittedAt       *time.Time    `json:"submitted_at,omitempty" bson:"submitted_at,omitempty"`
	AccountVerifiedBy *string       `json:"account_verified_by,omitempty" bson:"account_verified_by,omitempty"`
	AccountVerifiedAt *time.Time    `json:"account_verified_at,omitempty" bson:"account_verified_at,omitempty"`
	AdminVerifiedBy   *string       `json:"admin_verified_by,omitempty" bson:"admin_verified_by,omitempty"`
	AdminVerifiedAt   *time.Time    `json:"admin_verified_at,omitempty" bson:"admin_verified_at,omitempty"`

	BillingStatus        BillingStatus `json:"billing_status" bson:"billing_status"`
	PaidAmountToSupplier float64       `json:"paid_amount_to_supplier" bson:"paid_amount_to_supplier"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// IsLocked reports whether either verification stage has signed off
func (b *Booking) IsLocked() bool {
	return b.AccountVerifiedBy != nil || b.AdminVerifiedBy != nil
}

// VisibleTo applies the read-path rule: agents see only their own bookings
func (b *Booking) VisibleTo(actor Actor) bool {
	if actor.Role.IsAgent() {
		return b.CreatedBy == actor.ID
	}
	return true
}

// TotalPaid sums the client installments
func (b *Booking) TotalPaid() float64 {
	var total float64
	for _, inst := range b.Installments {
		total += inst.Amount
	}
	return total
}

// CommercialPatch is a partial update of the commercial fields. A nil field is absent
// and keeps its stored value. A non-nil Installments replaces the whole stored list,
// so callers must resend every installment they want to keep.
type CommercialPatch struct {
	SupplierID   *string        `json:"supplier_id,omitempty"`
	OurCost      *float64       `json:"our_cost,omitempty"`
	SalePrice    *float64       `json:"sale_price,omitempty"`
	Installments *[]Installment `json:"installments,omitempty"`
}

// Changes returns the present fields keyed by their stored names
func (p CommercialPatch) Changes() map[string]interface{} {
	out := make(map[string]interface{})
	if p.SupplierID != nil {
		out["supplier_id"] = *p.SupplierID
	}
	if p.OurCost != nil {
		out["our_cost"] = *p.OurCost
	}
	if p.SalePrice != nil {
		out["sale_price"] = *p.SalePrice
	}
	if p.Installments != nil {
		out["installments"] = *p.Installments
	}
	return out
}

// BillingPatch is a partial update of the supplier billing fields
type BillingPatch struct {
	BillingStatus        *BillingStatus `json:"billing_status,omitempty"`
	PaidAmountToSupplier *float64       `json:"paid_amount_to_supplier,omitempty"`
}

// Changes returns the present fields keyed by their stored names
func (p BillingPatch) Changes() map[string]interface{} {
	out := make(map[string]interface{})
	if p.BillingStatus != nil {
		out["billing_status"] = *p.BillingStatus
	}
	if p.PaidAmountToSupplier != nil {
		out["paid_amount_to_supplier"] = *p.PaidAmountToSupplier
	}
	return out
}

// BookingFilter narrows a booking listing; zero values are ignored
type BookingFilter struct {
	Status     BookingStatus
	CreatedBy  string
	SupplierID string
	From       *time.Time
	To         *time.Time
	Limit      int
}
