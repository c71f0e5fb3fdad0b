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

const (
	maxListedBookings   = 1000
	maxSearchedBookings = 100
)

// CreateBookingInput is the body of a new booking
type CreateBookingInput struct {
	PaxName       string               `json:"pax_name" validate:"required"`
	ContactPerson *string              `json:"contact_person,omitempty"`
	ContactNumber string               `json:"contact_number" validate:"required,contact"`
	PNR           string               `json:"pnr" validate:"required"`
	TravelDetails entity.TravelDetails `json:"travel_details" validate:"required"`
	Airline       string               `json:"airline" validate:"required"`
	SupplierID    string               `json:"supplier_id" validate:"required"`
	OurCost       float64              `json:"our_cost" validate:"gte=0"`
	SalePrice     float64              `json:"sale_price" validate:"gte=0"`
	PaymentType   entity.PaymentType   `json:"payment_type" validate:"required,oneof=full_payment installments"`
	Installments  []entity.Installment `json:"installments,omitempty" validate:"dive"`
}

type commercialPatchInput struct {
	OurCost      *float64             `json:"our_cost" validate:"omitnil,gte=0"`
	SalePrice    *float64             `json:"sale_price" validate:"omitnil,gte=0"`
	Installments []entity.Installment `json:"installments" validate:"dive"`
}

type billingPatchInput struct {
	PaidAmountToSupplier *float64 `json:"paid_amount_to_supplier" validate:"omitnil,gte=0"`
}

// BookingLifecycle drives a booking through submission, verification and billing
type BookingLifecycle struct {
	bookings  repository.BookingRepository
	suppliers repository.SupplierRepository
	audit     *AuditTrail
	notifier  Notifier
	logger    logger.Logger
	metrics   *metrics.Metrics
	strict    bool
	now       Clock
	newID     IDGenerator
}

// LifecycleOption tunes a BookingLifecycle
type LifecycleOption func(*BookingLifecycle)

// WithStrictTransitions guards status transitions with a compare-and-swap on the current status
func WithStrictTransitions(strict bool) LifecycleOption {
	return func(l *BookingLifecycle) { l.strict = strict }
}

// NewBookingLifecycle creates the booking lifecycle usecase
func NewBookingLifecycle(
	bookings repository.BookingRepository,
	suppliers repository.SupplierRepository,
	audit *AuditTrail,
	notifier Notifier,
	logger logger.Logger,
	m *metrics.Metrics,
	opts ...LifecycleOption,
) *BookingLifecycle {
	l := &BookingLifecycle{
		bookings:  bookings,
		suppliers: suppliers,
		audit:     audit,
		notifier:  notifier,
		logger:    logger,
		metrics:   m,
		now:       defaultClock,
		newID:     defaultID,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Create stores a new draft booking
func (l *BookingLifecycle) Create(ctx context.Context, actor entity.Actor, in CreateBookingInput) (*entity.Booking, error) {
	if err := requireRole(actor, entity.RolesCreateSubmit); err != nil {
		return nil, err
	}
	in.PNR = strings.TrimSpace(in.PNR)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	exists, err := l.bookings.ExistsByPNR(ctx, in.PNR)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("PNR " + in.PNR + " already exists")
	}
	if _, err := l.suppliers.FindByID(ctx, in.SupplierID); err != nil {
		return nil, err
	}

	now := l.now()
	booking := &entity.Booking{
		ID:                   l.newID(),
		PaxName:              in.PaxName,
		ContactPerson:        in.ContactPerson,
		ContactNumber:        in.ContactNumber,
		PNR:                  in.PNR,
		TravelDetails:        in.TravelDetails,
		Airline:              in.Airline,
		SupplierID:           in.SupplierID,
		OurCost:              in.OurCost,
		SalePrice:            in.SalePrice,
		PaymentType:          in.PaymentType,
		Installments:         l.assignInstallmentIDs(in.Installments, false),
		Status:               entity.StatusDraft,
		CreatedBy:            actor.ID,
		BillingStatus:        entity.BillingUnpaid,
		PaidAmountToSupplier: 0,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := l.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	l.metrics.Transition("create")
	l.audit.Record(ctx, actor, entity.ActionBookingCreated, entity.EntityBooking, booking.ID, map[string]interface{}{
		"pnr":      booking.PNR,
		"pax_name": booking.PaxName,
	})
	return booking, nil
}

// Submit moves a draft into the verification queue
func (l *BookingLifecycle) Submit(ctx context.Context, actor entity.Actor, id string) (*entity.Booking, error) {
	if err := requireRole(actor, entity.RolesCreateSubmit); err != nil {
		return nil, err
	}
	booking, err := l.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.CreatedBy != actor.ID && actor.Role != entity.RoleAdmin {
		return nil, apperr.Forbidden("only the creator or an admin can submit this booking")
	}
	if booking.Status != entity.StatusDraft {
		return nil, apperr.InvalidState("only draft bookings can be submitted")
	}

	now := l.now()
	set := map[string]interface{}{
		"status":       entity.StatusPendingVerification,
		"submitted_at": now,
		"updated_at":   now,
	}
	if err := l.bookings.UpdateFields(ctx, id, set, l.guard(entity.StatusDraft)); err != nil {
		return nil, err
	}
	booking.Status = entity.StatusPendingVerification
	booking.SubmittedAt = &now
	booking.UpdatedAt = now

	l.metrics.Transition("submit")
	l.audit.Record(ctx, actor, entity.ActionBookingSubmitted, entity.EntityBooking, id, map[string]interface{}{
		"status": entity.StatusPendingVerification,
	})
	l.notifier.Notify(ctx, entity.NotificationEvent{
		Kind:      entity.NotificationStatusChange,
		Booking:   booking,
		Actor:     actor,
		OldStatus: entity.StatusDraft,
		NewStatus: entity.StatusPendingVerification,
	})
	return booking, nil
}

// UpdateCommercial applies a partial update of supplier, cost, price and installments
func (l *BookingLifecycle) UpdateCommercial(ctx context.Context, actor entity.Actor, id string, patch entity.CommercialPatch) (*entity.Booking, error) {
	if err := requireRole(actor, entity.RolesCommercial); err != nil {
		return nil, err
	}
	booking, err := l.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.IsLocked() && actor.Role != entity.RoleAdmin {
		return nil, apperr.Forbidden("booking is verified, only an admin can change commercial details")
	}
	if actor.Role == entity.RoleAgent2 && booking.Status != entity.StatusDraft {
		return nil, apperr.Forbidden("agent2 can only edit draft bookings")
	}

	check := commercialPatchInput{OurCost: patch.OurCost, SalePrice: patch.SalePrice}
	if patch.Installments != nil {
		check.Installments = *patch.Installments
	}
	if err := validateStruct(check); err != nil {
		return nil, err
	}
	if patch.SupplierID != nil {
		if _, err := l.suppliers.FindByID(ctx, *patch.SupplierID); err != nil {
			return nil, err
		}
	}
	if patch.Installments != nil {
		fresh := l.assignInstallmentIDs(*patch.Installments, true)
		patch.Installments = &fresh
	}

	changes := patch.Changes()
	set := make(map[string]interface{}, len(changes)+1)
	for k, v := range changes {
		set[k] = v
	}
	set["updated_at"] = l.now()
	if err := l.bookings.UpdateFields(ctx, id, set, nil); err != nil {
		return nil, err
	}

	l.metrics.Transition("update_commercial")
	l.audit.Record(ctx, actor, entity.ActionBookingUpdatedCommercial, entity.EntityBooking, id, changes)
	return l.bookings.FindByID(ctx, id)
}

// VerifyAccount records the accounts sign-off on a pending booking
func (l *BookingLifecycle) VerifyAccount(ctx context.Context, actor entity.Actor, id string) (*entity.Booking, error) {
	if err := requireRole(actor, entity.RolesAccountAdmin); err != nil {
		return nil, err
	}
	booking, err := l.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != entity.StatusPendingVerification {
		return nil, apperr.InvalidState("only bookings pending verification can be account verified")
	}

	now := l.now()
	set := map[string]interface{}{
		"status":              entity.StatusAccountVerified,
		"account_verified_by": actor.ID,
		"account_verified_at": now,
		"updated_at":          now,
	}
	if err := l.bookings.UpdateFields(ctx, id, set, l.guard(entity.StatusPendingVerification)); err != nil {
		return nil, err
	}
	old := booking.Status
	booking.Status = entity.StatusAccountVerified
	booking.AccountVerifiedBy = ptr(actor.ID)
	booking.AccountVerifiedAt = &now
	booking.UpdatedAt = now

	l.metrics.Transition("verify_account")
	l.audit.Record(ctx, actor, entity.ActionBookingVerifiedAccount, entity.EntityBooking, id, map[string]interface{}{
		"status": entity.StatusAccountVerified,
	})
	l.notifier.Notify(ctx, entity.NotificationEvent{
		Kind:      entity.NotificationAccountVerified,
		Booking:   booking,
		Actor:     actor,
		OldStatus: old,
		NewStatus: entity.StatusAccountVerified,
	})
	return booking, nil
}

// VerifyAdmin stamps the admin sign-off from any status; a repeat overwrites the previous stamp
func (l *BookingLifecycle) VerifyAdmin(ctx context.Context, actor entity.Actor, id string) (*entity.Booking, error) {
	if err := requireRole(actor, entity.RolesAdministrator); err != nil {
		return nil, err
	}
	booking, err := l.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := l.now()
	set := map[string]interface{}{
		"status":            entity.StatusAdminVerified,
		"admin_verified_by": actor.ID,
		"admin_verified_at": now,
		"updated_at":        now,
	}
	if err := l.bookings.UpdateFields(ctx, id, set, nil); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{"status": entity.StatusAdminVerified}
	if booking.AdminVerifiedBy != nil {
		changes["previous_admin_verified_by"] = *booking.AdminVerifiedBy
		if booking.AdminVerifiedAt != nil {
			changes["previous_admin_verified_at"] = *booking.AdminVerifiedAt
		}
	}
	old := booking.Status
	booking.Status = entity.StatusAdminVerified
	booking.AdminVerifiedBy = ptr(actor.ID)
	booking.AdminVerifiedAt = &now
	booking.UpdatedAt = now

	l.metrics.Transition("verify_admin")
	l.audit.Record(ctx, actor, entity.ActionBookingVerifiedAdmin, entity.EntityBooking, id, changes)
	l.notifier.Notify(ctx, entity.NotificationEvent{
		Kind:      entity.NotificationAdminVerified,
		Booking:   booking,
		Actor:     actor,
		OldStatus: old,
		NewStatus: entity.StatusAdminVerified,
	})
	return booking, nil
}

// UpdateBilling records what has been paid to the supplier; status is untouched
func (l *BookingLifecycle) UpdateBilling(ctx context.Context, actor entity.Actor, id string, patch entity.BillingPatch) (*entity.Booking, error) {
	if err := requireRole(actor, entity.RolesAccountAdmin); err != nil {
		return nil, err
	}
	if patch.BillingStatus != nil {
		if _, ok := entity.ParseBillingStatus(string(*patch.BillingStatus)); !ok {
			return nil, apperr.Validation("billing_status", "must be one of: unpaid partial_paid fully_paid")
		}
	}
	if err := validateStruct(billingPatchInput{PaidAmountToSupplier: patch.PaidAmountToSupplier}); err != nil {
		return nil, err
	}
	if _, err := l.bookings.FindByID(ctx, id); err != nil {
		return nil, err
	}

	changes := patch.Changes()
	set := make(map[string]interface{}, len(changes)+1)
	for k, v := range changes {
		set[k] = v
	}
	set["updated_at"] = l.now()
	if err := l.bookings.UpdateFields(ctx, id, set, nil); err != nil {
		return nil, err
	}

	l.metrics.Transition("update_billing")
	l.audit.Record(ctx, actor, entity.ActionBookingBillingUpdated, entity.EntityBooking, id, changes)
	return l.bookings.FindByID(ctx, id)
}

// Get returns a booking the actor may see; hidden bookings read as missing
func (l *BookingLifecycle) Get(ctx context.Context, actor entity.Actor, id string) (*entity.Booking, error) {
	booking, err := l.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.VisibleTo(actor) {
		return nil, apperr.NotFound("booking not found")
	}
	return booking, nil
}

// List returns visible bookings, newest first, optionally by status
func (l *BookingLifecycle) List(ctx context.Context, actor entity.Actor, status string) ([]*entity.Booking, error) {
	filter := entity.BookingFilter{Limit: maxListedBookings}
	if status != "" {
		st, ok := entity.ParseBookingStatus(status)
		if !ok {
			return nil, apperr.Validation("status", "unknown booking status")
		}
		filter.Status = st
	}
	if actor.Role.IsAgent() {
		filter.CreatedBy = actor.ID
	}
	return l.bookings.List(ctx, filter)
}

// Search matches the term against PNR or contact number
func (l *BookingLifecycle) Search(ctx context.Context, actor entity.Actor, term string) ([]*entity.Booking, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperr.Validation("term", "is required")
	}
	createdBy := ""
	if actor.Role.IsAgent() {
		createdBy = actor.ID
	}
	return l.bookings.Search(ctx, term, createdBy, maxSearchedBookings)
}

// guard returns the expected status for a compare-and-swap update, or nil when not strict
func (l *BookingLifecycle) guard(expected entity.BookingStatus) *entity.BookingStatus {
	if !l.strict {
		return nil
	}
	return &expected
}

// assignInstallmentIDs copies the list, filling missing ids or replacing all when fresh is set
func (l *BookingLifecycle) assignInstallmentIDs(in []entity.Installment, fresh bool) []entity.Installment {
	if in == nil {
		return nil
	}
	out := make([]entity.Installment, len(in))
	for i, inst := range in {
		if fresh || inst.ID == "" {
			inst.ID = l.newID()
		}
		out[i] = inst
	}
	return out
}
