package usecase

import (
	"context"
	"testing"
	"time"

	"bookingdesk/internal/domain/apperr"
	"bookingdesk/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)

type lifecycleFixture struct {
	bookings  *fakeBookings
	suppliers *fakeSuppliers
	audit     *fakeAudit
	notifier  *mockNotifier
	lc        *BookingLifecycle
}

func newLifecycleFixture(t *testing.T, opts ...LifecycleOption) *lifecycleFixture {
	t.Helper()
	f := &lifecycleFixture{
		bookings:  newFakeBookings(),
		suppliers: newFakeSuppliers(&entity.Supplier{ID: "sup-1", Name: "Emirates Airlines"}, &entity.Supplier{ID: "sup-2", Name: "Qatar Airways"}),
		audit:     &fakeAudit{},
		notifier:  &mockNotifier{},
	}
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return()

	trail := NewAuditTrail(f.audit, nopLogger(), nil)
	trail.now = fixedClock(testNow)
	f.lc = NewBookingLifecycle(f.bookings, f.suppliers, trail, f.notifier, nopLogger(), nil, opts...)
	f.lc.now = fixedClock(testNow)
	f.lc.newID = sequence("id")
	return f
}

func (f *lifecycleFixture) lastEvent(t *testing.T) entity.NotificationEvent {
	t.Helper()
	calls := f.notifier.Calls
	require.NotEmpty(t, calls)
	return calls[len(calls)-1].Arguments.Get(1).(entity.NotificationEvent)
}

func validBookingInput(pnr string) CreateBookingInput {
	return CreateBookingInput{
		PaxName:       "Jane Traveller",
		ContactNumber: "+91 98765 43210",
		PNR:           pnr,
		TravelDetails: entity.TravelDetails{
			SectorType: entity.SectorOneWay,
			Legs: []entity.TravelLeg{
				{TravelDate: "2026-11-01", FromLocation: "DEL", ToLocation: "DXB"},
			},
		},
		Airline:     "EK",
		SupplierID:  "sup-1",
		OurCost:     800,
		SalePrice:   1000,
		PaymentType: entity.PaymentInstallments,
		Installments: []entity.Installment{
			{Amount: 400, PaymentMode: entity.PaymentModeUPI, PaymentDate: "2026-10-01"},
		},
	}
}

func (f *lifecycleFixture) draft(t *testing.T, actor entity.Actor, pnr string) *entity.Booking {
	t.Helper()
	b, err := f.lc.Create(context.Background(), actor, validBookingInput(pnr))
	require.NoError(t, err)
	return b
}

func (f *lifecycleFixture) pending(t *testing.T, actor entity.Actor, pnr string) *entity.Booking {
	t.Helper()
	b := f.draft(t, actor, pnr)
	b, err := f.lc.Submit(context.Background(), actor, b.ID)
	require.NoError(t, err)
	return b
}

func TestCreate_StartsAsUnpaidDraft(t *testing.T) {
	f := newLifecycleFixture(t)

	b, err := f.lc.Create(context.Background(), agent, validBookingInput("ABC123"))
	require.NoError(t, err)

	assert.Equal(t, entity.StatusDraft, b.Status)
	assert.Equal(t, entity.BillingUnpaid, b.BillingStatus)
	assert.Zero(t, b.PaidAmountToSupplier)
	assert.Equal(t, agent.ID, b.CreatedBy)
	assert.Equal(t, testNow, b.CreatedAt)
	require.Len(t, b.Installments, 1)
	assert.NotEmpty(t, b.Installments[0].ID)
	assert.False(t, b.IsLocked())

	stored, err := f.bookings.FindByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "ABC123", stored.PNR)
	assert.Equal(t, []string{entity.ActionBookingCreated}, f.audit.actions())
}

func TestCreate_TrimsPNRBeforeUniquenessCheck(t *testing.T) {
	f := newLifecycleFixture(t)
	f.draft(t, agent, "ABC123")

	_, err := f.lc.Create(context.Background(), admin, validBookingInput("  ABC123 "))
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateBookingInput)
		field  string
	}{
		{"short contact number", func(in *CreateBookingInput) { in.ContactNumber = "12-34-56" }, "contact_number"},
		{"missing pax name", func(in *CreateBookingInput) { in.PaxName = "" }, "pax_name"},
		{"negative sale price", func(in *CreateBookingInput) { in.SalePrice = -1 }, "sale_price"},
		{"unknown payment type", func(in *CreateBookingInput) { in.PaymentType = "barter" }, "payment_type"},
		{"no legs", func(in *CreateBookingInput) { in.TravelDetails.Legs = nil }, "travel_details.legs"},
		{"bad installment mode", func(in *CreateBookingInput) { in.Installments[0].PaymentMode = "gold" }, "installments[0].payment_mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLifecycleFixture(t)
			in := validBookingInput("XYZ999")
			tt.mutate(&in)

			_, err := f.lc.Create(context.Background(), agent, in)
			require.Error(t, err)
			var appErr *apperr.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperr.KindValidation, appErr.Kind)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}

func TestCreate_UnknownSupplier(t *testing.T) {
	f := newLifecycleFixture(t)
	in := validBookingInput("ABC123")
	in.SupplierID = "missing"

	_, err := f.lc.Create(context.Background(), agent, in)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCreate_RoleGate(t *testing.T) {
	f := newLifecycleFixture(t)

	for _, actor := range []entity.Actor{account, agent2} {
		_, err := f.lc.Create(context.Background(), actor, validBookingInput("ABC123"))
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden), "role %s", actor.Role)
	}
}

func TestSubmit_MovesDraftToPending(t *testing.T) {
	f := newLifecycleFixture(t)
	b := f.draft(t, agent, "ABC123")

	got, err := f.lc.Submit(context.Background(), agent, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingVerification, got.Status)
	require.NotNil(t, got.SubmittedAt)
	assert.Equal(t, testNow, *got.SubmittedAt)

	stored, _ := f.bookings.FindByID(context.Background(), b.ID)
	assert.Equal(t, entity.StatusPendingVerification, stored.Status)

	ev := f.lastEvent(t)
	assert.Equal(t, entity.NotificationStatusChange, ev.Kind)
	assert.Equal(t, entity.StatusDraft, ev.OldStatus)
	assert.Equal(t, entity.StatusPendingVerification, ev.NewStatus)
	assert.Equal(t, []string{entity.ActionBookingCreated, entity.ActionBookingSubmitted}, f.audit.actions())
}

func TestSubmit_OnlyCreatorOrAdmin(t *testing.T) {
	f := newLifecycleFixture(t)
	b := f.draft(t, agent, "ABC123")

	_, err := f.lc.Submit(context.Background(), other, b.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	_, err = f.lc.Submit(context.Background(), admin, b.ID)
	assert.NoError(t, err)
}

func TestSubmit_RequiresDraft(t *testing.T) {
	f := newLifecycleFixture(t)
	b := f.pending(t, agent, "ABC123")

	_, err := f.lc.Submit(context.Background(), agent, b.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
	f.notifier.AssertNumberOfCalls(t, "Notify", 1)
}

func TestSubmit_MissingBooking(t *testing.T) {
	f := newLifecycleFixture(t)

	_, err := f.lc.Submit(context.Background(), agent, "nope")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

// staleBookings serves a draft snapshot while the stored booking has already moved on
type staleBookings struct {
	*fakeBookings
}

func (s staleBookings) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	b, err := s.fakeBookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Status = entity.StatusDraft
	return b, nil
}

func TestSubmit_StrictTransitionsRejectStaleRead(t *testing.T) {
	for _, strict := range []bool{true, false} {
		f := newLifecycleFixture(t, WithStrictTransitions(strict))
		f.bookings.put(&entity.Booking{ID: "b-1", PNR: "ABC123", CreatedBy: agent.ID, Status: entity.StatusPendingVerification})
		f.lc.bookings = staleBookings{f.bookings}

		_, err := f.lc.Submit(context.Background(), agent, "b-1")
		if strict {
			assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
			f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
		} else {
			assert.NoError(t, err)
		}
	}
}

func TestSubmit_SurvivesAuditFailure(t *testing.T) {
	f := newLifecycleFixture(t)
	b := f.draft(t, agent, "ABC123")
	f.audit.fail = true

	got, err := f.lc.Submit(context.Background(), agent, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingVerification, got.Status)
}

func TestUpdateCommercial_ReplacesInstallments(t *testing.T) {
	f := newLifecycleFixture(t)
	b := f.draft(t, agent, "ABC123")
	ref := "UTR-1"

	got, err := f.lc.UpdateCommercial(context.Background(), agent, b.ID, entity.CommercialPatch{
		SupplierID: ptr("sup-2"),
		SalePrice:  ptr(1200.0),
		Installments: &[]entity.Installment{
			{ID: "client-chosen", Amount: 600, PaymentMode: entity.PaymentModeBankTransfer, PaymentDate: "2026-10-02", ReferenceNo: &ref},
			{Amount: 600, PaymentMode: entity.PaymentModeCash, PaymentDate: "2026-10-03"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "sup-2", got.SupplierID)
	assert.Equal(t, 1200.0, got.SalePrice)
	assert.Equal(t, 800.0, got.OurCost)
	require.Len(t, got.Installments, 2)
	assert.NotEqual(t, "client-chosen", got.Installments[0].ID)
	assert.NotEqual(t, got.Installments[0].ID, got.Installments[1].ID)
	assert.Equal(t, 1200.0, got.TotalPaid())

	entry := f.audit.last()
	require.NotNil(t, entry)
	assert.Equal(t, entity.ActionBookingUpdatedCommercial, entry.Action)
	assert.Contains(t, entry.Changes, "supplier_id")
	assert.Contains(t, entry.Changes, "installments")
	assert.NotContains(t, entry.Changes, "our_cost")
}

func TestUpdateCommercial_LockedAfterVerification(t *testing.T) {
	f := newLifecycleFixture(t)
	b := f.pending(t, agent, "ABC123")
	_, err := f.lc.VerifyAccount(context.Background(), account, b.ID)
	require.NoError(t, err)

	_, err = f.lc.UpdateCommercial(context.Background(), agent, b.ID, entity.CommercialPatch{OurCost: ptr(700.0)})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	got, err := f.lc.UpdateCommercial(context.Background(), admin, b.ID, entity.CommercialPatch{OurCost: ptr(700.0)})
	require.NoError(t, err)
	assert.Equal(t, 700.0, got.OurCost)
}

func TestUpdateCommercial_Agent2OnlyDrafts(t *testing.T) {
	f := newLifecycleFixture(t)
	d := f.draft(t, agent, "DRAFT1")
	p := f.pending(t, agent, "PEND01")

	_, err := f.lc.UpdateCommercial(context.Background(), agent2, d.ID, entity.CommercialPatch{OurCost: ptr(750.0)})
	assert.NoError(t, err)

	_, err = f.lc.UpdateCommercial(context.Background(), agent2, p.ID, entity.CommercialPatch{OurCost: ptr(750.0)})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestUpdateCommercial_Validation(t *testing.T) {
	f := newLifecycleFixture(t)
	b := f.draft(t, agent, "ABC123")

	_, err := f.lc.UpdateCommercial(context.Background(), agent, b.ID, entity.CommercialPatch{OurCost: ptr(-5.0)})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Equal(t, "our_cost", appErr.Field)

	_, err = f.lc.UpdateCommercial(context.Background(), agent, b.ID, entity.CommercialPatch{SupplierID: ptr("ghost")})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestVerifyAccount_RequiresPending(t *testing.T) {
	f := newLifecycleFixture(t)
	b := f.draft(t, agent, "ABC123")

	_, err := f.lc.VerifyAccount(context.Background(), account, b.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))

	_, err = f.lc.Submit(context.Background(), agent, b.ID)
	require.NoError(t, err)

	_, err = f.lc.VerifyAccount(context.Background(), agent, b.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	got, err := f.lc.VerifyAccount(context.Background(), account, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAccountVerified, got.Status)
	require.NotNil(t, got.AccountVerifiedBy)
	assert.Equal(t, account.ID, *got.AccountVerifiedBy)
	assert.True(t, got.IsLocked())
	assert.Equal(t, entity.NotificationAccountVerified, f.lastEvent(t).Kind)

	_, err = f.lc.VerifyAccount(context.Background(), account, b.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestVerifyAdmin_FromAnyStatusKeepsPreviousStampInAudit(t *testing.T) {
	f := newLifecycleFixture(t)
	b := f.draft(t, agent, "ABC123")

	got, err := f.lc.VerifyAdmin(context.Background(), admin, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAdminVerified, got.Status)
	assert.NotContains(t, f.audit.last().Changes, "previous_admin_verified_by")

	second := entity.Actor{ID: "u-admin2", Name: "Second Admin", Role: entity.RoleAdmin}
	got, err = f.lc.VerifyAdmin(context.Background(), second, b.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, *got.AdminVerifiedBy)

	entry := f.audit.last()
	assert.Equal(t, entity.ActionBookingVerifiedAdmin, entry.Action)
	assert.Equal(t, admin.ID, entry.Changes["previous_admin_verified_by"])

	ev := f.lastEvent(t)
	assert.Equal(t, entity.NotificationAdminVerified, ev.Kind)
	assert.Equal(t, entity.StatusAdminVerified, ev.OldStatus)

	_, err = f.lc.VerifyAdmin(context.Background(), account, b.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestUpdateBilling(t *testing.T) {
	f := newLifecycleFixture(t)
	b := f.pending(t, agent, "ABC123")

	partial := entity.BillingPartialPaid
	got, err := f.lc.UpdateBilling(context.Background(), account, b.ID, entity.BillingPatch{
		BillingStatus:        &partial,
		PaidAmountToSupplier: ptr(300.0),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.BillingPartialPaid, got.BillingStatus)
	assert.Equal(t, 300.0, got.PaidAmountToSupplier)
	assert.Equal(t, entity.StatusPendingVerification, got.Status)

	bogus := entity.BillingStatus("settled")
	_, err = f.lc.UpdateBilling(context.Background(), account, b.ID, entity.BillingPatch{BillingStatus: &bogus})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "billing_status", appErr.Field)

	_, err = f.lc.UpdateBilling(context.Background(), account, "missing", entity.BillingPatch{PaidAmountToSupplier: ptr(1.0)})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = f.lc.UpdateBilling(context.Background(), agent, b.ID, entity.BillingPatch{PaidAmountToSupplier: ptr(1.0)})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestGet_HidesOtherAgentsBookings(t *testing.T) {
	f := newLifecycleFixture(t)
	b := f.draft(t, agent, "ABC123")

	_, err := f.lc.Get(context.Background(), other, b.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	for _, actor := range []entity.Actor{agent, account, admin} {
		got, err := f.lc.Get(context.Background(), actor, b.ID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
	}
}

func TestList_ScopesAgentsAndFiltersStatus(t *testing.T) {
	f := newLifecycleFixture(t)
	f.draft(t, agent, "AAA111")
	f.pending(t, agent, "BBB222")
	f.draft(t, admin, "CCC333")

	mine, err := f.lc.List(context.Background(), agent, "")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := f.lc.List(context.Background(), account, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending, err := f.lc.List(context.Background(), admin, "pending_verification")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "BBB222", pending[0].PNR)

	_, err = f.lc.List(context.Background(), admin, "archived")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestSearch(t *testing.T) {
	f := newLifecycleFixture(t)
	f.draft(t, agent, "ABC123")
	f.draft(t, admin, "ABD456")

	_, err := f.lc.Search(context.Background(), agent, "   ")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	mine, err := f.lc.Search(context.Background(), agent, "ab")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "ABC123", mine[0].PNR)

	all, err := f.lc.Search(context.Background(), admin, "ab")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFullApprovalFlow(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	in := validBookingInput("ABC123")
	in.PaymentType = entity.PaymentFull
	in.Installments = nil

	b, err := f.lc.Create(ctx, agent, in)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, b.Status)

	b, err = f.lc.Submit(ctx, agent, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingVerification, b.Status)
	assert.NotNil(t, b.SubmittedAt)

	b, err = f.lc.VerifyAccount(ctx, account, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAccountVerified, b.Status)

	b, err = f.lc.VerifyAdmin(ctx, admin, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAdminVerified, b.Status)

	stored, err := f.bookings.FindByID(ctx, b.ID)
	require.NoError(t, err)
	f.lc.now = fixedClock(testNow.Add(time.Hour))
	duplicate := validBookingInput("ABC123")
	duplicate.PaxName = "Someone Else"
	_, err = f.lc.Create(ctx, admin, duplicate)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	after, err := f.bookings.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, stored, after)
	assert.Equal(t, stored.UpdatedAt, after.UpdatedAt)
	assert.Len(t, f.bookings.items, 1)

	reporting := NewReporting(f.bookings, f.suppliers, newFakeUsers(), nil, nopLogger())
	stats, err := reporting.DashboardStats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalBookings)
	assert.Equal(t, 200.0, stats.TotalMargin)
	assert.Equal(t, 1, stats.AdminVerified)

	assert.Equal(t, []string{
		entity.ActionBookingCreated,
		entity.ActionBookingSubmitted,
		entity.ActionBookingVerifiedAccount,
		entity.ActionBookingVerifiedAdmin,
	}, f.audit.actions())
	for _, e := range f.audit.entries {
		assert.Equal(t, b.ID, e.EntityID)
	}
}
