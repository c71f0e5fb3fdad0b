package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"bookingdesk/internal/domain/apperr"
	"bookingdesk/internal/domain/entity"
	"bookingdesk/pkg/logger"

	"github.com/stretchr/testify/mock"
)

var (
	admin   = entity.Actor{ID: "u-admin", Name: "Admin User", Role: entity.RoleAdmin}
	agent   = entity.Actor{ID: "u-agent", Name: "Agent User", Role: entity.RoleAgent1}
	other   = entity.Actor{ID: "u-other", Name: "Other Agent", Role: entity.RoleAgent1}
	agent2  = entity.Actor{ID: "u-agent2", Name: "Junior Agent", Role: entity.RoleAgent2}
	account = entity.Actor{ID: "u-account", Name: "Account User", Role: entity.RoleAccount}
)

var errStore = errors.New("store unavailable")

type fakeBookings struct {
	mu    sync.Mutex
	items map[string]*entity.Booking
	order []string
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{items: make(map[string]*entity.Booking)}
}

func (f *fakeBookings) Create(_ context.Context, b *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.PNR == b.PNR {
			return apperr.Conflict("duplicate pnr")
		}
	}
	cp := *b
	f.items[b.ID] = &cp
	f.order = append(f.order, b.ID)
	return nil
}

func (f *fakeBookings) FindByID(_ context.Context, id string) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound("booking not found")
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookings) ExistsByPNR(_ context.Context, pnr string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.items {
		if b.PNR == pnr {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookings) List(_ context.Context, filter entity.BookingFilter) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for i := len(f.order) - 1; i >= 0; i-- {
		b := f.items[f.order[i]]
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.CreatedBy != "" && b.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.SupplierID != "" && b.SupplierID != filter.SupplierID {
			continue
		}
		if filter.From != nil && b.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && b.CreatedAt.After(*filter.To) {
			continue
		}
		cp := *b
		out = append(out, &cp)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeBookings) Search(_ context.Context, term, createdBy string, limit int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	term = strings.ToLower(term)
	var out []*entity.Booking
	for _, id := range f.order {
		b := f.items[id]
		if createdBy != "" && b.CreatedBy != createdBy {
			continue
		}
		if strings.Contains(strings.ToLower(b.PNR), term) || strings.Contains(strings.ToLower(b.ContactNumber), term) {
			cp := *b
			out = append(out, &cp)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeBookings) UpdateFields(_ context.Context, id string, set map[string]interface{}, expected *entity.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[id]
	if !ok {
		return apperr.NotFound("booking not found")
	}
	if expected != nil && b.Status != *expected {
		return apperr.InvalidState("booking status changed concurrently")
	}
	for k, v := range set {
		if err := applyField(b, k, v); err != nil {
			return err
		}
	}
	return nil
}

// put stores a booking directly, bypassing Create
func (f *fakeBookings) put(b *entity.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *b
	f.items[b.ID] = &cp
	f.order = append(f.order, b.ID)
}

func applyField(b *entity.Booking, key string, v interface{}) error {
	switch key {
	case "status":
		b.Status = v.(entity.BookingStatus)
	case "submitted_at":
		t := v.(time.Time)
		b.SubmittedAt = &t
	case "updated_at":
		b.UpdatedAt = v.(time.Time)
	case "account_verified_by":
		s := v.(string)
		b.AccountVerifiedBy = &s
	case "account_verified_at":
		t := v.(time.Time)
		b.AccountVerifiedAt = &t
	case "admin_verified_by":
		s := v.(string)
		b.AdminVerifiedBy = &s
	case "admin_verified_at":
		t := v.(time.Time)
		b.AdminVerifiedAt = &t
	case "supplier_id":
		b.SupplierID = v.(string)
	case "our_cost":
		b.OurCost = v.(float64)
	case "sale_price":
		b.SalePrice = v.(float64)
	case "installments":
		b.Installments = v.([]entity.Installment)
	case "billing_status":
		b.BillingStatus = v.(entity.BillingStatus)
	case "paid_amount_to_supplier":
		b.PaidAmountToSupplier = v.(float64)
	default:
		return fmt.Errorf("unexpected field %q", key)
	}
	return nil
}

type fakeSuppliers struct {
	mu    sync.Mutex
	items map[string]*entity.Supplier
}

func newFakeSuppliers(suppliers ...*entity.Supplier) *fakeSuppliers {
	f := &fakeSuppliers{items: make(map[string]*entity.Supplier)}
	for _, s := range suppliers {
		f.items[s.ID] = s
	}
	return f
}

func (f *fakeSuppliers) Create(_ context.Context, s *entity.Supplier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[s.ID] = s
	return nil
}

func (f *fakeSuppliers) FindByID(_ context.Context, id string) (*entity.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound("supplier not found")
	}
	return s, nil
}

func (f *fakeSuppliers) FindByIDs(_ context.Context, ids []string) (map[string]*entity.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]*entity.Supplier)
	for _, id := range ids {
		if s, ok := f.items[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (f *fakeSuppliers) List(_ context.Context) ([]*entity.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Supplier, 0, len(f.items))
	for _, s := range f.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeSuppliers) Update(_ context.Context, id string, patch entity.SupplierPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// empty patches skip the existence check
	if patch.Empty() {
		return nil
	}
	s, ok := f.items[id]
	if !ok {
		return apperr.NotFound("supplier not found")
	}
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.ContactInfo != nil {
		s.ContactInfo = patch.ContactInfo
	}
	return nil
}

type fakeUsers struct {
	mu    sync.Mutex
	items map[string]*entity.User
}

func newFakeUsers(users ...*entity.User) *fakeUsers {
	f := &fakeUsers{items: make(map[string]*entity.User)}
	for _, u := range users {
		f.items[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.Email == u.Email {
			return apperr.Conflict("email already registered")
		}
	}
	f.items[u.ID] = u
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.items {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeUsers) FindByIDs(_ context.Context, ids []string) (map[string]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]*entity.User)
	for _, id := range ids {
		if u, ok := f.items[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (f *fakeUsers) List(_ context.Context) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.User, 0, len(f.items))
	for _, u := range f.items {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) Update(_ context.Context, id string, patch entity.UserPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// empty patches skip the existence check
	if patch.Empty() {
		return nil
	}
	u, ok := f.items[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	return nil
}

type fakeModifications struct {
	mu    sync.Mutex
	items []*entity.BookingModification
}

func (f *fakeModifications) Create(_ context.Context, m *entity.BookingModification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, m)
	return nil
}

func (f *fakeModifications) ListByBooking(_ context.Context, bookingID string, limit int) ([]*entity.BookingModification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.BookingModification
	for i := len(f.items) - 1; i >= 0 && len(out) < limit; i-- {
		if f.items[i].BookingID == bookingID {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []*entity.AuditLog
	fail    bool
}

func (f *fakeAudit) Append(_ context.Context, e *entity.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errStore
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeAudit) Find(_ context.Context, filter entity.AuditFilter) ([]*entity.AuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.AuditLog
	for i := len(f.entries) - 1; i >= 0; i-- {
		e := f.entries[i]
		if filter.UserID != "" && e.UserID != filter.UserID {
			continue
		}
		if filter.EntityType != "" && e.EntityType != filter.EntityType {
			continue
		}
		if e.Timestamp.Before(filter.Since) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeAudit) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.entries))
	for i, e := range f.entries {
		out[i] = e.Action
	}
	return out
}

func (f *fakeAudit) last() *entity.AuditLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.entries) == 0 {
		return nil
	}
	return f.entries[len(f.entries)-1]
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, event entity.NotificationEvent) {
	m.Called(ctx, event)
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

func (plainHasher) Verify(hash, p string) error {
	if hash != "hashed:"+p {
		return errors.New("mismatch")
	}
	return nil
}

type staticTokens struct{}

func (staticTokens) Issue(u *entity.User) (string, error) { return "token-" + u.ID, nil }

// sequence returns an IDGenerator yielding prefix-1, prefix-2, ...
func sequence(prefix string) IDGenerator {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func nopLogger() logger.Logger { return logger.NewNopLogger() }
