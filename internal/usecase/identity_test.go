package usecase

import (
	"context"
	"testing"

	"bookingdesk/internal/domain/apperr"
	"bookingdesk/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdentityFixture(t *testing.T) (*Identity, *fakeUsers, *fakeSuppliers, *fakeAudit) {
	t.Helper()
	users := newFakeUsers()
	suppliers := newFakeSuppliers()
	audit := &fakeAudit{}
	id := NewIdentity(users, suppliers, plainHasher{}, staticTokens{}, NewAuditTrail(audit, nopLogger(), nil), nopLogger())
	id.now = fixedClock(testNow)
	id.newID = sequence("user")
	return id, users, suppliers, audit
}

func TestRegister_AdminOnly(t *testing.T) {
	id, _, _, audit := newIdentityFixture(t)
	in := RegisterInput{Email: "New.Agent@Pax.com ", Password: "secret1", Name: "New Agent", Role: "agent2"}

	_, err := id.Register(context.Background(), account, in)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	user, err := id.Register(context.Background(), admin, in)
	require.NoError(t, err)
	assert.Equal(t, "new.agent@pax.com", user.Email)
	assert.Equal(t, entity.RoleAgent2, user.Role)
	assert.True(t, user.IsActive)
	assert.Equal(t, "hashed:secret1", user.PasswordHash)
	assert.Equal(t, []string{entity.ActionUserCreated}, audit.actions())

	_, err = id.Register(context.Background(), admin, in)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestRegister_Validation(t *testing.T) {
	id, _, _, _ := newIdentityFixture(t)

	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"bad email", RegisterInput{Email: "nope", Password: "secret1", Name: "X", Role: "admin"}, "email"},
		{"short password", RegisterInput{Email: "a@b.co", Password: "12345", Name: "X", Role: "admin"}, "password"},
		{"unknown role", RegisterInput{Email: "a@b.co", Password: "secret1", Name: "X", Role: "owner"}, "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := id.Register(context.Background(), admin, tt.in)
			var appErr *apperr.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperr.KindValidation, appErr.Kind)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}

func TestLogin(t *testing.T) {
	id, users, _, _ := newIdentityFixture(t)
	user, err := id.CreateUser(context.Background(), RegisterInput{Email: "agent@pax.com", Password: "agent123", Name: "Agent User", Role: "agent1"})
	require.NoError(t, err)

	res, err := id.Login(context.Background(), "agent@pax.com", "agent123")
	require.NoError(t, err)
	assert.Equal(t, "token-"+user.ID, res.AccessToken)
	assert.Equal(t, "bearer", res.TokenType)
	assert.Equal(t, user.ID, res.User.ID)

	_, err = id.Login(context.Background(), "agent@pax.com", "wrong")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))

	_, err = id.Login(context.Background(), "nobody@pax.com", "agent123")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))

	require.NoError(t, users.Update(context.Background(), user.ID, entity.UserPatch{IsActive: ptr(false)}))
	_, err = id.Login(context.Background(), "agent@pax.com", "agent123")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))
}

func TestDeleteUser_Deactivates(t *testing.T) {
	id, users, _, audit := newIdentityFixture(t)
	user, err := id.CreateUser(context.Background(), RegisterInput{Email: "agent@pax.com", Password: "agent123", Name: "Agent User", Role: "agent1"})
	require.NoError(t, err)

	require.NoError(t, id.DeleteUser(context.Background(), admin, user.ID))
	stored, err := users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Equal(t, entity.ActionUserDeleted, audit.last().Action)

	err = id.DeleteUser(context.Background(), admin, "missing")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpdateUser(t *testing.T) {
	id, _, _, _ := newIdentityFixture(t)
	user, err := id.CreateUser(context.Background(), RegisterInput{Email: "agent@pax.com", Password: "agent123", Name: "Agent User", Role: "agent1"})
	require.NoError(t, err)

	role := entity.Role("root")
	_, err = id.UpdateUser(context.Background(), admin, user.ID, entity.UserPatch{Role: &role})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	role = entity.RoleAccount
	got, err := id.UpdateUser(context.Background(), admin, user.ID, entity.UserPatch{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAccount, got.Role)
}

func TestUpdateUser_EmptyPatchIsNotAudited(t *testing.T) {
	id, _, _, audit := newIdentityFixture(t)
	user, err := id.CreateUser(context.Background(), RegisterInput{Email: "agent@pax.com", Password: "agent123", Name: "Agent User", Role: "agent1"})
	require.NoError(t, err)
	before := audit.actions()

	_, err = id.UpdateUser(context.Background(), admin, "no-such-user", entity.UserPatch{})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	got, err := id.UpdateUser(context.Background(), admin, user.ID, entity.UserPatch{})
	require.NoError(t, err)
	assert.Equal(t, "Agent User", got.Name)
	assert.Equal(t, before, audit.actions())
}

func TestUpdateSupplier_EmptyPatchIsNotAudited(t *testing.T) {
	id, _, _, audit := newIdentityFixture(t)

	_, err := id.UpdateSupplier(context.Background(), admin, "missing", entity.SupplierPatch{})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Empty(t, audit.actions())
}

func TestSuppliers(t *testing.T) {
	id, _, _, audit := newIdentityFixture(t)

	_, err := id.CreateSupplier(context.Background(), agent, SupplierInput{Name: "Air India"})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	_, err = id.CreateSupplier(context.Background(), admin, SupplierInput{Name: ""})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	s, err := id.CreateSupplier(context.Background(), admin, SupplierInput{Name: " Air India "})
	require.NoError(t, err)
	assert.Equal(t, "Air India", s.Name)
	assert.Equal(t, admin.ID, s.CreatedBy)

	updated, err := id.UpdateSupplier(context.Background(), admin, s.ID, entity.SupplierPatch{ContactInfo: ptr("+91-11-2345-6789")})
	require.NoError(t, err)
	assert.Equal(t, "+91-11-2345-6789", *updated.ContactInfo)
	assert.Equal(t, []string{entity.ActionSupplierCreated, entity.ActionSupplierUpdated}, audit.actions())

	list, err := id.ListSuppliers(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSeed_IsIdempotent(t *testing.T) {
	id, users, suppliers, _ := newIdentityFixture(t)

	report, err := id.Seed(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.CreatedUsers, 3)
	assert.Empty(t, report.SkippedUsers)
	assert.Equal(t, 3, report.CreatedSuppliers)

	admins, _ := users.FindByEmail(context.Background(), "admin@pax.com")
	require.NotNil(t, admins)
	assert.Equal(t, entity.RoleAdmin, admins.Role)
	list, _ := suppliers.List(context.Background())
	require.Len(t, list, 3)
	assert.Equal(t, "system", list[0].CreatedBy)

	report, err = id.Seed(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.CreatedUsers)
	assert.Len(t, report.SkippedUsers, 3)
	assert.Zero(t, report.CreatedSuppliers)
}

func TestAuditQuery_AdminOnlyWithinWindow(t *testing.T) {
	repo := &fakeAudit{}
	trail := NewAuditTrail(repo, nopLogger(), nil)
	trail.now = fixedClock(testNow.AddDate(0, 0, -40))
	trail.Record(context.Background(), admin, entity.ActionUserCreated, entity.EntityUser, "old", nil)
	trail.now = fixedClock(testNow)
	trail.Record(context.Background(), admin, entity.ActionUserCreated, entity.EntityUser, "u-1", nil)
	trail.Record(context.Background(), agent, entity.ActionBookingCreated, entity.EntityBooking, "b-1", nil)

	_, err := trail.Query(context.Background(), account, "", "")
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	all, err := trail.Query(context.Background(), admin, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bookings, err := trail.Query(context.Background(), admin, "", entity.EntityBooking)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, agent.ID, bookings[0].UserID)
	assert.Equal(t, agent.Role, bookings[0].UserRole)
	assert.NotEmpty(t, bookings[0].ID)
}
