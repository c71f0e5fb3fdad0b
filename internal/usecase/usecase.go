// Package usecase holds the booking desk workflows.
package usecase

import (
	"context"
	"time"

	"bookingdesk/internal/domain/apperr"
	"bookingdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// PasswordHasher hashes and checks user passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

// TokenIssuer signs bearer tokens for authenticated users
type TokenIssuer interface {
	Issue(user *entity.User) (string, error)
}

// Notifier receives lifecycle events; it must not fail the caller
type Notifier interface {
	Notify(ctx context.Context, event entity.NotificationEvent)
}

// Clock and id hooks, swapped in tests
type (
	Clock       func() time.Time
	IDGenerator func() string
)

func defaultClock() time.Time { return time.Now().UTC() }

func defaultID() string { return uuid.NewString() }

func requireRole(actor entity.Actor, roles []entity.Role) error {
	if !actor.Role.In(roles) {
		return apperr.Forbidden("insufficient permissions")
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
