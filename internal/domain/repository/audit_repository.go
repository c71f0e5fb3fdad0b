package repository

import (
	"context"

	"bookingdesk/internal/domain/entity"
)

// AuditRepository stores the append-only audit trail
type AuditRepository interface {
	Append(ctx context.Context, entry *entity.AuditLog) error
	Find(ctx context.Context, filter entity.AuditFilter) ([]*entity.AuditLog, error)
}
