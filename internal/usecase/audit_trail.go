package usecase

import (
	"context"
	"time"

	"bookingdesk/internal/domain/entity"
	"bookingdesk/internal/domain/repository"
	"bookingdesk/pkg/logger"
	"bookingdesk/pkg/metrics"

	"github.com/oklog/ulid/v2"
)

const (
	auditWindow   = 30 * 24 * time.Hour
	maxAuditLogs  = 1000
	auditWriteTTL = 5 * time.Second
)

// AuditTrail appends best-effort audit entries and serves the admin query
type AuditTrail struct {
	repo    repository.AuditRepository
	logger  logger.Logger
	metrics *metrics.Metrics
	now     Clock
}

// NewAuditTrail creates a new audit trail
func NewAuditTrail(repo repository.AuditRepository, logger logger.Logger, m *metrics.Metrics) *AuditTrail {
	return &AuditTrail{
		repo:    repo,
		logger:  logger,
		metrics: m,
		now:     defaultClock,
	}
}

// Record stores an entry for a completed mutation. Failures are logged and counted only.
func (a *AuditTrail) Record(ctx context.Context, actor entity.Actor, action, entityType, entityID string, changes map[string]interface{}) {
	ts := a.now()
	entry := &entity.AuditLog{
		ID:         ulid.MustNew(ulid.Timestamp(ts), ulid.DefaultEntropy()).String(),
		UserID:     actor.ID,
		UserName:   actor.Name,
		UserRole:   actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes:    changes,
		Timestamp:  ts,
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTTL)
	defer cancel()

	if err := a.repo.Append(writeCtx, entry); err != nil {
		a.metrics.AuditFailed()
		a.logger.Error("Failed to write audit log",
			"action", action,
			"entityType", entityType,
			"entityID", entityID,
			"error", err)
	}
}

// Query returns the trailing window of entries for admins
func (a *AuditTrail) Query(ctx context.Context, actor entity.Actor, userID, entityType string) ([]*entity.AuditLog, error) {
	if err := requireRole(actor, entity.RolesAdministrator); err != nil {
		return nil, err
	}
	return a.repo.Find(ctx, entity.AuditFilter{
		UserID:     userID,
		EntityType: entityType,
		Since:      a.now().Add(-auditWindow),
		Limit:      maxAuditLogs,
	})
}
