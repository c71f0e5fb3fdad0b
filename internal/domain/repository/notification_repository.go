package repository

import (
	"context"

	"bookingdesk/internal/domain/entity"
)

// NotificationSender delivers a rendered message over some transport
type NotificationSender interface {
	Send(ctx context.Context, msg *entity.OutboundEmail) error
}
