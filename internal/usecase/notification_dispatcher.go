package usecase

import (
	"context"
	"fmt"
	"time"

	"bookingdesk/internal/domain/entity"
	"bookingdesk/internal/domain/repository"
	"bookingdesk/pkg/logger"
	"bookingdesk/pkg/metrics"
)

const defaultNotificationTimeout = 10 * time.Second

// NotificationDispatcher renders lifecycle events and hands them to a sender.
// Delivery is best effort: errors are logged and counted, never returned.
type NotificationDispatcher struct {
	router     TemplateRouter
	sender     repository.NotificationSender
	from       string
	recipients []string
	timeout    time.Duration
	logger     logger.Logger
	metrics    *metrics.Metrics
}

// NewNotificationDispatcher creates a new notification dispatcher
func NewNotificationDispatcher(
	router TemplateRouter,
	sender repository.NotificationSender,
	from string,
	recipients []string,
	timeout time.Duration,
	logger logger.Logger,
	m *metrics.Metrics,
) *NotificationDispatcher {
	if timeout <= 0 {
		timeout = defaultNotificationTimeout
	}
	return &NotificationDispatcher{
		router:     router,
		sender:     sender,
		from:       from,
		recipients: recipients,
		timeout:    timeout,
		logger:     logger,
		metrics:    m,
	}
}

// Notify sends the event on a context detached from the caller's cancellation
func (d *NotificationDispatcher) Notify(ctx context.Context, event entity.NotificationEvent) {
	if len(d.recipients) == 0 {
		d.logger.Debug("No notification recipients configured", "kind", event.Kind)
		return
	}

	handler := d.router.GetHandler(event.Kind)
	if handler == nil {
		d.logger.Debug("No template found for notification", "kind", event.Kind)
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	bookingID := ""
	if event.Booking != nil {
		bookingID = event.Booking.ID
	}

	if err := d.deliver(sendCtx, handler, event); err != nil {
		d.metrics.Notification(event.Kind, err)
		d.logger.Error("Failed to send notification",
			"kind", event.Kind,
			"bookingID", bookingID,
			"error", err)
		return
	}

	d.metrics.Notification(event.Kind, nil)
	d.logger.Info("Notification sent",
		"kind", event.Kind,
		"bookingID", bookingID,
		"recipients", len(d.recipients))
}

func (d *NotificationDispatcher) deliver(ctx context.Context, handler TemplateHandler, event entity.NotificationEvent) error {
	subject, body, err := handler.Render(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", event.Kind, err)
	}
	return d.sender.Send(ctx, &entity.OutboundEmail{
		From:    d.from,
		To:      d.recipients,
		Subject: subject,
		Body:    body,
		HTML:    true,
	})
}
