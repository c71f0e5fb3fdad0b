package usecase

import (
	"context"

	"bookingdesk/internal/domain/entity"
)

// TemplateHandler defines the interface for notification templates
type TemplateHandler interface {
	// CanHandle determines if this handler renders the given notification kind
	CanHandle(kind string) bool

	// Render produces the subject and HTML body for the event
	Render(ctx context.Context, event entity.NotificationEvent) (subject, body string, err error)
}

// TemplateRouter routes notification events to the appropriate template
type TemplateRouter interface {
	// Register registers a template handler
	Register(handler TemplateHandler)

	// GetHandler returns the handler for a notification kind, or nil
	GetHandler(kind string) TemplateHandler
}
