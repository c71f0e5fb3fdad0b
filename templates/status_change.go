package templates

import (
	"context"
	"errors"
	"fmt"
	"html/template"

	"bookingdesk/internal/domain/entity"
)

var statusChangeBody = template.Must(template.New("status_change").Parse(`<html><body>
<p>Booking <strong>{{.Booking.PNR}}</strong> for {{.Booking.PaxName}} moved from {{.OldStatus}} to {{.NewStatus}}.</p>
<p>Changed by {{.ActorName}} ({{.ActorRole}}).</p>
</body></html>`))

// StatusChangeHandler renders generic status transition notices
type StatusChangeHandler struct{}

func NewStatusChangeHandler() *StatusChangeHandler {
	return &StatusChangeHandler{}
}

func (h *StatusChangeHandler) CanHandle(kind string) bool {
	return kind == entity.NotificationStatusChange
}

func (h *StatusChangeHandler) Render(ctx context.Context, event entity.NotificationEvent) (string, string, error) {
	if event.Booking == nil {
		return "", "", errors.New("status change notice without booking")
	}
	body, err := execute(statusChangeBody, newBookingView(event))
	if err != nil {
		return "", "", err
	}
	subject := fmt.Sprintf("Booking %s is now %s", event.Booking.PNR, newBookingView(event).NewStatus)
	return subject, body, nil
}
