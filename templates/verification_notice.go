package templates

import (
	"context"
	"errors"
	"fmt"
	"html/template"

	"bookingdesk/internal/domain/entity"
	"bookingdesk/pkg/logger"
)

var verificationBody = template.Must(template.New("verification").Parse(`<html><body>
<p>Booking <strong>{{.Booking.PNR}}</strong> has been verified by {{.ActorName}} ({{.ActorRole}}).</p>
<table>
<tr><td>Passenger</td><td>{{.Booking.PaxName}}</td></tr>
<tr><td>Airline</td><td>{{.Booking.Airline}}</td></tr>
{{if .Route}}<tr><td>Route</td><td>{{.Route}}</td></tr>{{end}}
<tr><td>Sale price</td><td>{{printf "%.2f" .Booking.SalePrice}}</td></tr>
<tr><td>Paid so far</td><td>{{printf "%.2f" .TotalPaid}}</td></tr>
<tr><td>Status</td><td>{{.NewStatus}}</td></tr>
</table>
</body></html>`))

// VerificationNoticeHandler renders account and admin verification notices
type VerificationNoticeHandler struct {
	logger logger.Logger
}

// NewVerificationNoticeHandler creates a new verification notice template
func NewVerificationNoticeHandler(logger logger.Logger) *VerificationNoticeHandler {
	return &VerificationNoticeHandler{logger: logger}
}

// CanHandle accepts both verification stages
func (h *VerificationNoticeHandler) CanHandle(kind string) bool {
	return kind == entity.NotificationAccountVerified || kind == entity.NotificationAdminVerified
}

// Render builds the notice for a verified booking
func (h *VerificationNoticeHandler) Render(ctx context.Context, event entity.NotificationEvent) (string, string, error) {
	if event.Booking == nil {
		return "", "", errors.New("verification notice without booking")
	}

	stage := "Account"
	if event.Kind == entity.NotificationAdminVerified {
		stage = "Admin"
	}
	subject := fmt.Sprintf("[%s verified] Booking %s - %s", stage, event.Booking.PNR, event.Booking.PaxName)

	body, err := execute(verificationBody, newBookingView(event))
	if err != nil {
		h.logger.Error("Failed to render verification notice", "pnr", event.Booking.PNR, "error", err)
		return "", "", err
	}
	return subject, body, nil
}
