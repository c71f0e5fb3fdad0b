package templates

import (
	"bytes"
	"html/template"

	"bookingdesk/internal/domain/entity"
	"bookingdesk/internal/usecase"
)

// bookingView is the data every notification template renders
type bookingView struct {
	Booking   *entity.Booking
	ActorName string
	ActorRole entity.Role
	OldStatus string
	NewStatus string
	Route     string
	TotalPaid float64
}

func newBookingView(event entity.NotificationEvent) bookingView {
	v := bookingView{
		Booking:   event.Booking,
		ActorName: event.Actor.Name,
		ActorRole: event.Actor.Role,
		OldStatus: usecase.StatusLabel(event.OldStatus),
		NewStatus: usecase.StatusLabel(event.NewStatus),
	}
	if event.Booking != nil {
		v.TotalPaid = event.Booking.TotalPaid()
		if legs := event.Booking.TravelDetails.Legs; len(legs) > 0 {
			v.Route = legs[0].FromLocation + " - " + legs[len(legs)-1].ToLocation
		}
	}
	return v
}

func execute(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
