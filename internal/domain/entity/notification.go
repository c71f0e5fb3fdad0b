package entity

// Notification kinds
const (
	NotificationStatusChange    = "status_change"
	NotificationAccountVerified = "account_verified"
	NotificationAdminVerified   = "admin_verified"
)

// NotificationEvent is what the lifecycle hands to the side channel
type NotificationEvent struct {
	Kind      string
	Booking   *Booking
	Actor     Actor
	OldStatus BookingStatus
	NewStatus BookingStatus
}

// OutboundEmail is a rendered message ready for a transport
type OutboundEmail struct {
	From    string
	To      []string
	Subject string
	Body    string
	HTML    bool
}
