package entity

import "time"

// Audit actions
const (
	ActionUserCreated              = "USER_CREATED"
	ActionUserUpdated              = "USER_UPDATED"
	ActionUserDeleted              = "USER_DELETED"
	ActionSupplierCreated          = "SUPPLIER_CREATED"
	ActionSupplierUpdated          = "SUPPLIER_UPDATED"
	ActionBookingCreated           = "BOOKING_CREATED"
	ActionBookingSubmitted         = "BOOKING_SUBMITTED"
	ActionBookingUpdatedCommercial = "BOOKING_UPDATED_COMMERCIAL"
	ActionBookingVerifiedAccount   = "BOOKING_VERIFIED_ACCOUNT"
	ActionBookingVerifiedAdmin     = "BOOKING_VERIFIED_ADMIN"
	ActionBookingBillingUpdated    = "BOOKING_BILLING_UPDATED"
)

// Audit entity types
const (
	EntityUser         = "user"
	EntitySupplier     = "supplier"
	EntityBooking      = "booking"
	EntityModification = "modification"
)

// AuditLog is an append-only record of a state change
type AuditLog struct {
	ID         string                 `json:"id" bson:"_id"`
	UserID     string                 `json:"user_id" bson:"user_id"`
	UserName   string                 `json:"user_name" bson:"user_name"`
	UserRole   Role                   `json:"user_role" bson:"user_role"`
	Action     string                 `json:"action" bson:"action"`
	EntityType string                 `json:"entity_type" bson:"entity_type"`
	EntityID   string                 `json:"entity_id,omitempty" bson:"entity_id,omitempty"`
	Changes    map[string]interface{} `json:"changes,omitempty" bson:"changes,omitempty"`
	Timestamp  time.Time              `json:"timestamp" bson:"timestamp"`
}

// AuditFilter selects audit entries; zero values are ignored
type AuditFilter struct {
	UserID     string
	EntityType string
	Since      time.Time
	Limit      int
}
