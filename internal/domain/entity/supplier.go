package entity

import "time"

// Supplier is a ticket source the agency buys from
type Supplier struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	ContactInfo *string   `json:"contact_info,omitempty" bson:"contact_info,omitempty"`
	CreatedBy   string    `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// SupplierPatch carries editable supplier fields; nil means unchanged
type SupplierPatch struct {
	Name        *string `json:"name,omitempty" bson:"name,omitempty"`
	ContactInfo *string `json:"contact_info,omitempty" bson:"contact_info,omitempty"`
}

// Empty reports whether the patch sets nothing
func (p SupplierPatch) Empty() bool {
	return p.Name == nil && p.ContactInfo == nil
}
