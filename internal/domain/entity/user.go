package entity

import "time"

// Role is a user's workflow role
type Role string

const (
	RoleAgent1  Role = "agent1"
	RoleAgent2  Role = "agent2"
	RoleAccount Role = "account"
	RoleAdmin   Role = "admin"
)

// Role allow-lists shared by usecases and routes
var (
	RolesAll           = []Role{RoleAgent1, RoleAgent2, RoleAccount, RoleAdmin}
	RolesCreateSubmit  = []Role{RoleAgent1, RoleAdmin}
	RolesCommercial    = []Role{RoleAgent1, RoleAgent2, RoleAdmin}
	RolesAccountAdmin  = []Role{RoleAccount, RoleAdmin}
	RolesAdministrator = []Role{RoleAdmin}
)

// ParseRole validates a role name
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAgent1, RoleAgent2, RoleAccount, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// IsAgent reports whether the role only sees its own bookings
func (r Role) IsAgent() bool {
	return r == RoleAgent1 || r == RoleAgent2
}

// In reports whether r is one of roles
func (r Role) In(roles []Role) bool {
	for _, allowed := range roles {
		if r == allowed {
			return true
		}
	}
	return false
}

// User is an account of the booking desk
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	Name         string    `json:"name" bson:"name"`
	Role         Role      `json:"role" bson:"role"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// UserPatch carries the admin-editable user fields; nil means unchanged
type UserPatch struct {
	Name     *string `json:"name,omitempty" bson:"name,omitempty"`
	Role     *Role   `json:"role,omitempty" bson:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty" bson:"is_active,omitempty"`
}

// Empty reports whether the patch sets nothing
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Role == nil && p.IsActive == nil
}

// Actor is the authenticated caller of an operation, as carried by the bearer token
type Actor struct {
	ID    string
	Email string
	Name  string
	Role  Role
}
