// Package types - Domain records persisted by the estimator service
package types

import "time"

// Role is a caller's access level
type Role string

const (
	RoleEndUser Role = "end_user"
	RoleSales   Role = "sales"
	RoleAdmin   Role = "admin"
)

var roleRank = map[Role]int{
	RoleEndUser: 1,
	RoleSales:   2,
	RoleAdmin:   3,
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants everything min grants.
// admin > sales > end_user.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && roleRank[r] >= roleRank[min]
}

// User is an account allowed to call the service
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Email      string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role       Role      `gorm:"size:50;not null;default:end_user" json:"role"`
	ExternalID *string   `gorm:"size:255;uniqueIndex" json:"external_id,omitempty"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewUser is the admin input for creating an account
type NewUser struct {
	Email      string  `json:"email" validate:"required,email,max=255"`
	Role       Role    `json:"role" validate:"omitempty,oneof=end_user sales admin"`
	ExternalID *string `json:"external_id,omitempty" validate:"omitempty,max=255"`
}

// UserUpdate carries optional account changes; nil fields are untouched
type UserUpdate struct {
	Role     *Role `json:"role,omitempty" validate:"omitempty,oneof=end_user sales admin"`
	IsActive *bool `json:"is_active,omitempty"`
}

// Empty reports whether the update changes nothing
func (u UserUpdate) Empty() bool {
	return u.Role == nil && u.IsActive == nil
}

// Principal is the authenticated caller of a request
type Principal struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// Can reports whether the principal holds at least min
func (p Principal) Can(min Role) bool {
	return p.Role.AtLeast(min)
}

// Owns reports whether the principal may act on a record owned by userID.
// Sales and admin act on everyone's records.
func (p Principal) Owns(userID uint) bool {
	return p.UserID == userID || p.Role.AtLeast(RoleSales)
}
