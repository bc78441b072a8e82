package model

import "time"

// UserRole enumerates the account roles recognized by the platform.  ADMIN
// accounts can never be created through public registration; they are
// provisioned via the secret-gated create-admin endpoint.
type UserRole string

const (
	RoleStudent   UserRole = "STUDENT"
	RoleAlumni    UserRole = "ALUMNI"
	RoleProfessor UserRole = "PROFESSOR"
	RoleAdmin     UserRole = "ADMIN"
)

// ValidRegistrationRole reports whether the role is one a user may pick for
// themselves when registering.
func ValidRegistrationRole(r UserRole) bool {
	switch r {
	case RoleStudent, RoleAlumni, RoleProfessor:
		return true
	}
	return false
}

// User mirrors the `users` table.  Username and email are both unique and
// both accepted as login identifiers.
type User struct {
	ID               uint64    `gorm:"primaryKey" json:"id"`
	Username         string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email            string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name             string    `gorm:"size:255;not null" json:"name"`
	PasswordHash     string    `gorm:"size:255;not null" json:"-"`
	Role             UserRole  `gorm:"size:16;not null" json:"role"`
	ProfileCompleted bool      `gorm:"not null;default:false" json:"profile_completed"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
