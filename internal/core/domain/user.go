package domain

import "time"

// Roles assignable to users. RoleAdmin is never accepted from public
// registration; it only exists via seeding or manual assignment.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleTeacher || role == RoleAdmin
}

// User models an account as stored in the credential store. PasswordHash
// never crosses the API boundary; handlers only ever see ports.UserProfile.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	IsActive     bool
	AvatarURL    string
	LastLogin    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
