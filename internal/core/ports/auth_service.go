package ports

import (
	"context"
	"time"
)

// UserProfile is the public shape of a user. It deliberately has no
// password field: mapping to this struct is the single point where
// stored users are exposed outside the service layer.
type UserProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	LastLogin time.Time `json:"lastLogin,omitzero"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User         UserProfile `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// RegisterInput carries a public registration request. Role is student or
// teacher; empty defaults to student. Admin is rejected upstream.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Role     string
}

// UpdateProfileInput is a partial update; nil fields are ignored.
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

// AuthService implements the registration, login and profile business rules.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// ValidateCredentials returns (nil, nil) on any failure; it never
	// distinguishes why. Used by authentication middleware.
	ValidateCredentials(ctx context.Context, email, password string) (*UserProfile, error)
	FindByID(ctx context.Context, id string) (*UserProfile, error)
	UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*UserProfile, error)
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error
	FindUsersByRole(ctx context.Context, role string) ([]UserProfile, error)
	DeleteUser(ctx context.Context, id string) error
	// EnsureAdmin creates the given admin account unless an admin already exists.
	EnsureAdmin(ctx context.Context, email, name, password string) error
}
