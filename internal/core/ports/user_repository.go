package ports

import (
	"context"
	"time"

	"github.com/escola-conecta/blog-api/internal/core/domain"
)

// UserUpdate carries a partial profile update. Nil fields are left untouched.
type UserUpdate struct {
	Name  *string
	Email *string
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail matches the stored email exactly (case-sensitive).
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByRole returns active users of the role, newest first.
	FindByRole(ctx context.Context, role string) ([]*domain.User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
