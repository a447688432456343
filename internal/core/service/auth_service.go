package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/escola-conecta/blog-api/internal/core/domain"
	"github.com/escola-conecta/blog-api/internal/core/ports"
	"github.com/escola-conecta/blog-api/internal/metrics"
)

// bcryptCost is deliberately above the library default; registration and
// password changes are not hot paths.
const bcryptCost = 12

// AuthService implements registration, login and profile business rules.
type AuthService struct {
	repo   ports.UserRepository
	tokens ports.TokenService
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, log: log}
}

// Register creates a student or teacher account. The admin role is not
// reachable from this path; request validation rejects it before the
// service is called, and an empty role defaults to student here.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleStudent
	}
	if role != domain.RoleStudent && role != domain.RoleTeacher {
		return nil, domain.ErrForbidden
	}

	if existing, err := s.repo.FindByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, domain.ErrEmailTaken
	} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	pair, err := s.tokens.IssuePair(created.ID, created.Email, created.Role)
	if err != nil {
		return nil, err
	}

	metrics.UsersRegisteredTotal.WithLabelValues(created.Role).Inc()
	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")

	return &ports.AuthResult{
		User:         toProfile(created),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Login authenticates by email and password. Unknown user, deactivated
// account and wrong password all collapse into ErrInvalidCredentials so
// the response never reveals which one failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	} else {
		user.LastLogin = now
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return &ports.AuthResult{
		User:         toProfile(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// ValidateCredentials returns (nil, nil) on any failure: absent user,
// inactive account, password mismatch, or storage error. The middleware
// using it decides how to react.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*ports.UserProfile, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil || user == nil || !user.IsActive {
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	profile := toProfile(user)
	return &profile, nil
}

func (s *AuthService) FindByID(ctx context.Context, id string) (*ports.UserProfile, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := toProfile(user)
	return &profile, nil
}

// UpdateProfile applies a partial name/email update. A new email that
// belongs to a different existing account yields ErrEmailTaken.
func (s *AuthService) UpdateProfile(ctx context.Context, id string, in ports.UpdateProfileInput) (*ports.UserProfile, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != user.Email {
		if existing, err := s.repo.FindByEmail(ctx, *in.Email); err == nil && existing != nil {
			return nil, domain.ErrEmailTaken
		} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, ports.UserUpdate{Name: in.Name, Email: in.Email})
	if err != nil {
		return nil, err
	}
	profile := toProfile(updated)
	return &profile, nil
}

// ChangePassword verifies the current password before re-hashing the new
// one. A mismatch is ErrWrongPassword (401), not a silent failure.
func (s *AuthService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, string(hash))
}

// FindUsersByRole lists active users of a role, newest first.
func (s *AuthService) FindUsersByRole(ctx context.Context, role string) ([]ports.UserProfile, error) {
	users, err := s.repo.FindByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	profiles := make([]ports.UserProfile, len(users))
	for i, u := range users {
		profiles[i] = toProfile(u)
	}
	return profiles, nil
}

func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// EnsureAdmin seeds the initial admin account. It is a no-op when any
// admin already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, name, password string) error {
	admins, err := s.repo.FindByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if len(admins) > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = s.repo.Create(ctx, &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("email", email).Msg("seeded admin account")
	return nil
}

// toProfile is the single mapping from stored users to their public shape.
// The password hash stays behind on every path through here.
func toProfile(u *domain.User) ports.UserProfile {
	return ports.UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		AvatarURL: u.AvatarURL,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
