package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/escola-conecta/blog-api/internal/core/domain"
	"github.com/escola-conecta/blog-api/internal/core/ports"
)

const (
	defaultAccessTTL  = 7 * 24 * time.Hour
	defaultRefreshTTL = 30 * 24 * time.Hour
)

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 token pairs.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager creates a TokenManager. Zero TTLs fall back to the
// defaults (7d access, 30d refresh).
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenManager{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssuePair signs a short-lived access token and a long-lived refresh
// token carrying the same payload.
func (m *TokenManager) IssuePair(userID, email, role string) (ports.TokenPair, error) {
	access, err := m.sign(userID, email, role, m.accessTTL)
	if err != nil {
		return ports.TokenPair{}, err
	}
	refresh, err := m.sign(userID, email, role, m.refreshTTL)
	if err != nil {
		return ports.TokenPair{}, err
	}
	return ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Parse verifies signature and expiry and returns the payload. Any failure
// maps to ErrInvalidCredentials; callers must not leak the distinction.
func (m *TokenManager) Parse(token string) (*ports.TokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidCredentials
	}
	return &ports.TokenClaims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
	}, nil
}

func (m *TokenManager) sign(userID, email, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}
