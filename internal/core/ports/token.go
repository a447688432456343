package ports

// TokenPair holds the two signed tokens issued on register/login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenClaims is the payload carried by both tokens.
type TokenClaims struct {
	Subject string // user id
	Email   string
	Role    string
}

// TokenService issues and verifies signed, time-limited tokens. Verification
// proves the token only; callers must re-fetch the live user record and
// reject deactivated accounts themselves.
type TokenService interface {
	IssuePair(userID, email, role string) (TokenPair, error)
	Parse(token string) (*TokenClaims, error)
}
