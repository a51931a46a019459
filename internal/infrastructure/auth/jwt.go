package auth

import (
	"errors"
	"time"

	"github.com/fintrack/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType tells access tokens from refresh tokens
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken     = errors.New("auth: invalid token")
	ErrExpiredToken     = errors.New("auth: token expired")
	ErrInvalidTokenType = errors.New("auth: wrong token type")
	ErrInvalidClaims    = errors.New("auth: invalid claims")
	ErrTokenNotYetValid = errors.New("auth: token not valid yet")
	ErrMissingUserID    = errors.New("auth: token has no user")
	ErrTokenBlacklisted = errors.New("auth: token revoked")
)

// Claims are the JWT claims of both token types. Subject and UserID both
// hold the owner ID that scopes every request.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	TokenType TokenType `json:"token_type"`
}

// OwnerID parses UserID
func (c *Claims) OwnerID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// IssuedAtTime is the iat claim, zero when absent
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// RemainingTTL is how long the token stays valid, never negative
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}

// TokenPair is returned by login, register and refresh
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

type signer struct {
	key []byte
	ttl time.Duration
}

// JWTService issues and verifies HS256 tokens. Refresh tokens use their own
// key when one is configured.
type JWTService struct {
	access  signer
	refresh signer
	issuer  string
	now     func() time.Time
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshKey := cfg.RefreshSecret
	if refreshKey == "" {
		refreshKey = cfg.Secret
	}
	return &JWTService{
		access:  signer{key: []byte(cfg.Secret), ttl: cfg.AccessTokenExpiration},
		refresh: signer{key: []byte(refreshKey), ttl: cfg.RefreshTokenExpiration},
		issuer:  cfg.Issuer,
		now:     time.Now,
	}
}

// AccessTTL is the lifetime of access tokens
func (s *JWTService) AccessTTL() time.Duration { return s.access.ttl }

// GenerateTokenPair signs a new access and refresh token for userID. Only the
// access token carries the email.
func (s *JWTService) GenerateTokenPair(userID uuid.UUID, email string) (*TokenPair, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUserID
	}
	now := s.now()

	access, err := s.sign(s.access, userID, email, TokenTypeAccess, now)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(s.refresh, userID, "", TokenTypeRefresh, now)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:           access,
		RefreshToken:          refresh,
		AccessTokenExpiresAt:  now.Add(s.access.ttl),
		RefreshTokenExpiresAt: now.Add(s.refresh.ttl),
		TokenType:             "Bearer",
	}, nil
}

func (s *JWTService) sign(with signer, userID uuid.UUID, email string, typ TokenType, now time.Time) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(with.ttl)),
		},
		UserID:    userID.String(),
		Email:     email,
		TokenType: typ,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(with.key)
}

func (s *JWTService) ValidateAccessToken(token string) (*Claims, error) {
	return s.verify(token, s.access.key, TokenTypeAccess)
}

func (s *JWTService) ValidateRefreshToken(token string) (*Claims, error) {
	return s.verify(token, s.refresh.key, TokenTypeRefresh)
}

func (s *JWTService) verify(raw string, key []byte, want TokenType) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrTokenNotYetValid
	case err != nil || !token.Valid:
		return nil, ErrInvalidToken
	}

	if claims.TokenType != want {
		return nil, ErrInvalidTokenType
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	if _, err := claims.OwnerID(); err != nil {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// RefreshTokenPair verifies refreshToken and signs a new pair for its owner.
// The caller revokes the returned claims' JTI.
func (s *JWTService) RefreshTokenPair(refreshToken, email string) (*TokenPair, *Claims, error) {
	claims, err := s.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}
	owner, _ := claims.OwnerID()
	pair, err := s.GenerateTokenPair(owner, email)
	if err != nil {
		return nil, nil, err
	}
	return pair, claims, nil
}
