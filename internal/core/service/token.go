package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/whiskerworks/cats-api/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// tokenClaims is the JWT payload. The user id is carried both as the
// subject and as "id".
type tokenClaims struct {
	UserID   string `json:"id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 session tokens.
//
// Verify trusts the claims: it never reads the user store, so a role or
// name change is only visible after the user logs in again.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token carrying the user's identity claims.
func (m *TokenManager) Issue(user *domain.User) (string, error) {
	if len(m.secret) == 0 {
		return "", domain.ErrMissingSecret
	}

	now := m.now()
	claims := tokenClaims{
		UserID:   user.ID,
		UserName: user.UserName,
		Email:    user.Email,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Verify checks signature, algorithm and expiry, then builds the principal
// from the claims alone.
func (m *TokenManager) Verify(raw string) (*domain.Principal, error) {
	if len(m.secret) == 0 {
		return nil, domain.ErrMissingSecret
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	id := claims.Subject
	if id == "" {
		id = claims.UserID
	}
	role := domain.Role(claims.Role)
	if id == "" || !role.Valid() {
		return nil, fmt.Errorf("%w: incomplete identity claims", domain.ErrUnauthenticated)
	}

	return &domain.Principal{
		ID:       id,
		UserName: claims.UserName,
		Email:    claims.Email,
		Role:     role,
	}, nil
}
