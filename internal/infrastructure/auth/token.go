// Package auth issues and verifies the credentials backing the HTTP
// layer: bcrypt password hashes and signed bearer tokens.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/veldran/kingdom-manager/internal/domain/user"
	"github.com/veldran/kingdom-manager/internal/usecase"
)

// Claims is the token payload. UserID scopes every tenant-store access
// made on behalf of the caller.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// TokenManager signs and verifies HMAC bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}

	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for the account.
func (m *TokenManager) Issue(u user.User) (string, error) {
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID:   u.ID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}

// Verify parses and validates a bearer token, returning its claims.
// Every failure mode collapses into unauthorized.
func (m *TokenManager) Verify(token string) (Claims, error) {
	if token == "" {
		return Claims{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", usecase.ErrUnauthorized, err)
	}
	if !parsed.Valid || claims.UserID <= 0 {
		return Claims{}, fmt.Errorf("%w: invalid token claims", usecase.ErrUnauthorized)
	}

	return claims, nil
}

// VerifyAccessToken adapts Verify to the principal shape the HTTP layer
// consumes.
func (m *TokenManager) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	claims, err := m.Verify(token)
	if err != nil {
		return user.Principal{}, err
	}

	return user.Principal{
		UserID:   claims.UserID,
		Username: claims.Username,
		IsAdmin:  claims.IsAdmin,
	}, nil
}
