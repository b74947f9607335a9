package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the claim set GenerateJWT signs.
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// HasValidShape reports whether token looks like a JWT: three dot-separated segments.
func HasValidShape(token string) bool {
	return token != "" && len(strings.Split(token, ".")) == 3
}

// ParseClaims decodes the claims of token without verifying its signature.
// The signing key belongs to the backend; only exp is relied on here, so the
// other claims stay untyped.
func ParseClaims(token string) (jwt.MapClaims, error) {
	if !HasValidShape(token) {
		return nil, fmt.Errorf("malformed token: expected 3 segments")
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode JWT claims: %w", err)
	}
	return claims, nil
}

// IsExpired reports whether token's exp claim is before now.
// Undecodable tokens count as expired; tokens without exp never expire.
func IsExpired(token string, now time.Time) bool {
	claims, err := ParseClaims(token)
	if err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return true
	}
	if exp == nil {
		return false
	}
	return exp.Time.Before(now)
}

// GenerateJWT creates an HS256 token. The backend is the real issuer; this is
// used by fake backends and fixtures.
func GenerateJWT(userID, role, secretKey string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}

	return tokenString, nil
}
