// Package auth issues and verifies the signed identity tokens that protect
// the API, and provides the bcrypt password helpers.
//
// Tokens carry a snapshot of the user's identity at login time and stay
// valid until expiry. There is no revocation list: a compromised token is
// usable for the remainder of its lifetime. That window is bounded by
// JWT_EXPIRES (default 7 days).
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/andrianfauzi/warungku/config"
	"github.com/andrianfauzi/warungku/pkg/apperr"
)

// Claims holds the typed JWT payload.
type Claims struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	UserLevel int    `json:"user_level"`
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(config.JWTSecret())
}

// GenerateToken creates a signed JWT for the given identity snapshot.
// Lifetime comes from JWT_EXPIRES.
func GenerateToken(userID uint, username, email string, userLevel int) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Username:  username,
		Email:     email,
		UserLevel: userLevel,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(config.JWTExpires())),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// ValidateToken parses and validates a raw token string. Any failure —
// bad signature, malformed payload, elapsed expiry — comes back as an
// InvalidToken error.
func ValidateToken(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidToken, "Invalid or expired token.", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperr.New(apperr.InvalidToken, "Invalid or expired token.")
	}

	return claims, nil
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ─── Request context ──────────────────────────────────────────────────────────

type ctxKey struct{}

// WithClaims stores verified claims in ctx for downstream handlers.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, claims)
}

// ClaimsFromCtx returns the claims attached by the auth gate, or nil for
// public routes.
func ClaimsFromCtx(ctx context.Context) *Claims {
	claims, _ := ctx.Value(ctxKey{}).(*Claims)
	return claims
}
