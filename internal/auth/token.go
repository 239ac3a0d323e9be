package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/expense-tracker/internal/domain"
)

// Token verification failures, ordered from least to most suspicious. The
// identity filter decides whether these reject the request or degrade it to
// anonymous; they are never surfaced to the caller as raw parser output.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
)

// TokenManager issues and verifies HS256 JWTs. The secret and TTL are fixed
// at construction and read concurrently without synchronization.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// NewTokenManagerWithTTL builds a manager with an explicit duration.
func NewTokenManagerWithTTL(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Claims describes the JWT payload. Role travels inside the token so that
// role-gated routes work without a storage round trip per request.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity reconstructs the caller from verified claims.
func (c *Claims) Identity() domain.Identity {
	return domain.Identity{Subject: c.Subject, Role: c.Role}
}

// Issue builds and signs a token for the identity. Repeated calls produce
// distinct tokens through the jti and iat claims.
func (tm *TokenManager) Issue(identity domain.Identity) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		Role: identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify checks signature and expiry, returning the embedded claims. The
// returned error is always one of the sentinel token errors.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenSignature
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, classifyTokenError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrTokenSignature):
		return ErrTokenSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	default:
		return ErrTokenMalformed
	}
}
