package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/edustream/auth-service/internal/domain/entity"
)

// Verification failures are reported as one of these sentinels so callers
// can distinguish an expired token from a forged or mangled one.
var (
	ErrTokenMalformed   = errors.New("token is malformed")
	ErrSignatureInvalid = errors.New("token signature is invalid")
	ErrTokenExpired     = errors.New("token is expired")
	ErrTokenNotYetValid = errors.New("token is not valid yet")
)

// JWTManager signs and verifies self-contained bearer tokens. It is
// stateless aside from the injected secret, lifetime, and clock-skew
// leeway; it never reads process-wide state.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	leeway time.Duration
}

func NewJWTManager(secret string, ttl, leeway time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), ttl: ttl, leeway: leeway}
}

// Claims is the token payload: integrity-protected but not confidential,
// so it must never carry secret values.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issue creates a signed token for the user. Lifetime is deliberately
// short (hours, not days); revocation covers early invalidation.
func (m *JWTManager) Issue(u *entity.User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.ttl)
	claims := &Claims{
		Email: entity.NormalizeEmail(u.Email),
		Role:  u.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	return s, exp, err
}

// Parse verifies the signature and the time window of a token string.
// Only HS256 is accepted: the algorithm is pinned at the verifier, never
// taken from the token header, which defends against alg-substitution.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(token *jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(m.leeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, mapJWTError(err)
	}
	return claims, nil
}

// mapJWTError collapses the library error chain onto our sentinels.
// Expiry is checked before the generic invalid bucket so a stale but
// well-formed token is never misreported as a signature mismatch.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrTokenNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignatureInvalid
	default:
		return ErrTokenMalformed
	}
}
