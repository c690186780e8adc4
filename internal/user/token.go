package user

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are carried in access tokens.
type Claims struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns an issuer. An empty secret disables token auth:
// Issue returns "" and Parse always fails.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Enabled reports whether a signing secret is configured.
func (t *TokenIssuer) Enabled() bool {
	return t != nil && len(t.secret) > 0
}

// Issue returns a signed token for u.
func (t *TokenIssuer) Issue(u *User) (string, error) {
	if !t.Enabled() {
		return "", nil
	}
	now := t.now()
	claims := Claims{
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies tokenString and returns its claims.
func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	if !t.Enabled() {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	return claims, nil
}
