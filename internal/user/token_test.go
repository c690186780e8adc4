package user

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(&User{ID: "u-1", Username: "asha", Role: RoleAdmin})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "asha", claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	issuer.now = func() time.Time { return issued }

	token, err := issuer.Issue(&User{ID: "u-1"})
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_WrongSecretOrMethod(t *testing.T) {
	token, err := NewTokenIssuer("one", time.Hour).Issue(&User{ID: "u-1"})
	require.NoError(t, err)

	_, err = NewTokenIssuer("two", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewTokenIssuer("one", time.Hour).Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Disabled(t *testing.T) {
	issuer := NewTokenIssuer("", time.Hour)

	token, err := issuer.Issue(&User{ID: "u-1"})
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.False(t, issuer.Enabled())

	_, err = issuer.Parse("anything")
	assert.ErrorIs(t, err, ErrInvalidToken)

	var nilIssuer *TokenIssuer
	assert.False(t, nilIssuer.Enabled())
}
