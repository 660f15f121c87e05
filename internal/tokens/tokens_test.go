package tokens

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIssuer() *Issuer {
	return &Issuer{
		Secret:   []byte("test-jwt-secret"),
		Issuer:   "test",
		Audience: "test-clients",
	}
}

func TestSignAndParseAccessToken(t *testing.T) {
	iss := testIssuer()

	token, exp, err := iss.SignAccessToken(42, "alice", "alice@example.com", []string{"Admin"})
	require.NoError(t, err)

	claims, err := iss.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, []string{"Admin"}, claims.Roles)
	assert.True(t, claims.HasRole("Admin"))
	assert.False(t, claims.HasRole("User"))

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	assert.WithinDuration(t, time.Now().Add(DefaultAccessMinutes*time.Minute), exp, 5*time.Second)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	iss := testIssuer()
	token, _, err := iss.SignAccessToken(1, "alice", "alice@example.com", nil)
	require.NoError(t, err)

	other := testIssuer()
	other.Secret = []byte("another-secret")
	_, err = other.ParseAccessToken(token)
	require.Error(t, err)
}

func TestParseAccessToken_WrongAudience(t *testing.T) {
	iss := testIssuer()
	token, _, err := iss.SignAccessToken(1, "alice", "alice@example.com", nil)
	require.NoError(t, err)

	other := testIssuer()
	other.Audience = "someone-else"
	_, err = other.ParseAccessToken(token)
	require.Error(t, err)
}

func TestParseAccessToken_Expired(t *testing.T) {
	iss := testIssuer()
	claims := AccessClaims{
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    iss.Issuer,
			Audience:  jwt.ClaimStrings{iss.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(iss.Secret)
	require.NoError(t, err)

	_, err = iss.ParseAccessToken(token)
	require.Error(t, err)
}

func TestNewRefreshToken(t *testing.T) {
	first, err := NewRefreshToken()
	require.NoError(t, err)
	second, err := NewRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	raw, err := base64.StdEncoding.DecodeString(first)
	require.NoError(t, err)
	assert.Len(t, raw, 64)
}
