package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashIsDeterministic(t *testing.T) {
	creds := newTestCredentials(t)

	digest := creds.Hash("hunter22")
	assert.Equal(t, digest, creds.Hash("hunter22"))
	assert.Len(t, digest, 64)
	assert.NotEqual(t, digest, creds.Hash("hunter23"))

	other, err := NewCredentials("another-secret", "test-salt", "HS256")
	require.NoError(t, err)
	assert.NotEqual(t, digest, other.Hash("hunter22"))
}

func TestVerify(t *testing.T) {
	creds := newTestCredentials(t)
	digest := creds.Hash("hunter22")

	assert.True(t, creds.Verify("hunter22", digest))
	assert.False(t, creds.Verify("hunter2", digest))
	assert.False(t, creds.Verify("", digest))
	assert.False(t, creds.Verify("hunter22", ""))
}

func TestTokenRoundTrip(t *testing.T) {
	creds := newTestCredentials(t)

	token, err := creds.IssueToken("user-1", "a@example.com", "farmer")
	require.NoError(t, err)

	claims, err := creds.ResolveToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "farmer", claims.UserType)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, claims.IssuedAt.Add(TokenTTL), claims.ExpiresAt.Time, time.Second)
}

func TestTokenExpiresAfterSevenDays(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	creds := newTestCredentials(t).WithClock(func() time.Time { return now })

	token, err := creds.IssueToken("user-1", "a@example.com", "buyer")
	require.NoError(t, err)

	now = now.Add(TokenTTL - time.Minute)
	_, err = creds.ResolveToken(token)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = creds.ResolveToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Equal(t, KindAuth, KindOf(err))
}

func TestResolveTokenRejectsBadInput(t *testing.T) {
	creds := newTestCredentials(t)

	_, err := creds.ResolveToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	other, err := NewCredentials("another-secret", "test-salt", "HS256")
	require.NoError(t, err)
	forged, err := other.IssueToken("user-1", "a@example.com", "admin")
	require.NoError(t, err)
	_, err = creds.ResolveToken(forged)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	hs512, err := NewCredentials("test-secret", "test-salt", "HS512")
	require.NoError(t, err)
	wrongAlg, err := hs512.IssueToken("user-1", "a@example.com", "buyer")
	require.NoError(t, err)
	_, err = creds.ResolveToken(wrongAlg)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = creds.ResolveToken(noExpiry)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestNewCredentialsRejectsNonHMAC(t *testing.T) {
	_, err := NewCredentials("secret", "salt", "RS256")
	assert.Error(t, err)

	_, err = NewCredentials("secret", "salt", "none")
	assert.Error(t, err)

	creds, err := NewCredentials("secret", "salt", "")
	require.NoError(t, err)
	assert.Equal(t, "HS256", creds.method.Alg())
}
