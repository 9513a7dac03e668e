package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	accessSecret  = []byte("test-jwt-secret")
	refreshSecret = []byte("test-refresh-secret")
)

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(15 * time.Minute)
	tok, err := NewAccessToken("42", RoleManager, "canteen", exp, accessSecret)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(tok, accessSecret)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, RoleManager, claims.Role)
	assert.Equal(t, "canteen", claims.Name)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestAccessToken_Expired(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("1", RoleUser, "asha", time.Now().Add(-time.Minute), accessSecret)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, accessSecret)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("1", RoleUser, "asha", time.Now().Add(time.Minute), accessSecret)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, refreshSecret)
	require.Error(t, err)
}

func TestRefreshToken_HasUniqueID(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour)
	a, err := NewRefreshToken("1", RoleUser, "asha", exp, refreshSecret)
	require.NoError(t, err)
	b, err := NewRefreshToken("1", RoleUser, "asha", exp, refreshSecret)
	require.NoError(t, err)

	ca, err := RefreshClaimsFromToken(a, refreshSecret)
	require.NoError(t, err)
	cb, err := RefreshClaimsFromToken(b, refreshSecret)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
	assert.Equal(t, RoleUser, ca.Role)
}

func TestResetToken_RejectsAccessToken(t *testing.T) {
	t.Parallel()

	reset, err := NewResetToken("7", PasswordStamp("hash-a"), 1, time.Now().Add(time.Minute), accessSecret)
	require.NoError(t, err)
	claims, err := ResetClaimsFromToken(reset, accessSecret)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.Answered)
	assert.Equal(t, PasswordStamp("hash-a"), claims.Stamp)

	access, err := NewAccessToken("7", RoleUser, "asha", time.Now().Add(time.Minute), accessSecret)
	require.NoError(t, err)
	_, err = ResetClaimsFromToken(access, accessSecret)
	require.Error(t, err)
}

func TestAccessToken_RejectsResetToken(t *testing.T) {
	t.Parallel()

	reset, err := NewResetToken("7", PasswordStamp("hash-a"), 2, time.Now().Add(time.Minute), accessSecret)
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(reset, accessSecret)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jwt.ErrTokenInvalidAudience))

	// a reset token signed with the derived key fails the signature check too
	derived := DeriveKey(accessSecret, PurposePasswordReset)
	reset, err = NewResetToken("7", PasswordStamp("hash-a"), 2, time.Now().Add(time.Minute), derived)
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(reset, accessSecret)
	assert.True(t, errors.Is(err, jwt.ErrTokenSignatureInvalid))
}

func TestDeriveKey(t *testing.T) {
	t.Parallel()

	a := DeriveKey(accessSecret, PurposePasswordReset)
	assert.Len(t, a, 32)
	assert.Equal(t, a, DeriveKey(accessSecret, PurposePasswordReset))
	assert.NotEqual(t, accessSecret, a)
	assert.NotEqual(t, a, DeriveKey(accessSecret, "other"))
	assert.NotEqual(t, a, DeriveKey(refreshSecret, PurposePasswordReset))
}

func TestPasswordStamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, PasswordStamp("hash-a"), PasswordStamp("hash-a"))
	assert.NotEqual(t, PasswordStamp("hash-a"), PasswordStamp("hash-b"))
	assert.Len(t, PasswordStamp("hash-a"), 16)
}
