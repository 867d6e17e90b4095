package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keystone_errors "github.com/dev-mohitbeniwal/keystone/errors"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager_IssueAndParse(t *testing.T) {
	m, err := NewTokenManager(testSecret, "keystone", time.Hour)
	require.NoError(t, err)

	token, expiresAt, err := m.Issue("sid-1", "u-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "keystone", claims.Issuer)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m, err := NewTokenManager(testSecret, "keystone", time.Minute)
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := m.Issue("sid-1", "u-1")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, keystone_errors.ErrInvalidToken)
}

func TestTokenManager_RejectsForeignTokens(t *testing.T) {
	m, err := NewTokenManager(testSecret, "keystone", time.Hour)
	require.NoError(t, err)

	other, err := NewTokenManager("ffffffffffffffffffffffffffffffff", "keystone", time.Hour)
	require.NoError(t, err)
	foreign, _, err := other.Issue("sid-1", "u-1")
	require.NoError(t, err)

	otherIssuer, err := NewTokenManager(testSecret, "someone-else", time.Hour)
	require.NoError(t, err)
	wrongIssuer, _, err := otherIssuer.Issue("sid-1", "u-1")
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{SessionID: "sid-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong secret": foreign,
		"wrong issuer": wrongIssuer,
		"alg none":     unsigned,
		"garbage":      "not-a-token",
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.Parse(token)
			assert.ErrorIs(t, err, keystone_errors.ErrInvalidToken)
		})
	}
}

func TestNewTokenManager_Validation(t *testing.T) {
	_, err := NewTokenManager("short", "keystone", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenManager(testSecret, "keystone", 0)
	assert.Error(t, err)
}
