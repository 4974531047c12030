package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken("U7", "s@pict.edu", "Student", "STUDENT")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "U7", claims.UserID)
	assert.Equal(t, "STUDENT", claims.Role)
	assert.Equal(t, "U7", claims.Subject)
	assert.Equal(t, "library", claims.Issuer)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	signer := NewManager("secret-a", time.Hour, time.Hour)
	verifier := NewManager("secret-b", time.Hour, time.Hour)

	pair, err := signer.GenerateToken("U1", "a@b.c", "A", "ADMIN")
	require.NoError(t, err)

	_, err = verifier.ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestParseExpired(t *testing.T) {
	m := NewManager("secret", -time.Minute, time.Hour)

	pair, err := m.GenerateToken("U1", "a@b.c", "A", "STUDENT")
	require.NoError(t, err)

	_, err = m.ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestRefreshAccessToken(t *testing.T) {
	m := NewManager("secret", time.Hour, 24*time.Hour)
	pair, err := m.GenerateToken("U3", "a@b.c", "A", "STUDENT")
	require.NoError(t, err)

	access, err := m.RefreshAccessToken(pair.RefreshToken, "a@b.c", "A", "ADMIN")
	require.NoError(t, err)

	claims, err := m.ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, "U3", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
}
