package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager("secret", "bookreview", time.Hour)

	token, err := m.GenerateToken(42, "reader")
	require.NoError(t, err)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "reader", claims.Nickname)
	assert.Equal(t, "42", claims.Subject)
}

func TestManager_ParseToken_Expired(t *testing.T) {
	m := NewManager("secret", "bookreview", -time.Minute)

	token, err := m.GenerateToken(1, "reader")
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestManager_ParseToken_Invalid(t *testing.T) {
	m := NewManager("secret", "bookreview", time.Hour)
	other := NewManager("other-secret", "bookreview", time.Hour)
	foreign := NewManager("secret", "someone-else", time.Hour)

	forged, err := other.GenerateToken(1, "reader")
	require.NoError(t, err)
	wrongIssuer, err := foreign.GenerateToken(1, "reader")
	require.NoError(t, err)

	for _, token := range []string{"not-a-token", forged, wrongIssuer} {
		_, err := m.ParseToken(token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	}
}
