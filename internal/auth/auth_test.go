package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier("test-secret")

	token, err := v.Sign(42, time.Minute)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestVerifier_Expired(t *testing.T) {
	v := NewVerifier("test-secret")

	token, err := v.Sign(42, -time.Minute)
	require.NoError(t, err)

	_, err = v.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifier_WrongSecret(t *testing.T) {
	token, err := NewVerifier("secret-a").Sign(42, time.Minute)
	require.NoError(t, err)

	_, err = NewVerifier("secret-b").Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifier_Garbage(t *testing.T) {
	v := NewVerifier("test-secret")

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := v.Verify(token)
		assert.Error(t, err, "token %q", token)
	}
}

func TestVerifier_MissingUserID(t *testing.T) {
	v := NewVerifier("test-secret")

	token, err := v.Sign(0, time.Minute)
	require.NoError(t, err)

	_, err = v.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
