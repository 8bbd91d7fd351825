package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-shared-secret"

func TestVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	raw, err := Sign(testSecret, "user-1", "alice@example.com", time.Minute)
	require.NoError(t, err)

	v := NewHSVerifier(testSecret)
	claims, err := v.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "alice@example.com", claims.Email)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	raw, err := Sign("other-secret", "user-1", "", time.Minute)
	require.NoError(t, err)

	_, err = NewHSVerifier(testSecret).Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Parallel()

	raw, err := Sign(testSecret, "user-1", "", -time.Minute)
	require.NoError(t, err)

	_, err = NewHSVerifier(testSecret).Verify(raw)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	t.Parallel()

	raw, err := Sign(testSecret, "", "", time.Minute)
	require.NoError(t, err)

	_, err = NewHSVerifier(testSecret).Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := NewHSVerifier(testSecret).Verify("not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}
