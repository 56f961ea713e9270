package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandassets/dam/modules/core/services"
)

const bridgeTestSecret = "test-signing-secret"

func frozenClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestBridgeService_IssueAndRedeem(t *testing.T) {
	t.Parallel()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	issuer := services.NewBridgeService(bridgeTestSecret, 30*time.Second, services.WithClock(frozenClock(t0)))
	token, err := issuer.Issue(userID, "acme.brandassets.space")
	require.NoError(t, err)

	t.Run("accepted within window on matching host", func(t *testing.T) {
		redeemer := services.NewBridgeService(bridgeTestSecret, 30*time.Second,
			services.WithClock(frozenClock(t0.Add(10*time.Second))))
		got, err := redeemer.Redeem(token, "acme.brandassets.space")
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("accepted when current host carries a port", func(t *testing.T) {
		redeemer := services.NewBridgeService(bridgeTestSecret, 30*time.Second,
			services.WithClock(frozenClock(t0.Add(5*time.Second))))
		got, err := redeemer.Redeem(token, "acme.brandassets.space:443")
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("rejected after expiry even with valid signature", func(t *testing.T) {
		redeemer := services.NewBridgeService(bridgeTestSecret, 30*time.Second,
			services.WithClock(frozenClock(t0.Add(31*time.Second))))
		_, err := redeemer.Redeem(token, "acme.brandassets.space")
		assert.ErrorIs(t, err, services.ErrTokenInvalid)
	})

	t.Run("rejected on host mismatch", func(t *testing.T) {
		redeemer := services.NewBridgeService(bridgeTestSecret, 30*time.Second,
			services.WithClock(frozenClock(t0.Add(10*time.Second))))
		_, err := redeemer.Redeem(token, "other.brandassets.space")
		assert.ErrorIs(t, err, services.ErrTokenInvalid)
	})

	t.Run("rejected with wrong secret", func(t *testing.T) {
		redeemer := services.NewBridgeService("different-secret", 30*time.Second,
			services.WithClock(frozenClock(t0.Add(5*time.Second))))
		_, err := redeemer.Redeem(token, "acme.brandassets.space")
		assert.ErrorIs(t, err, services.ErrTokenInvalid)
	})

	t.Run("rejected for garbage token", func(t *testing.T) {
		redeemer := services.NewBridgeService(bridgeTestSecret, 30*time.Second,
			services.WithClock(frozenClock(t0)))
		_, err := redeemer.Redeem("not.a.jwt", "acme.brandassets.space")
		assert.ErrorIs(t, err, services.ErrTokenInvalid)
	})

	t.Run("redemption is replay-safe within the window", func(t *testing.T) {
		redeemer := services.NewBridgeService(bridgeTestSecret, 30*time.Second,
			services.WithClock(frozenClock(t0.Add(10*time.Second))))
		first, err := redeemer.Redeem(token, "acme.brandassets.space")
		require.NoError(t, err)
		second, err := redeemer.Redeem(token, "acme.brandassets.space")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestBridgeService_IssueRequiresSecret(t *testing.T) {
	t.Parallel()
	svc := services.NewBridgeService("", 30*time.Second)
	_, err := svc.Issue(uuid.New(), "acme.brandassets.space")
	require.Error(t, err)
	require.NotErrorIs(t, err, services.ErrTokenInvalid)
}
