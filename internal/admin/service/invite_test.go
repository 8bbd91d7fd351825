package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/troias/tradematey/internal/admin/store"
	"github.com/troias/tradematey/internal/admin/store/drivers/sqlite"
	"github.com/troias/tradematey/pkg/cryptox"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestIssueInvite(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &InviteService{Store: st}

	t.Run("rejects missing or malformed email", func(t *testing.T) {
		_, err := svc.Issue(ctx, "", "admin-1")
		require.ErrorIs(t, err, ErrInvalidRequest)

		_, err = svc.Issue(ctx, "not-an-email", "admin-1")
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("returns prefixed raw token and stores only the fingerprint", func(t *testing.T) {
		token, err := svc.Issue(ctx, "alice@example.com", "admin-1")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(token, InviteTokenPrefix))

		inv, err := st.Invites().GetInviteByTokenHash(ctx, cryptox.FingerprintToken(token))
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", inv.Email)
		require.Equal(t, "admin-1", inv.IssuedBy)
		require.False(t, inv.Used)

		// The raw token itself must never be a lookup key.
		_, err = st.Invites().GetInviteByTokenHash(ctx, token)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("repeat issuance for one email yields independent tokens", func(t *testing.T) {
		first, err := svc.Issue(ctx, "bob@example.com", "admin-1")
		require.NoError(t, err)
		second, err := svc.Issue(ctx, "bob@example.com", "admin-1")
		require.NoError(t, err)
		require.NotEqual(t, first, second)

		// Both remain redeemable.
		require.NoError(t, svc.Redeem(ctx, first, "user-a"))
		require.NoError(t, svc.Redeem(ctx, second, "user-b"))
	})
}

func TestProbeInvite(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &InviteService{Store: st}

	token, err := svc.Issue(ctx, "carol@example.com", "admin-1")
	require.NoError(t, err)

	t.Run("empty and unknown tokens probe invalid without error", func(t *testing.T) {
		valid, err := svc.Probe(ctx, "")
		require.NoError(t, err)
		require.False(t, valid)

		valid, err = svc.Probe(ctx, "tmi_does-not-exist")
		require.NoError(t, err)
		require.False(t, valid)
	})

	t.Run("probing never consumes the token", func(t *testing.T) {
		for range 3 {
			valid, err := svc.Probe(ctx, token)
			require.NoError(t, err)
			require.True(t, valid)
		}

		// Still redeemable after repeated probes.
		require.NoError(t, svc.Redeem(ctx, token, "user-c"))
	})

	t.Run("consumed tokens probe invalid", func(t *testing.T) {
		valid, err := svc.Probe(ctx, token)
		require.NoError(t, err)
		require.False(t, valid)
	})
}

func TestRedeemInvite(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &InviteService{Store: st}

	t.Run("empty token is a validation failure, not an invalid invite", func(t *testing.T) {
		err := svc.Redeem(ctx, "", "user-1")
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("unknown token reports invalid, never a store error", func(t *testing.T) {
		err := svc.Redeem(ctx, "tmi_never-issued", "user-1")
		require.ErrorIs(t, err, ErrInviteInvalid)
	})

	t.Run("second redemption of the same token is rejected", func(t *testing.T) {
		token, err := svc.Issue(ctx, "dave@example.com", "admin-1")
		require.NoError(t, err)

		require.NoError(t, svc.Redeem(ctx, token, "user-1"))

		err = svc.Redeem(ctx, token, "user-2")
		require.ErrorIs(t, err, ErrInviteInvalid)

		// The winner's identity sticks.
		inv, err := st.Invites().GetInviteByTokenHash(ctx, cryptox.FingerprintToken(token))
		require.NoError(t, err)
		require.True(t, inv.Used)
		require.Equal(t, "user-1", inv.UsedBy)
	})
}

func TestConcurrentRedemptionHasExactlyOneWinner(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &InviteService{Store: st}

	token, err := svc.Issue(ctx, "erin@example.com", "admin-1")
	require.NoError(t, err)

	const contenders = 16
	errs := make([]error, contenders)

	var wg sync.WaitGroup
	for i := range contenders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = svc.Redeem(ctx, token, "user-1")
		}()
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			require.ErrorIs(t, err, ErrInviteInvalid)
		}
	}
	require.Equal(t, 1, winners)
}
