package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/troias/tradematey/internal/admin/domain"
	"github.com/troias/tradematey/internal/admin/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	st := openTestStore(t)

	// Re-applying on an up-to-date schema must not fail.
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Ping(context.Background()))
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	binding := domain.RoleBinding{UserID: "user-1", Role: "tradie", CreatedAt: time.Now().UTC()}

	t.Run("commit makes writes visible", func(t *testing.T) {
		err := st.WithTx(ctx, func(tx store.Tx) error {
			return tx.Roles().AddRoleBinding(ctx, binding)
		})
		require.NoError(t, err)

		held, err := st.Roles().HasRoleBinding(ctx, "user-1", "tradie")
		require.NoError(t, err)
		require.True(t, held)
	})

	t.Run("error from fn rolls everything back", func(t *testing.T) {
		boom := errors.New("boom")
		err := st.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Roles().AddRoleBinding(ctx, domain.RoleBinding{
				UserID:    "user-2",
				Role:      "client",
				CreatedAt: time.Now().UTC(),
			}); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		held, err := st.Roles().HasRoleBinding(ctx, "user-2", "client")
		require.NoError(t, err)
		require.False(t, held)
	})

	t.Run("nested transactions are rejected", func(t *testing.T) {
		err := st.WithTx(ctx, func(tx store.Tx) error {
			return tx.WithTx(ctx, func(store.Tx) error { return nil })
		})
		require.ErrorIs(t, err, sql.ErrTxDone)
	})
}

func TestRolesRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	require.NoError(t, st.Roles().AddRoleBinding(ctx, domain.RoleBinding{UserID: "u", Role: "tradie", CreatedAt: time.Now().UTC()}))
	require.NoError(t, st.Roles().AddRoleBinding(ctx, domain.RoleBinding{UserID: "u", Role: "admin", CreatedAt: time.Now().UTC()}))

	// Duplicate grant is swallowed by the conflict clause.
	require.NoError(t, st.Roles().AddRoleBinding(ctx, domain.RoleBinding{UserID: "u", Role: "admin", CreatedAt: time.Now().UTC()}))

	roles, err := st.Roles().ListUserRoles(ctx, "u")
	require.NoError(t, err)
	require.Equal(t, []string{"admin", "tradie"}, roles)

	require.NoError(t, st.Roles().RemoveRoleBinding(ctx, "u", "admin"))
	// Removing again is a no-op.
	require.NoError(t, st.Roles().RemoveRoleBinding(ctx, "u", "admin"))

	roles, err = st.Roles().ListUserRoles(ctx, "u")
	require.NoError(t, err)
	require.Equal(t, []string{"tradie"}, roles)
}
