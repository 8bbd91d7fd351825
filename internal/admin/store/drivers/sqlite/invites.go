package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/troias/tradematey/internal/admin/domain"
	"github.com/troias/tradematey/internal/admin/store"
)

type invitesRepo struct {
	db dbtx
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invites (token_hash, email, issued_by, used, used_by, created_at, updated_at)
		VALUES (?, ?, ?, 0, NULL, ?, ?)`,
		inv.TokenHash, inv.Email, inv.IssuedBy, now, now,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *invitesRepo) GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT token_hash, email, issued_by, used, used_by, created_at, updated_at
		FROM invites
		WHERE token_hash = ?`,
		hash,
	)

	var inv domain.Invite
	var usedBy sql.NullString
	err := row.Scan(&inv.TokenHash, &inv.Email, &inv.IssuedBy, &inv.Used, &usedBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	inv.UsedBy = mapNullString(usedBy)
	return inv, nil
}

// ConsumeInvite is the single-use gate. The WHERE clause makes the
// transition conditional on used still being 0, so under concurrent
// redemption the database serialises the writers and at most one statement
// reports an affected row. No read precedes the write.
func (r *invitesRepo) ConsumeInvite(ctx context.Context, hash, usedBy string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invites
		SET used = 1, used_by = ?, updated_at = ?
		WHERE token_hash = ? AND used = 0`,
		mapStringNull(usedBy), time.Now().UTC(), hash,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
