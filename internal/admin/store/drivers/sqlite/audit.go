package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/troias/tradematey/internal/admin/domain"
)

type auditRepo struct {
	db dbtx
}

func (r *auditRepo) AppendAuditRecord(ctx context.Context, rec domain.AuditRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, actor_user_id, target_user_id, action, token_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ActorUserID, rec.TargetUserID, rec.Action, mapStringNull(rec.TokenHash), createdAt,
	)
	return err
}

func (r *auditRepo) ListAuditRecords(ctx context.Context, limit int) ([]domain.AuditRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, actor_user_id, target_user_id, action, token_hash, created_at
		FROM audit_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		var tokenHash sql.NullString
		if err := rows.Scan(&rec.ID, &rec.ActorUserID, &rec.TargetUserID, &rec.Action, &tokenHash, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.TokenHash = mapNullString(tokenHash)
		records = append(records, rec)
	}
	return records, rows.Err()
}
