package sqlite

import (
	"context"
	"time"

	"github.com/troias/tradematey/internal/admin/domain"
)

type rolesRepo struct {
	db dbtx
}

func (r *rolesRepo) AddRoleBinding(ctx context.Context, b domain.RoleBinding) error {
	// ON CONFLICT keeps the grant idempotent: re-assigning a held role
	// neither errors nor bumps created_at.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO role_bindings (user_id, role, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, role) DO NOTHING`,
		b.UserID, b.Role, time.Now().UTC(),
	)
	return err
}

func (r *rolesRepo) RemoveRoleBinding(ctx context.Context, userID, role string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM role_bindings
		WHERE user_id = ? AND role = ?`,
		userID, role,
	)
	return err
}

func (r *rolesRepo) ListUserRoles(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT role
		FROM role_bindings
		WHERE user_id = ?
		ORDER BY role`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *rolesRepo) HasRoleBinding(ctx context.Context, userID, role string) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(1)
		FROM role_bindings
		WHERE user_id = ? AND role = ?`,
		userID, role,
	)

	var count int
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
