package store

import (
	"context"
	"errors"

	"github.com/troias/tradematey/internal/admin/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access contract. Concrete drivers (sqlite today)
// implement it. Every component takes its Store explicitly - there is no
// package-level database handle - so tests can substitute a double or an
// in-memory driver.
type Store interface {
	Invites() Invites
	Roles() Roles
	Audit() Audit

	ApplyMigrations() error

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Invites interface {
	// CreateInvite writes a new invite (token_hash is the SHA-256
	// fingerprint of the opaque invite token, never the token itself).
	CreateInvite(ctx context.Context, inv domain.Invite) error

	// GetInviteByTokenHash returns an invite by fingerprint, used or not.
	// Read-only: this is the probe path and must not change state.
	GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error)

	// ConsumeInvite flips used false -> true for the given fingerprint as a
	// single conditional write ("set used where token_hash=? and used=0").
	// It reports whether THIS call performed the transition. The affected-row
	// count of that one statement is the sole source of truth: a missing
	// token and an already-consumed token both report false with no error,
	// and two concurrent calls can never both report true.
	ConsumeInvite(ctx context.Context, hash, usedBy string) (bool, error)
}

type Roles interface {
	// AddRoleBinding grants a capability to a user. Granting a capability
	// the user already holds is a no-op, not an error.
	AddRoleBinding(ctx context.Context, b domain.RoleBinding) error

	// RemoveRoleBinding revokes a capability. Removing an absent binding is
	// a no-op.
	RemoveRoleBinding(ctx context.Context, userID, role string) error

	// ListUserRoles returns every capability the user currently holds.
	ListUserRoles(ctx context.Context, userID string) ([]string, error)

	// HasRoleBinding reports set membership for one capability. The
	// authorization gate calls this fresh on every privileged request.
	HasRoleBinding(ctx context.Context, userID, role string) (bool, error)
}

type Audit interface {
	// AppendAuditRecord inserts one record. Records are append-only; there
	// is deliberately no update or delete operation on this interface.
	AppendAuditRecord(ctx context.Context, rec domain.AuditRecord) error

	// ListAuditRecords returns up to limit records ordered by created_at
	// descending (ULID id as tiebreaker).
	ListAuditRecords(ctx context.Context, limit int) ([]domain.AuditRecord, error)
}
