package domain

import "time"

// Audit actions recorded by the dispatcher.
const (
	AuditActionInviteIssued   = "invite.issued"
	AuditActionRoleAssigned   = "role.assigned"
	AuditActionRoleRevoked    = "role.revoked"
	AuditActionInviteRedeemed = "invite.redeemed_on_behalf"
)

// AuditRecord is an append-only entry describing who did what to whom.
// Records are never mutated or deleted; the reader returns them newest
// first.
type AuditRecord struct {
	ID           string
	ActorUserID  string
	TargetUserID string
	Action       string
	TokenHash    string // set for invite actions, empty otherwise
	CreatedAt    time.Time
}
