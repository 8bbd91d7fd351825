package domain

import "time"

// Invite is a single-use credential tied to an email address. The raw token
// is handed to the invitee once at issue time; only its fingerprint is
// stored. Used flips false -> true exactly once and invites are never
// deleted, so a consumed token stays on record.
type Invite struct {
	TokenHash string
	Email     string
	IssuedBy  string
	Used      bool
	UsedBy    string // empty until redeemed
	CreatedAt time.Time
	UpdatedAt time.Time
}
