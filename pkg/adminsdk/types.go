// Package adminsdk holds the request and response types of the TradeMatey
// admin service HTTP surface. Handlers encode them, Go callers and the test
// suite decode them, so the wire contract lives in exactly one place.
package adminsdk

import "time"

// Machine-readable error kinds carried in ErrorResponse.Error. These map
// one-to-one onto HTTP status codes (401, 403, 400, 404, 500), but the body
// field is the authoritative signal for callers that only inspect bodies.
const (
	ErrKindUnauthenticated = "unauthenticated" // 401: no identity presented
	ErrKindForbidden       = "forbidden"       // 403: identity lacks the capability
	ErrKindInvalidRequest  = "invalid_request" // 400: malformed or missing fields
	ErrKindInvalidToken    = "invalid_token"   // 404: token absent or already consumed
	ErrKindServerError     = "server_error"    // 500: store rejected the operation
)

// ErrorResponse is the uniform error body for every endpoint.
type ErrorResponse struct {
	// Error is the machine-readable kind (see ErrKind* constants).
	Error string `json:"error"`

	// ErrorDescription is a human-readable description. It never carries
	// internal store error text.
	ErrorDescription string `json:"error_description"`
}

// IssueInviteRequest creates a single-use invite for an email address.
type IssueInviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// IssueInviteResponse returns the raw invite token. This is the only time
// the raw token is ever visible; the store keeps a fingerprint.
type IssueInviteResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// RedeemInviteRequest consumes an invite token. The token itself is the
// credential; no session is required.
type RedeemInviteRequest struct {
	Token string `json:"token" validate:"required"`
}

// RedeemInviteResponse reports a winning redemption.
type RedeemInviteResponse struct {
	OK bool `json:"ok"`
}

// ProbeInviteResponse reports validity without consuming the token.
type ProbeInviteResponse struct {
	Valid bool `json:"valid"`
}

// AssignRoleRequest grants a capability to a target user.
type AssignRoleRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required"`
}

// RevokeRoleRequest removes a capability from a target user.
type RevokeRoleRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required"`
}

// RoleBindingsResponse reports the target user's bindings after a role
// mutation.
type RoleBindingsResponse struct {
	OK     bool     `json:"ok"`
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
}

// RedeemOnBehalfRequest consumes an invite for a target user. Admin only.
type RedeemOnBehalfRequest struct {
	Token  string `json:"token" validate:"required"`
	UserID string `json:"user_id" validate:"required"`
}

// AuditRecord is one append-only entry of the privileged-action trail.
type AuditRecord struct {
	ID           string    `json:"id"`
	ActorUserID  string    `json:"actor_user_id"`
	TargetUserID string    `json:"target_user_id"`
	Action       string    `json:"action"`
	Token        string    `json:"token,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuditListResponse lists audit records newest-first, capped server-side.
type AuditListResponse struct {
	Data []AuditRecord `json:"data"`
}

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the livez and readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
