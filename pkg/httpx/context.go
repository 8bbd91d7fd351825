package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUserID carries the authenticated subject's user ID.
	CtxKeyUserID ctxKey = "user_id"
	// CtxKeyEmail carries the authenticated subject's email, when present.
	CtxKeyEmail ctxKey = "email"
)

// UserIDFromContext returns the authenticated user ID, or "" when the
// request carried no session. Callers must treat "" as unauthenticated, not
// as a real identity.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// EmailFromContext returns the authenticated email, or "".
func EmailFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyEmail).(string); ok {
		return v
	}
	return ""
}
