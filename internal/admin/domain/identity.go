package domain

// Identity is the acting identity derived per-request from the marketplace
// session. It is ephemeral: the auth subsystem owns its lifecycle, this
// service only reads it. The zero value means "no identity presented",
// which authorization treats as unauthenticated rather than forbidden.
type Identity struct {
	UserID string
	Email  string
}

// IsZero reports whether no identity was presented.
func (i Identity) IsZero() bool { return i.UserID == "" }
