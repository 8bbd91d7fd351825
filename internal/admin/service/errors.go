package service

import "errors"

// Failure taxonomy shared by the services. Handlers dispatch on these with
// errors.Is and map them onto status codes; anything not in this list is
// treated as a persistence failure whose detail stays in server-side logs.
var (
	// ErrUnauthenticated reports that no acting identity was presented.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden reports that the acting identity lacks the required
	// capability. Distinct from ErrUnauthenticated so callers can tell
	// "log in" from "not permitted".
	ErrForbidden = errors.New("capability not held")

	// ErrInvalidRequest reports missing or malformed request fields,
	// detected before any store access.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInviteInvalid reports a token that does not exist or was already
	// consumed. The two cases are deliberately indistinguishable to callers.
	ErrInviteInvalid = errors.New("invite token invalid or already used")

	// ErrUnknownRole reports a role name this deployment does not recognise.
	ErrUnknownRole = errors.New("unknown role")
)
