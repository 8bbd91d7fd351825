package http

import (
	"errors"
	"net/http"

	"github.com/troias/tradematey/internal/admin/domain"
	"github.com/troias/tradematey/internal/admin/service"
	"github.com/troias/tradematey/pkg/adminsdk"
	"github.com/troias/tradematey/pkg/httpx"
	"github.com/troias/tradematey/pkg/slogx"
)

// identityFromRequest builds the acting identity from whatever the session
// middleware put in the context. A zero identity is a valid outcome here;
// the authorization gate decides what that means per endpoint.
func identityFromRequest(r *http.Request) domain.Identity {
	return domain.Identity{
		UserID: httpx.UserIDFromContext(r.Context()),
		Email:  httpx.EmailFromContext(r.Context()),
	}
}

// writeServiceError maps the service failure taxonomy onto status codes and
// uniform error bodies. Unknown errors become a generic server_error: the
// real cause stays in server-side logs and never reaches the caller.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		httpx.WriteJSON(w, http.StatusUnauthorized, adminsdk.ErrorResponse{
			Error:            adminsdk.ErrKindUnauthenticated,
			ErrorDescription: "Authentication required",
		})
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteJSON(w, http.StatusForbidden, adminsdk.ErrorResponse{
			Error:            adminsdk.ErrKindForbidden,
			ErrorDescription: "Admin capability required",
		})
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrUnknownRole):
		httpx.WriteJSON(w, http.StatusBadRequest, adminsdk.ErrorResponse{
			Error:            adminsdk.ErrKindInvalidRequest,
			ErrorDescription: err.Error(),
		})
	case errors.Is(err, service.ErrInviteInvalid):
		httpx.WriteJSON(w, http.StatusNotFound, adminsdk.ErrorResponse{
			Error:            adminsdk.ErrKindInvalidToken,
			ErrorDescription: "Invite token is invalid or has already been used",
		})
	default:
		slogx.FromContext(r.Context()).Error("request failed", slogx.Err(err))
		httpx.WriteJSON(w, http.StatusInternalServerError, adminsdk.ErrorResponse{
			Error:            adminsdk.ErrKindServerError,
			ErrorDescription: "The operation could not be completed",
		})
	}
}

// writeInvalidBody rejects requests whose JSON body could not be decoded or
// failed validation.
func writeInvalidBody(w http.ResponseWriter, desc string) {
	httpx.WriteJSON(w, http.StatusBadRequest, adminsdk.ErrorResponse{
		Error:            adminsdk.ErrKindInvalidRequest,
		ErrorDescription: desc,
	})
}
