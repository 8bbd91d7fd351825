package http

import (
	"encoding/json"
	"net/http"

	"github.com/troias/tradematey/internal/admin/service"
	"github.com/troias/tradematey/pkg/adminsdk"
	"github.com/troias/tradematey/pkg/httpx"
	"github.com/troias/tradematey/pkg/validate"
)

type InviteIssueHandler struct {
	AdminService *service.AdminService
}

// ServeHTTP godoc
//
//	@Summary		Issue Invite Endpoint
//	@Description	Mint a single-use invite token for an email address. This is an admin-only operation; the raw token appears only in this response.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.IssueInviteRequest		true	"Invite request"
//	@Success		200		{object}	adminsdk.IssueInviteResponse	"token, email"
//	@Failure		400		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites [post].
func (h *InviteIssueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req adminsdk.IssueInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, "Invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeInvalidBody(w, err.Error())
		return
	}

	token, err := h.AdminService.IssueInvite(r.Context(), identityFromRequest(r), req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, adminsdk.IssueInviteResponse{
		Token: token,
		Email: req.Email,
	})
}
