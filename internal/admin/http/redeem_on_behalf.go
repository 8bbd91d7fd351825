package http

import (
	"encoding/json"
	"net/http"

	"github.com/troias/tradematey/internal/admin/service"
	"github.com/troias/tradematey/pkg/adminsdk"
	"github.com/troias/tradematey/pkg/httpx"
	"github.com/troias/tradematey/pkg/validate"
)

type RedeemOnBehalfHandler struct {
	AdminService *service.AdminService
}

// ServeHTTP godoc
//
//	@Summary		Redeem On Behalf Endpoint
//	@Description	Consume an invite token for a target user, e.g. when support completes a signup over the phone. Admin-only, unlike the public redeem endpoint where the token itself is the credential.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.RedeemOnBehalfRequest	true	"On-behalf redemption"
//	@Success		200		{object}	adminsdk.RedeemInviteResponse	"ok"
//	@Failure		400		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/admin/redemptions [post].
func (h *RedeemOnBehalfHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req adminsdk.RedeemOnBehalfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, "Invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeInvalidBody(w, err.Error())
		return
	}

	err := h.AdminService.RedeemOnBehalf(r.Context(), identityFromRequest(r), req.Token, req.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, adminsdk.RedeemInviteResponse{OK: true})
}
