package http

import (
	"encoding/json"
	"net/http"

	"github.com/troias/tradematey/internal/admin/service"
	"github.com/troias/tradematey/pkg/adminsdk"
	"github.com/troias/tradematey/pkg/httpx"
	"github.com/troias/tradematey/pkg/validate"
)

type InviteRedeemHandler struct {
	InviteService *service.InviteService
}

// HandleRedeem godoc
//
//	@Summary		Redeem Invite Endpoint
//	@Description	Consume an invite token. The token itself is the credential; no session is required. A token redeems at most once; concurrent attempts race and exactly one wins.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.RedeemInviteRequest	true	"Redeem request"
//	@Success		200		{object}	adminsdk.RedeemInviteResponse	"ok"
//	@Failure		400		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/invites/redeem [post].
func (h *InviteRedeemHandler) HandleRedeem(w http.ResponseWriter, r *http.Request) {
	var req adminsdk.RedeemInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, "Invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeInvalidBody(w, err.Error())
		return
	}

	// The redeemer may be anonymous; when a session happens to be present
	// the redemption is attributed to it.
	redeemedBy := httpx.UserIDFromContext(r.Context())

	if err := h.InviteService.Redeem(r.Context(), req.Token, redeemedBy); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, adminsdk.RedeemInviteResponse{OK: true})
}

// HandleProbe godoc
//
//	@Summary		Probe Invite Endpoint
//	@Description	Check whether an invite token would currently redeem, without consuming it. Probing never burns a token.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.RedeemInviteRequest	true	"Probe request"
//	@Success		200		{object}	adminsdk.ProbeInviteResponse	"valid"
//	@Failure		400		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/invites/probe [post].
func (h *InviteRedeemHandler) HandleProbe(w http.ResponseWriter, r *http.Request) {
	var req adminsdk.RedeemInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, "Invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeInvalidBody(w, err.Error())
		return
	}

	valid, err := h.InviteService.Probe(r.Context(), req.Token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, adminsdk.ProbeInviteResponse{Valid: valid})
}
