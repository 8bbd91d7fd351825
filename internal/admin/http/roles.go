package http

import (
	"encoding/json"
	"net/http"

	"github.com/troias/tradematey/internal/admin/service"
	"github.com/troias/tradematey/pkg/adminsdk"
	"github.com/troias/tradematey/pkg/httpx"
	"github.com/troias/tradematey/pkg/validate"
)

type RolesHandler struct {
	AdminService *service.AdminService
}

// HandleAssign godoc
//
//	@Summary		Assign Role Endpoint
//	@Description	Grant a capability to a target user. Admin-only; the mutation is recorded on the audit trail.
//	@Tags			Roles
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.AssignRoleRequest		true	"Role assignment"
//	@Success		200		{object}	adminsdk.RoleBindingsResponse	"ok, user_id, roles"
//	@Failure		400		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/admin/roles [post].
func (h *RolesHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	var req adminsdk.AssignRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, "Invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeInvalidBody(w, err.Error())
		return
	}

	roles, err := h.AdminService.AssignRole(r.Context(), identityFromRequest(r), req.UserID, req.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, adminsdk.RoleBindingsResponse{
		OK:     true,
		UserID: req.UserID,
		Roles:  roles,
	})
}

// HandleRevoke godoc
//
//	@Summary		Revoke Role Endpoint
//	@Description	Remove a capability from a target user. Admin-only; the mutation is recorded on the audit trail.
//	@Tags			Roles
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.RevokeRoleRequest		true	"Role revocation"
//	@Success		200		{object}	adminsdk.RoleBindingsResponse	"ok, user_id, roles"
//	@Failure		400		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	adminsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/admin/roles [delete].
func (h *RolesHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	var req adminsdk.RevokeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, "Invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeInvalidBody(w, err.Error())
		return
	}

	roles, err := h.AdminService.RevokeRole(r.Context(), identityFromRequest(r), req.UserID, req.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, adminsdk.RoleBindingsResponse{
		OK:     true,
		UserID: req.UserID,
		Roles:  roles,
	})
}
