package http

import (
	"net/http"
	"strconv"

	"github.com/troias/tradematey/internal/admin/service"
	"github.com/troias/tradematey/pkg/adminsdk"
	"github.com/troias/tradematey/pkg/httpx"
)

type AuditHandler struct {
	AuditService *service.AuditService
}

// ServeHTTP godoc
//
//	@Summary		List Audit Trail Endpoint
//	@Description	Return privileged-action audit records, newest first. The limit query parameter is honoured up to a server-side cap.
//	@Tags			Audit
//	@Produce		json
//	@Param			limit	query		int							false	"Maximum records to return (capped server-side)"
//	@Success		200		{object}	adminsdk.AuditListResponse	"data"
//	@Failure		401		{object}	adminsdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	adminsdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	adminsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/admin/audit [get].
func (h *AuditHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
		// Unparseable limits fall through to the server-side default.
	}

	records, err := h.AuditService.List(r.Context(), identityFromRequest(r), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response := adminsdk.AuditListResponse{
		Data: make([]adminsdk.AuditRecord, len(records)),
	}
	for i, rec := range records {
		response.Data[i] = adminsdk.AuditRecord{
			ID:           rec.ID,
			ActorUserID:  rec.ActorUserID,
			TargetUserID: rec.TargetUserID,
			Action:       rec.Action,
			Token:        rec.TokenHash,
			CreatedAt:    rec.CreatedAt,
		}
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
