package http

import (
	"net/http"
	"time"

	"github.com/troias/tradematey/pkg/adminsdk"
	"github.com/troias/tradematey/pkg/httpx"
)

// LivezHandler godoc
//
//	@Summary		Liveness Probe Endpoint
//	@Description	Returns 200 OK with uptime and version whenever the process is running.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	adminsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, adminsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
