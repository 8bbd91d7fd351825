package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/troias/tradematey/internal/admin/service"
	"github.com/troias/tradematey/internal/admin/store"
	"github.com/troias/tradematey/pkg/httpx"
	"github.com/troias/tradematey/pkg/jwtx"
	"github.com/troias/tradematey/pkg/slogx"

	_ "github.com/troias/tradematey/api/admin" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	AdminService  *service.AdminService
	InviteService *service.InviteService
	AuditService  *service.AuditService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Every request gets a scoped logger and, when a session is presented,
	// an acting identity.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.IdentityMiddleware(r.verifier),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInvites()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			TradeMatey Admin Service API
//	@version		0.1.0
//	@description	Role-gated administrative actions for the TradeMatey marketplace: single-use invites, role assignment, and the privileged-action audit trail.
//	@description
//	@description				Privileged endpoints authenticate with a marketplace session token and are authorized against the caller's current role bindings on every request.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Marketplace session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerInvites() {
	issueHandler := &InviteIssueHandler{AdminService: r.AdminService}
	redeemHandler := &InviteRedeemHandler{InviteService: r.InviteService}

	// POST /v1/invites - admin mint operation, moderate limit by user.
	r.Mux.Handle("POST /v1/invites",
		httpx.Chain(issueHandler,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /v1/invites/redeem - public endpoint guessing at tokens, strict
	// limit by IP.
	r.Mux.Handle("POST /v1/invites/redeem",
		httpx.Chain(http.HandlerFunc(redeemHandler.HandleRedeem),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /v1/invites/probe - public but read-only, strict limit by IP.
	r.Mux.Handle("POST /v1/invites/probe",
		httpx.Chain(http.HandlerFunc(redeemHandler.HandleProbe),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	rolesHandler := &RolesHandler{AdminService: r.AdminService}
	redeemHandler := &RedeemOnBehalfHandler{AdminService: r.AdminService}
	auditHandler := &AuditHandler{AuditService: r.AuditService}

	r.Mux.Handle("POST /v1/admin/roles",
		httpx.Chain(http.HandlerFunc(rolesHandler.HandleAssign),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/admin/roles",
		httpx.Chain(http.HandlerFunc(rolesHandler.HandleRevoke),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/admin/redemptions",
		httpx.Chain(redeemHandler,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/admin/audit",
		httpx.Chain(auditHandler,
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
