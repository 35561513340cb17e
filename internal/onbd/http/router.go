package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/onbd/internal/onbd/access"
	"github.com/aussiebroadwan/onbd/internal/onbd/domain"
	"github.com/aussiebroadwan/onbd/internal/onbd/service"
	"github.com/aussiebroadwan/onbd/internal/onbd/store"
	"github.com/aussiebroadwan/onbd/pkg/httpx"
	"github.com/aussiebroadwan/onbd/pkg/jwtx"
	"github.com/aussiebroadwan/onbd/pkg/slogx"

	_ "github.com/aussiebroadwan/onbd/api/onbd" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	signer       jwtx.Signer
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	audit        httpx.AuditHook

	// Policy decides which operations need an authenticated caller and
	// which roles may perform them.
	Policy access.Policy

	// Limiters builds the per-route rate limiters. Defaults to in-memory.
	Limiters httpx.LimiterFactory

	// TrustedProxies are the peers allowed to report the client address in
	// forwarding headers. Empty means the socket address is always used.
	TrustedProxies httpx.TrustedProxies

	AuthService      *service.AuthService
	InviteService    *service.InviteService
	BootstrapService *service.BootstrapService
}

func NewRouter(
	verifier jwtx.Verifier,
	signer jwtx.Signer,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	audit httpx.AuditHook,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		signer:       signer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		audit:        audit,
		Policy:       access.DefaultPolicy(),
		Limiters:     httpx.MemoryLimiterFactory,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	// Outermost first: logging sees the recovered 500, the recoverer sees
	// the panic re-raised by the audit middleware.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recoverer(),
	}
	if r.audit != nil {
		r.middlewares = append(r.middlewares, httpx.AuditMiddleware(r.audit, r.clientIP))
	}

	r.registerAuth()
	r.registerInvitations()
	r.registerBootstrap()
	r.registerSystem()

	r.Mux.Handle("/swagger/",
		httpx.Chain(httpSwagger.Handler(),
			r.rateLimit("docs", httpx.PublicLimit, r.clientIP),
		),
	)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			onbd Contributor Onboarding API
//	@version		0.1.0
//	@description	Invitation based contributor onboarding: admins issue single-use invitations, invitees register, contributors log in for an HS256 session token.
//	@description
//	@description				Every request is recorded in the audit trail.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/onbd
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
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// clientIP resolves the caller address for rate limiting and auditing.
func (r *Router) clientIP(req *http.Request) string {
	return r.TrustedProxies.ClientIP(req)
}

func (r *Router) rateLimit(name string, config httpx.RateLimitConfig, ext httpx.KeyExtractor) httpx.Middleware {
	return httpx.RateLimitWith(r.Limiters(name, config), config, ext)
}

// guard returns the authentication and authorization middlewares that op
// needs under the current policy. Unrestricted operations get none.
func (r *Router) guard(op access.Operation) []httpx.Middleware {
	if len(r.Policy.Required(op)) == 0 {
		return nil
	}
	return []httpx.Middleware{
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole(func(role string, authenticated bool) bool {
			return r.Policy.Allows(op, domain.Role(role), authenticated)
		}),
	}
}

// handle registers h for pattern behind op's guard and the given limiter.
func (r *Router) handle(pattern string, op access.Operation, h http.Handler, limit httpx.Middleware) {
	mws := append(r.guard(op), limit)
	r.Mux.Handle(pattern, httpx.Chain(h, mws...))
}

func (r *Router) registerAuth() {
	// POST /auth/login - strict rate limit by IP + email to slow credential stuffing
	r.handle("POST /auth/login", access.OpLogin,
		&LoginHandler{AuthService: r.AuthService},
		r.rateLimit("login", httpx.StrictLimit, httpx.CompositeKeyExtractor(":",
			r.clientIP,
			httpx.JSONFieldKeyExtractor("email"),
		)),
	)
}

func (r *Router) registerInvitations() {
	// POST /invite-contributor - strict rate limit per caller
	r.handle("POST /invite-contributor", access.OpInvite,
		&InviteHandler{InviteService: r.InviteService},
		r.rateLimit("invite", httpx.StrictLimit, httpx.CompositeKeyExtractor(":",
			httpx.UserIDKeyExtractor,
			r.clientIP,
		)),
	)

	// POST /register - strict rate limit by IP (public signup endpoint)
	r.handle("POST /register", access.OpRegister,
		&RegisterHandler{InviteService: r.InviteService},
		r.rateLimit("register", httpx.StrictLimit, r.clientIP),
	)

	r.handle("GET /registration-status/{id}", access.OpStatus,
		&StatusHandler{InviteService: r.InviteService},
		r.rateLimit("status", httpx.LenientLimit, r.clientIP),
	)
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - one-time setup endpoint
	r.handle("POST /bootstrap", access.OpBootstrap,
		&BootstrapHandler{BootstrapService: r.BootstrapService},
		r.rateLimit("bootstrap", httpx.StrictLimit, r.clientIP),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.handle("GET /livez", access.OpLivez,
		LivezHandler(r.startTime, r.buildVersion),
		r.rateLimit("livez", httpx.LenientLimit, r.clientIP),
	)
	r.handle("GET /readyz", access.OpReadyz,
		ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer),
		r.rateLimit("readyz", httpx.LenientLimit, r.clientIP),
	)
}
