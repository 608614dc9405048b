package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/auth"
	authhandlers "github.com/leeleeEcho/web3-dapp-store-sub000/pkg/gateway/handlers/auth"
	usershandlers "github.com/leeleeEcho/web3-dapp-store-sub000/pkg/gateway/handlers/users"
)

// Routes returns the http.Handler with all routes and middleware configured
func (g *Gateway) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(g.requestIDMiddleware)
	r.Use(g.loggingMiddleware)
	r.Use(g.corsMiddleware)
	r.Use(g.identityMiddleware)

	ah := authhandlers.New(g.logger, g.authService, g.tokens, g.userCache)
	uh := usershandlers.New(g.logger, g.directory, g.userCache)

	// root and v1 health/status
	r.Get("/health", g.healthHandler)
	r.Get("/v1/health", g.healthHandler)
	r.Get("/v1/status", g.statusHandler)

	// auth endpoints; nonce and login are unauthenticated and rate limited
	r.Route("/v1/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(g.rateLimitMiddleware)
			r.Post("/nonce", ah.NonceHandler)
			r.Post("/login", ah.LoginHandler)
		})
		r.Post("/logout", ah.LogoutHandler)
		r.Get("/whoami", ah.WhoamiHandler)
	})

	// user directory
	r.Route("/v1/users", func(r chi.Router) {
		r.Use(RequireIdentity)
		r.Get("/me", uh.MeHandler)
	})

	// admin surface
	r.Route("/v1/admin", func(r chi.Router) {
		r.Use(RequireIdentity)
		r.Use(RequireRole(auth.RoleAdmin))
		r.Get("/users", uh.ListHandler)
	})

	return r
}
