// Package httptransport is the thin HTTP layer. Handlers delegate to domain
// services so transport concerns stay isolated from business logic.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopfolio/internal/admin"
	"shopfolio/internal/catalog"
	"shopfolio/internal/docstore"
	"shopfolio/internal/email"
	"shopfolio/internal/identity"
	"shopfolio/internal/platform/metrics"
	"shopfolio/internal/ratelimit"
)

// Deps carries everything the router mounts.
type Deps struct {
	Provider   identity.Provider
	Tokens     AccessTokenValidator
	Docs       docstore.Store
	Email      *email.Service
	Admin      *admin.Service
	Catalog    *catalog.Catalog
	AdminToken string
	Limiter    *ratelimit.Middleware
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Clock      func() time.Time
}

// NewRouter wires all public endpoints.
func NewRouter(d Deps) http.Handler {
	if d.Clock == nil {
		d.Clock = time.Now
	}

	r := chi.NewRouter()
	r.Use(WithRequestID)

	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":        true,
			"service":   "shopfolio",
			"timestamp": d.Clock().UTC().Format(time.RFC3339),
		})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(gr chi.Router) {
		if d.Limiter != nil {
			gr.Use(d.Limiter.Limit)
		}
		NewAuthHandler(d.Provider, d.Logger, d.Metrics).Register(gr)
	})
	NewEmailHandler(d.Email, d.Logger).Register(r)
	NewCatalogHandler(d.Catalog).Register(r)

	r.Route("/api/cart", func(cr chi.Router) {
		cr.Use(RequireAuth(d.Tokens, d.Logger))
		NewCartHandler(d.Docs, d.Logger).Register(cr)
	})

	r.Route("/api/admin", func(ar chi.Router) {
		ar.Use(RequireAdminToken(d.AdminToken, d.Logger))
		NewAdminHandler(d.Admin, d.Logger).Register(ar)
	})

	return r
}
