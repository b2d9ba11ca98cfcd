// Package httptransport wires every module handler into the chi router and
// owns the cross-cutting middleware stack. Business logic stays in the
// services; this layer only decides who may reach what.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "solidario/internal/auth/handler"
	authmodels "solidario/internal/auth/models"
	cataloghandler "solidario/internal/catalog/handler"
	contenthandler "solidario/internal/content/handler"
	deliveryhandler "solidario/internal/delivery/handler"
	"solidario/internal/platform/health"
	"solidario/internal/platform/metrics"
	"solidario/internal/platform/middleware"
)

const requestTimeout = 30 * time.Second

// Deps collects everything the router needs. Health carries the registered
// readiness checks (database ping, redis ping) from main.
type Deps struct {
	Auth     *authhandler.Handler
	Catalog  *cataloghandler.Handler
	Content  *contenthandler.Handler
	Delivery *deliveryhandler.Handler

	Health         *health.Handler
	TokenValidator middleware.TokenValidator
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
}

// NewRouter builds the full route tree.
//
// Route groups:
//   - /portal          public CMS reads, no auth
//   - /auth/login      public
//   - /auth/me         any authenticated staff
//   - /api             operator, editor and admin as noted per group
//   - /api/admin       admin only
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.ClientMetadata)
	if d.Metrics != nil {
		r.Use(endpointLatency(d.Metrics))
	}

	if d.Health != nil {
		d.Health.Register(r)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public portal: published content only.
	r.Route("/portal", d.Content.RegisterPublic)

	r.Route("/auth", func(r chi.Router) {
		d.Auth.RegisterPublic(r)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(d.TokenValidator, d.Logger))
			d.Auth.Register(r)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.TokenValidator, d.Logger))

		// Catalog reads are shared by every staff role.
		r.Route("/catalogo", d.Catalog.Register)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(d.Logger, authmodels.RoleOperator, authmodels.RoleAdmin))
			r.Route("/entregas", d.Delivery.Register)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(d.Logger, authmodels.RoleEditor, authmodels.RoleAdmin))
			r.Route("/content", d.Content.RegisterAdmin)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(d.Logger, authmodels.RoleAdmin))
			r.Route("/staff", d.Auth.RegisterAdmin)
			r.Route("/catalogo", d.Catalog.RegisterAdmin)
			r.Route("/entregas", d.Delivery.RegisterAdmin)
		})
	})

	return r
}

// endpointLatency observes request duration per chi route pattern so
// cardinality stays bounded regardless of path parameters.
func endpointLatency(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = "unmatched"
			}
			m.EndpointLatency.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
		})
	}
}
