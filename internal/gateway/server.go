package gateway

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Public, no auth required.
	r.Get("/health", g.handleHealth())
	if g.metrics != nil {
		r.Handle("/metrics", g.metrics)
	}

	// Control endpoints. Not mounted if no auth is configured.
	if g.config.Auth.IsConfigured() {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(g.config.Auth, g.logger))
			r.Use(g.countRequests)
			r.Get("/status", g.handleStatus())
			r.Get("/ws/events", g.handleEvents)
			r.Route("/api", func(r chi.Router) {
				r.Use(g.rateLimit)
				r.Get("/state", g.handleState())
				r.Post("/keys", g.handleKey())
				r.Post("/power", g.handlePower())
				r.Post("/applink", g.handleAppLink())
				r.Post("/volume", g.handleVolume())
				r.Post("/pairing/code", g.handlePairingCode())
			})
		})
	}

	return r
}

func (g *Gateway) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.counters.RecordRequest()
		next.ServeHTTP(w, r)
	})
}

// rateLimit rejects clients over the configured request rate with 429.
func (g *Gateway) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		client, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			client = r.RemoteAddr
		}
		if err := g.limiter.Allow(client); err != nil {
			g.logger.Warn("gateway: rate limited", "client", client)
			writeError(w, http.StatusTooManyRequests, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
