// Package gateway is the gateway.http module: an HTTP server exposing the
// remote's state and commands as a small JSON API, its events as a
// WebSocket stream, and Prometheus metrics. It binds to loopback by
// default.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/louis49/androidtv-remote/internal/control"
	"github.com/louis49/androidtv-remote/internal/core"
	"github.com/louis49/androidtv-remote/internal/metrics"
	"github.com/louis49/androidtv-remote/internal/security"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Gateway{})
}

// Gateway is the HTTP gateway module. It is a leaf module; nothing imports
// it.
type Gateway struct {
	config    Config
	appCtx    *core.AppContext
	logger    *slog.Logger
	server    *http.Server
	counters  *Counters
	limiter   *security.RateLimiter
	startedAt time.Time

	// Resolved at Start() via the service registry.
	remote  control.Remote
	hub     *control.Hub
	metrics http.Handler
}

// ModuleInfo implements core.Module.
func (g *Gateway) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "gateway.http",
		New: func() core.Module { return &Gateway{} },
	}
}

// Configure implements core.Configurable.
func (g *Gateway) Configure(node *yaml.Node) error {
	if err := node.Decode(&g.config); err != nil {
		return err
	}
	g.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (g *Gateway) Provision(ctx *core.AppContext) error {
	g.config.defaults()
	g.appCtx = ctx
	g.logger = ctx.Logger
	g.counters = &Counters{}
	g.limiter = security.NewRateLimiter(g.config.RateLimit, time.Minute)
	ctx.RegisterService("gateway.counters", g.counters)
	if r, ok := core.ServiceAs[*security.Redactor](ctx, control.ServiceRedactor); ok {
		r.AddLiteral(g.config.Auth.BearerToken)
		r.AddLiteral(g.config.Auth.BasicPass)
	}
	if !g.config.Auth.IsConfigured() {
		g.logger.Warn("gateway: no auth configured, control API is disabled")
	}
	return nil
}

// Validate implements core.Validator.
func (g *Gateway) Validate() error {
	if _, err := net.ResolveTCPAddr("tcp", g.config.Bind); err != nil {
		return errors.New("gateway: invalid bind address: " + g.config.Bind)
	}
	return nil
}

// Start implements core.Starter. It resolves the remote from the service
// registry and starts the HTTP server.
func (g *Gateway) Start() error {
	g.resolve()
	g.startedAt = time.Now()

	g.server = &http.Server{
		Addr:         g.config.Bind,
		Handler:      g.buildRouter(),
		ReadTimeout:  g.config.ReadTimeout,
		WriteTimeout: g.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", g.config.Bind)
	if err != nil {
		return errors.New("gateway: listen failed: " + err.Error())
	}

	go func() {
		g.logger.Info("gateway listening", "addr", ln.Addr().String())
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()

	return nil
}

// resolve binds optional services. Missing ones degrade the routes that
// need them to 503.
func (g *Gateway) resolve() {
	if r, ok := core.ServiceAs[control.Remote](g.appCtx, control.ServiceRemote); ok {
		g.remote = r
	}
	if h, ok := core.ServiceAs[*control.Hub](g.appCtx, control.ServiceEvents); ok {
		g.hub = h
	}
	if m, ok := core.ServiceAs[*metrics.Metrics](g.appCtx, control.ServiceMetrics); ok {
		g.metrics = m.Handler()
	}
}

// Stop implements core.Stopper. Graceful shutdown with configured timeout.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, g.config.ShutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return g.server.Shutdown(shutdownCtx)
}
