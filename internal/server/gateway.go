package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/shared"
	"golang.org/x/time/rate"
)

// Gateway is the HTTP front of the todo store.
type Gateway struct {
	config *shared.Config
	router *BasicRouter
	logger *log.Logger
}

// NewGateway wires the middleware chain and the todo routes around store.
//
// Middleware order, outermost first: body closer, request id, logging, CORS, identity check, rate limit.
func NewGateway(config *shared.Config, store models.Store, logger *log.Logger) *Gateway {
	if config == nil {
		config = shared.DefaultConfig()
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	router := NewBasicRouter()
	router.Use(
		closeBody(),
		RequestID(),
		Logging(shared.WithLogger(logger, "component", "http")),
		CORS(config.CORS.AllowedOrigins),
		RequireHeader(config.Server.IdentityHeader),
	)
	if config.Server.RateLimit > 0 {
		burst := config.Server.RateBurst
		if burst <= 0 {
			burst = 1
		}
		router.Use(RateLimit(rate.NewLimiter(rate.Limit(config.Server.RateLimit), burst)))
	}

	router.Handler(NewTodoHandler(store, logger))
	router.Handle("", "/", http.HandlerFunc(NotFound))

	return &Gateway{config: config, router: router, logger: logger}
}

// Handler returns the fully wrapped router.
func (g *Gateway) Handler() http.Handler {
	return g.router
}

// Server builds the [http.Server] for the configured address.
func (g *Gateway) Server() *http.Server {
	return &http.Server{
		Addr:              g.config.Server.Addr(),
		Handler:           g.router,
		ReadHeaderTimeout: shared.Seconds(g.config.Server.ReadHeaderTimeout),
		IdleTimeout:       shared.Seconds(g.config.Server.IdleTimeout),
	}
}

// Run listens on the configured address until ctx is cancelled, then shuts down gracefully.
func (g *Gateway) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", g.config.Server.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", g.config.Server.Addr(), err)
	}
	return g.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (g *Gateway) Serve(ctx context.Context, ln net.Listener) error {
	srv := g.Server()

	errCh := make(chan error, 1)
	go func() {
		g.logger.Info("gateway listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shared.Seconds(g.config.Server.ShutdownTimeout))
	defer cancel()

	g.logger.Info("shutting down gateway")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down gateway: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
