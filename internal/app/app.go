package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/agrikart/agrikart/internal/domain/cart"
	"github.com/agrikart/agrikart/internal/domain/identity"
	"github.com/agrikart/agrikart/internal/domain/order"
	"github.com/agrikart/agrikart/internal/domain/product"
	"github.com/agrikart/agrikart/internal/domain/shipping"
	"github.com/agrikart/agrikart/internal/handler"
	"github.com/agrikart/agrikart/internal/session"
	"github.com/agrikart/agrikart/internal/storage"
	"github.com/agrikart/agrikart/pkg/health"
	"github.com/agrikart/agrikart/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr), zap.String("storage", cfg.Storage))

	// Persistence bridge.
	var bridge storage.Bridge
	switch cfg.Storage {
	case "memory":
		bridge = storage.NewMemory()
	default:
		fileBridge, err := storage.NewFile(cfg.StorageDir)
		if err != nil {
			return errors.Wrap(err, "create file storage")
		}
		bridge = fileBridge
	}

	// Optional deliverable-pincode index.
	var pincodes *shipping.Index
	if cfg.PincodeIndex != "" {
		idx, err := shipping.LoadIndexFile(cfg.PincodeIndex)
		if err != nil {
			return errors.Wrap(err, "load pincode index")
		}
		pincodes = idx
		lg.Info("Pincode index loaded", zap.String("path", cfg.PincodeIndex))
	}

	// Domain services.
	catalog := product.SeedCatalog()
	planner := product.NewPlanner(catalog)
	identities := identity.NewStore(ctx, bridge, lg.Named("identity"), cfg.LoginDelay)
	userCart := cart.New(identities, catalog, bridge, lg.Named("cart"))
	ledger := order.NewLedger(identities, catalog, userCart, bridge, lg.Named("orders"))
	sess := session.Bind(ctx, identities, userCart, ledger, lg.Named("session"))

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.SetReady(true)

	// HTTP surface.
	h := handler.NewHandler(identities, sess, catalog, planner, pincodes)
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", http.StripPrefix("/api", h.Routes()))

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("agrikart-api", m),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
