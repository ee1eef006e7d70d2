// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/artpar/billgate/adapters/clock"
	"github.com/artpar/billgate/adapters/email"
	"github.com/artpar/billgate/adapters/idgen"
	"github.com/artpar/billgate/adapters/memory"
	"github.com/artpar/billgate/adapters/metrics"
	"github.com/artpar/billgate/adapters/payment"
	"github.com/artpar/billgate/adapters/sqlite"
	"github.com/artpar/billgate/app"
	"github.com/artpar/billgate/config"
	"github.com/artpar/billgate/domain/checkout"
	"github.com/artpar/billgate/ports"
	"github.com/artpar/billgate/web"
)

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	DB         *sqlite.DB
	HTTPServer *http.Server
	Metrics    *metrics.Collector
	Holder     *config.Holder

	stores  stores
	handler *swappableHandler
}

// stores bundles every persistence port so services can be rebuilt on a
// config reload without reopening the database.
type stores struct {
	customers ports.CustomerStore
	invoices  ports.InvoiceStore
	payments  ports.PaymentStore
	sessions  ports.CheckoutStore
	promos    ports.PromoStore
	vendors   ports.VendorStore
	payouts   ports.PayoutStore
}

// New creates and initializes the application from a loaded config.
func New(cfg *config.Config) (*App, error) {
	logger := setupLogger(cfg.Logging)
	return newApp(cfg, nil, logger)
}

// NewWithHotReload creates the application with a config file watcher.
// Reloadable fields take effect on file change or SIGHUP; the rest
// require a restart.
func NewWithHotReload(path string) (*App, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger := setupLogger(cfg.Logging)

	holder, err := config.NewHolder(path, logger)
	if err != nil {
		return nil, err
	}
	if err := holder.WatchFile(); err != nil {
		logger.Warn().Err(err).Msg("config file watch unavailable, SIGHUP reload only")
	}
	holder.WatchSignals()

	a, err := newApp(holder.Get(), holder, logger)
	if err != nil {
		holder.Stop()
		return nil, err
	}

	holder.OnChange(func(next *config.Config) {
		a.rebuild(next)
	})
	return a, nil
}

func newApp(cfg *config.Config, holder *config.Holder, logger zerolog.Logger) (*App, error) {
	logger.Info().Msg("initializing billgate")

	a := &App{
		Logger:  logger,
		Holder:  holder,
		handler: &swappableHandler{},
	}

	if err := a.initStores(cfg); err != nil {
		return nil, fmt.Errorf("init stores: %w", err)
	}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		logger.Info().Msg("prometheus metrics enabled")
	} else {
		// A collector backed by a private registry keeps service wiring
		// uniform without exposing anything.
		a.Metrics = metrics.NewWithRegistry(prometheus.NewRegistry())
	}

	router, err := a.buildRouter(cfg)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}
	a.handler.swap(router)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	a.HTTPServer = &http.Server{
		Addr:         addr,
		Handler:      a.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info().Str("addr", addr).Msg("http server configured")
	return a, nil
}

func (a *App) initStores(cfg *config.Config) error {
	switch cfg.Database.Driver {
	case "memory":
		a.stores = stores{
			customers: memory.NewCustomerStore(),
			invoices:  memory.NewInvoiceStore(),
			payments:  memory.NewPaymentStore(),
			sessions:  memory.NewCheckoutStore(),
			promos:    memory.NewPromoStore(),
			vendors:   memory.NewVendorStore(),
			payouts:   memory.NewPayoutStore(),
		}
		a.Logger.Info().Msg("using in-memory stores")
		return nil
	default:
		db, err := sqlite.Open(cfg.Database.DSN)
		if err != nil {
			return err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return fmt.Errorf("migrate: %w", err)
		}
		a.DB = db
		a.stores = stores{
			customers: sqlite.NewCustomerStore(db),
			invoices:  sqlite.NewInvoiceStore(db),
			payments:  sqlite.NewPaymentStore(db),
			sessions:  sqlite.NewCheckoutStore(db),
			promos:    sqlite.NewPromoStore(db),
			vendors:   sqlite.NewVendorStore(db),
			payouts:   sqlite.NewPayoutStore(db),
		}
		a.Logger.Info().Str("dsn", cfg.Database.DSN).Msg("database initialized")
		return nil
	}
}

// buildRouter assembles services and the HTTP router from a config
// snapshot. Stores and the metrics collector survive rebuilds.
func (a *App) buildRouter(cfg *config.Config) (chi.Router, error) {
	clk := clock.Real{}
	ids := idgen.UUID{}

	provider, err := payment.NewProvider(payment.Config{
		Provider: cfg.Billing.Provider,
		BaseURL:  cfg.Billing.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("payment provider: %w", err)
	}

	billingHandler := web.NewHandler(web.Deps{
		Invoices: app.NewInvoiceService(
			a.stores.invoices, clk, ids,
			cfg.Invoice.NumberConfig(), a.Metrics, a.Logger,
		),
		Dunning: app.NewDunningService(
			a.stores.payments, a.stores.customers, email.NewNoopSender(),
			clk, cfg.Retry.DomainConfig(), a.Metrics, a.Logger,
		),
		Checkout: app.NewCheckoutService(
			a.stores.sessions, provider, clk, ids,
			checkout.InputConfig{RequireCustomer: cfg.Checkout.RequireCustomer},
			cfg.Checkout.SessionTTL, a.Metrics, a.Logger,
		),
		Promos: app.NewPromoService(a.stores.promos, clk, ids, a.Metrics, a.Logger),
		Payouts: app.NewPayoutService(
			a.stores.vendors, a.stores.payouts, provider, clk, ids, a.Metrics, a.Logger,
		),
		Clock:     clk,
		IDGen:     ids,
		TaxRate:   cfg.Billing.TaxRate,
		DueInDays: cfg.Invoice.DueInDays,
		Logger:    a.Logger,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newLoggingMiddleware(a.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", healthz)
	r.Get("/health/live", healthz)

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	r.Mount("/v1", billingHandler.Router())
	return r, nil
}

// rebuild swaps in a router built from a new config snapshot. Stores,
// the database handle, and metric series carry over.
func (a *App) rebuild(cfg *config.Config) {
	router, err := a.buildRouter(cfg)
	if err != nil {
		a.Logger.Error().Err(err).Msg("config reload failed, keeping previous wiring")
		return
	}
	a.handler.swap(router)
	a.Metrics.ConfigReloads.Inc()
	a.Metrics.ConfigLastReload.SetToCurrentTime()
	a.Logger.Info().Msg("services rewired from reloaded config")
}

// Handler exposes the root HTTP handler, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.Holder != nil {
		a.Holder.Stop()
	}

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("database close error")
			return err
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

// swappableHandler lets a config reload replace the router while the
// server keeps accepting connections.
type swappableHandler struct {
	current atomic.Value // chi.Router
}

func (s *swappableHandler) swap(r chi.Router) {
	s.current.Store(r)
}

func (s *swappableHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.current.Load().(chi.Router).ServeHTTP(w, r)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func newLoggingMiddleware(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if strings.HasPrefix(r.URL.Path, "/health") || r.URL.Path == "/metrics" {
				return
			}

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}
