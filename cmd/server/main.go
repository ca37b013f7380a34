package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/strandluxe/storefront/internal"
	"github.com/strandluxe/storefront/internal/cart"
	"github.com/strandluxe/storefront/internal/checkout"
	"github.com/strandluxe/storefront/internal/commerce"
	"github.com/strandluxe/storefront/internal/cookie"
	"github.com/strandluxe/storefront/internal/email"
	"github.com/strandluxe/storefront/internal/handler/storefront"
	"github.com/strandluxe/storefront/internal/middleware"
	"github.com/strandluxe/storefront/internal/payments"
	"github.com/strandluxe/storefront/internal/router"
	"github.com/strandluxe/storefront/internal/routes"
	"github.com/strandluxe/storefront/internal/telemetry"
)

// panelPruneInterval is how often idle cart panels are evicted.
const panelPruneInterval = time.Hour

func run() error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize Sentry error tracking
	sentryCleanup, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer sentryCleanup()

	// Initialize commerce platform client
	logger.Info("Connecting to commerce platform...", "url", cfg.Platform.APIBaseURL)
	platform, err := commerce.NewHTTPClient(commerce.Config{
		BaseURL:        cfg.Platform.APIBaseURL,
		PublishableKey: cfg.Platform.PublishableKey,
	}, logger)
	if err != nil {
		return fmt.Errorf("commerce client initialization failed: %w", err)
	}

	// Initialize payment provider
	paymentProvider := payments.NewStripeProvider(cfg.Stripe.SecretKey)
	logger.Info("Payment provider initialized")

	// Initialize transactional email
	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:     cfg.Email.Host,
		Port:     int(cfg.Email.Port),
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
	}, logger)
	emailService := email.NewService(sender, cfg.Email.From, cfg.Email.StoreName, logger)
	logger.Info("Email service initialized", "host", cfg.Email.Host)

	// Business metrics
	businessMetrics := telemetry.NewBusinessMetrics("strandluxe")

	// Per-session state
	panels := cart.NewRegistry(cart.DefaultMaxIdle)
	sessions := checkout.NewRegistry(checkout.DefaultMaxIdle)

	// Checkout orchestrator
	orchestrator := checkout.NewOrchestrator(
		platform,
		paymentProvider,
		emailService,
		businessMetrics,
		logger,
		cfg.BaseURL+"/checkout/return",
	)

	// Cookies
	cookies := cookie.NewConfig(cfg.CookieDomain, cfg.Secure)

	// ==========================================================================
	// Build route dependencies
	// ==========================================================================

	regions := storefront.NewRegionCache(platform, cfg.Platform.RegionID)

	storefrontDeps := routes.StorefrontDeps{
		CatalogHandler:  storefront.NewCatalogHandler(platform, regions, businessMetrics),
		BundleHandler:   storefront.NewBundleHandler(platform, regions, nil, businessMetrics),
		CartHandler:     storefront.NewCartHandler(platform, cookies, regions),
		PanelHandler:    storefront.NewPanelHandler(panels, platform, regions, businessMetrics),
		CheckoutHandler: storefront.NewCheckoutHandler(sessions, panels, orchestrator, cookies),
		OrderHandler:    storefront.NewOrderHandler(platform),
		AuthHandler:     storefront.NewAuthHandler(platform, cookies, businessMetrics),
		ReturnHandler:   storefront.NewReturnHandler(platform, emailService, businessMetrics),
	}

	// ==========================================================================
	// Initialize middleware
	// ==========================================================================

	metrics := middleware.NewMetrics("strandluxe")

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig.HSTSMaxAge = 0
	}

	browseLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer browseLimiter.Stop()

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		telemetry.SentryMiddleware(),
		middleware.SecurityHeaders(securityConfig),
		router.CORS(cfg.CORSOrigins),
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(middleware.DefaultTimeout),
		browseLimiter.Middleware,
		middleware.WithSession(cookies),
		middleware.WithCustomerToken,
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
	)

	// Metrics endpoint (protect via firewall in production)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterStorefrontRoutes(r, storefrontDeps)

	// ==========================================================================
	// Start server
	// ==========================================================================

	// Evict cart panels and checkout sessions gone idle
	pruneStop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(panelPruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if removed := panels.Prune(); removed > 0 {
					logger.Info("Pruned idle cart panels", "removed", removed)
				}
				if removed := sessions.Prune(); removed > 0 {
					logger.Info("Pruned idle checkout sessions", "removed", removed)
				}
			case <-pruneStop:
				return
			}
		}
	}()
	defer close(pruneStop)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: middleware.ShortTimeout,
		WriteTimeout:      middleware.CheckoutTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting storefront server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
