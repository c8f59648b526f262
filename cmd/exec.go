package cmd

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ticket-desk/config"
	"ticket-desk/handlers"
	"ticket-desk/monitoring"
	"ticket-desk/security"
	"ticket-desk/services"
	"ticket-desk/utils"

	"github.com/labstack/echo/v5"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	// Initialize PubNub (optional, realtime entry-gate updates)
	var pn *pubnub.PubNub
	if cfg.PubNubPublishKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey

		pn = pubnub.NewPubNub(pnConfig)
	}

	// Initialize services
	ticketService := services.NewTicketService(services.NewTicketStore(app), pn, cfg.PubNubChannel)
	registrationService := services.NewRegistrationService(services.NewMemoryUserStore())
	ticketCache := services.NewTicketCache(redisClient, cfg.TicketCacheTTL)

	// Initialize handlers
	ticketHandler := handlers.NewTicketHandler(ticketService, ticketCache)
	publicHandler := handlers.NewPublicTicketHandler(ticketService, ticketCache)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)

	// Access gate and rate limiting
	gate := security.NewAccessGate(security.NewAuthTokenVerifier(app), cfg.SessionCookie)
	limiter := security.NewRateLimiter(redisClient, cfg.ScanRateLimit, cfg.ScanRateWindow)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	go handleShutdown(cancel)

	// Standalone registration/validation prototype server
	go startRegistrationServer(ctx, cfg, registrationHandler, limiter)

	// Metrics server
	if cfg.EnableMetrics {
		go startMetricsServer(ctx, cfg.MetricsPort)
	}

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		monitor := monitoring.NewMonitor(app, cfg.MetricsInterval)
		go monitor.Run(ctx)

		// Access gate runs before any page logic
		e.Router.BindFunc(gate.Middleware())

		// Ticket endpoints
		e.Router.POST("/api/tickets", ticketHandler.CreateTicket)
		e.Router.GET("/api/tickets", ticketHandler.ListTickets)
		e.Router.GET("/api/tickets/search", ticketHandler.SearchTickets)
		e.Router.POST("/api/tickets/{id}/validate", ticketHandler.ValidateTicket)
		e.Router.DELETE("/api/tickets/{id}", ticketHandler.DeleteTicket)
		e.Router.DELETE("/api/tickets", ticketHandler.DeleteAllTickets)

		// Public ticket detail (shared links)
		e.Router.GET("/api/ticket/{code}", publicHandler.GetTicket)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(http.StatusOK, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return e.Next()
	})

	// Start server
	return app.Start()
}

// startRegistrationServer runs the scan prototype on its own port
func startRegistrationServer(ctx context.Context, cfg *config.Config, h *handlers.RegistrationHandler, limiter *security.RateLimiter) {
	e := echo.New()
	e.Use(limiter.ScanRateLimit())

	e.POST("/register", h.Register)
	e.GET("/validate", h.Validate)
	e.GET("/stats", h.Stats)

	srv := &http.Server{
		Addr:    ":" + cfg.RegistrationPort,
		Handler: e,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Registration prototype listening on :%s", cfg.RegistrationPort)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("Registration server error: %v", err)
	}
}

// startMetricsServer exposes prometheus metrics on a dedicated port
func startMetricsServer(ctx context.Context, port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Metrics listening on :%s", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
