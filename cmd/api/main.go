package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auto-shipping/internal/api"
	"auto-shipping/internal/config"
	"auto-shipping/internal/modules/fleet"
	"auto-shipping/internal/modules/pricing"
	"auto-shipping/internal/modules/shipments"
	"auto-shipping/internal/modules/users"
	"auto-shipping/pkg/email"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	// 1. --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	e := echo.New()

	// 2. --- Middleware ---
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173", cfg.ClientOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// 3. --- Database Connection ---
	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to parse database configuration: %v", err)
	}

	dbPool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		log.Fatalf("Unable to create connection pool: %v", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	e.Logger.Info("Successfully connected to the database!")

	// 4. --- Email ---
	emailer, err := email.NewSESV2Sender(context.Background(), cfg.AWSRegion, cfg.EmailFrom)
	if err != nil {
		log.Fatalf("Failed to initialize SES email sender: %v", err)
	}
	templateManager, err := email.NewTemplateManager()
	if err != nil {
		log.Fatalf("Failed to parse email templates: %v", err)
	}

	// 5. --- OAuth ---
	googleOAuthConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	// 6. --- Dependency Injection (Wiring everything up) ---
	// --- Users Module ---
	userRepo := users.NewRepository(dbPool)
	userService := users.NewService(userRepo, emailer, templateManager, cfg.JWTSecret, cfg.ClientOrigin, googleOAuthConfig)
	userHandler := users.NewHandler(userService)

	// --- Pricing Module ---
	rateRepo := pricing.NewRateRepository(dbPool)
	pricingService := pricing.NewService(rateRepo)
	pricingHandler := pricing.NewHandler(pricingService)

	// --- Shipments Module ---
	shipmentRepo := shipments.NewRepository(dbPool)
	shipmentService := shipments.NewService(shipmentRepo, pricingService, userService, emailer, templateManager)
	shipmentHandler := shipments.NewHandler(shipmentService)

	// --- Fleet Module ---
	fleetRepo := fleet.NewRepository(dbPool)
	fleetService := fleet.NewService(fleetRepo)
	trackingRepo := fleet.NewTrackingRepository(dbPool)
	trackingService := fleet.NewTrackingService(trackingRepo)
	fleetHandler := fleet.NewHandler(fleetService, trackingService)

	assignRepo := fleet.NewAssignRepository(dbPool)
	assignService := fleet.NewAssignService(assignRepo)
	assignHandler := fleet.NewAssignHandler(assignService)

	// 7. --- Initialize Router ---
	api.SetupRoutes(e,
		userHandler,
		pricingHandler,
		shipmentHandler,
		fleetHandler,
		assignHandler,
		cfg.JWTSecret,
	)

	// 8. --- Start Server with graceful shutdown ---
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server, an error occurred: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal("Server forced to shutdown: ", err)
	}
	log.Println("Server exiting")
}
