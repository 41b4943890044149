package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/gamerstore/backend/internal"
	"github.com/gamerstore/backend/internal/auth"
	"github.com/gamerstore/backend/internal/bootstrap"
	"github.com/gamerstore/backend/internal/handler"
	"github.com/gamerstore/backend/internal/middleware"
	"github.com/gamerstore/backend/internal/payment"
	"github.com/gamerstore/backend/internal/postgres"
	"github.com/gamerstore/backend/internal/routes"
	"github.com/gamerstore/backend/internal/service"
	"github.com/gamerstore/backend/internal/storage"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info().Msg("connecting to database")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	logger.Info().Msg("running database migrations")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// Initialize pgx connection pool for the application
	pool, err := postgres.NewPool(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	stores := postgres.NewStore(pool)

	// Seed the initial admin account when configured
	if err := bootstrap.EnsureAdmin(ctx, stores, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password, logger); err != nil {
		return err
	}

	// Token signing
	tokens, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	// Payment gateway
	gateway, err := payment.NewMercadoPago(payment.MercadoPagoConfig{
		AccessToken: cfg.Gateway.AccessToken,
		FrontendURL: cfg.FrontendURL,
		CurrencyID:  cfg.Gateway.CurrencyID,
		Timeout:     cfg.Gateway.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize payment gateway: %w", err)
	}

	// OAuth login is optional; without a client id the endpoints report it
	// as unconfigured.
	var oauthProvider auth.OAuthProvider
	if cfg.OAuth.GoogleClientID != "" {
		oauthProvider = auth.NewGoogleOAuth(cfg.OAuth.GoogleClientID, cfg.OAuth.GoogleClientSecret, cfg.OAuth.RedirectURL)
	}

	// Image storage
	blobs, err := storage.NewLocalStorage(cfg.Storage.LocalPath, cfg.Storage.LocalURL)
	if err != nil {
		return fmt.Errorf("failed to initialize image storage: %w", err)
	}

	// Services
	authService := service.NewAuthService(stores, tokens, logger)
	productService := service.NewProductService(stores, logger)
	categoryService := service.NewCategoryService(stores, logger)
	cartService := service.NewCartService(stores, logger)
	orderService := service.NewOrderService(stores, logger)
	paymentService := service.NewPaymentService(stores, gateway, orderService, logger)

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()

	metrics := middleware.NewMetrics("gamerstore")

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(metrics.Middleware())
	e.Use(middleware.RequestLogger(logger))

	routes.Register(e, routes.Deps{
		Auth:       handler.NewAuthHandler(authService, oauthProvider, cfg.FrontendURL, logger),
		Products:   handler.NewProductHandler(productService, logger),
		Categories: handler.NewCategoryHandler(categoryService, logger),
		Carts:      handler.NewCartHandler(cartService, logger),
		Orders:     handler.NewOrderHandler(orderService, paymentService, logger),
		Images:     handler.NewImageHandler(blobs, logger),
		Tokens:     tokens,
		Metrics:    metrics,
		UploadsDir: cfg.Storage.LocalPath,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
	return e.Start(addr)
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
