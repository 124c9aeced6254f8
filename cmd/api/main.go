package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/anasalharbi/penmarket/docs"
	"github.com/anasalharbi/penmarket/internal/audit"
	"github.com/anasalharbi/penmarket/internal/config"
	"github.com/anasalharbi/penmarket/internal/database"
	"github.com/anasalharbi/penmarket/internal/notification"
	"github.com/anasalharbi/penmarket/internal/order"
	"github.com/anasalharbi/penmarket/internal/pricing"
	"github.com/anasalharbi/penmarket/internal/settlement"
	"github.com/anasalharbi/penmarket/internal/user"
	mw "github.com/anasalharbi/penmarket/pkg/middleware"
)

// @title        Penmarket Settlement API
// @version      1.0
// @description  Order financial computation and settlement for the Penmarket freelance writing marketplace
// @BasePath     /api/v1
func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	sugar := logger.Sugar()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		sugar.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err)
	}

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err)
	}
	defer db.Close()

	sugar.Info("connected to database")

	// Pricing strategy factory: FLAT and TIERED paths
	strategyFactory := pricing.NewStrategyFactory()

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Order feature (with strategy factory injected for quote previews)
	orderRepo := order.NewRepository(db)
	orderService := order.NewService(orderRepo, userRepo, strategyFactory)
	orderHandler := order.NewHandler(orderService)

	// Audit feature
	auditRepo := audit.NewRepository(db)
	auditService := audit.NewService(auditRepo)
	auditHandler := audit.NewHandler(auditService)

	// Notification feature
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationService)

	// Settlement feature
	settlementRepo := settlement.NewRepository(db)
	settlementService := settlement.NewService(
		settlementRepo,
		orderRepo,
		userRepo,
		strategyFactory,
		auditService,
		notificationService,
		sugar,
	)
	settlementHandler := settlement.NewHandler(settlementService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(mw.ActorMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/users", userHandler.Routes())
		r.Mount("/orders", orderHandler.Routes())
		r.Mount("/payments", settlementHandler.PaymentRoutes())
		r.Mount("/invoices", settlementHandler.InvoiceRoutes())
		r.Mount("/audit", auditHandler.Routes())
		r.Mount("/notifications", notificationHandler.Routes())
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		sugar.Infow("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	sugar.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("shutdown error", "error", err)
	}
}
