package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/sitebooks/sitebooks/internal/config"
	"github.com/sitebooks/sitebooks/internal/handler"
	"github.com/sitebooks/sitebooks/internal/logging"
	"github.com/sitebooks/sitebooks/internal/middleware"
	"github.com/sitebooks/sitebooks/internal/repository"
	"github.com/sitebooks/sitebooks/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("sitebooks-api", cfg.LogLevel, cfg.AppEnv)

	db, err := connectDB(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	pool := repository.NewDB(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	productRepo := repository.NewProductRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	authSvc := service.NewAuthService(
		userRepo, tokenRepo, cfg.JWTSecret,
		time.Duration(cfg.AccessTokenTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTokenTTLDays)*24*time.Hour,
	)
	accountSvc := service.NewAccountService(accountRepo, transactionRepo)
	productSvc := service.NewProductService(productRepo)
	transactionSvc := service.NewTransactionService(pool, transactionRepo, accountRepo, productRepo)
	reportSvc := service.NewReportService(accountRepo, transactionRepo)

	authHandler := handler.NewAuthHandler(authSvc)
	accountHandler := handler.NewAccountHandler(accountSvc)
	productHandler := handler.NewProductHandler(productSvc)
	transactionHandler := handler.NewTransactionHandler(transactionSvc)
	reportHandler := handler.NewReportHandler(reportSvc)

	api := http.NewServeMux()
	api.HandleFunc("POST /api/v1/accounts", accountHandler.Create)
	api.HandleFunc("GET /api/v1/accounts", accountHandler.List)
	api.HandleFunc("GET /api/v1/accounts/{id}", accountHandler.Get)
	api.HandleFunc("PUT /api/v1/accounts/{id}", accountHandler.Update)
	api.HandleFunc("DELETE /api/v1/accounts/{id}", accountHandler.Delete)
	api.HandleFunc("GET /api/v1/accounts/{id}/balance", accountHandler.Balance)

	api.HandleFunc("POST /api/v1/products", productHandler.Create)
	api.HandleFunc("GET /api/v1/products", productHandler.List)
	api.HandleFunc("GET /api/v1/products/{id}", productHandler.Get)
	api.HandleFunc("PUT /api/v1/products/{id}", productHandler.Update)
	api.HandleFunc("DELETE /api/v1/products/{id}", productHandler.Delete)

	api.HandleFunc("POST /api/v1/transactions", transactionHandler.Create)
	api.HandleFunc("GET /api/v1/transactions", transactionHandler.List)
	api.HandleFunc("GET /api/v1/transactions/{id}", transactionHandler.Get)
	api.HandleFunc("PUT /api/v1/transactions/{id}", transactionHandler.Update)
	api.HandleFunc("DELETE /api/v1/transactions/{id}", transactionHandler.Delete)

	api.HandleFunc("GET /api/v1/reports/ledger/{id}", reportHandler.Ledger)
	api.HandleFunc("GET /api/v1/reports/daybook", reportHandler.DayBook)
	api.HandleFunc("GET /api/v1/reports/summary", reportHandler.Summary)

	idempotencyStore := middleware.NewIdempotencyStore(time.Duration(cfg.IdempotencyTTLHours) * time.Hour)
	protected := middleware.Auth(cfg.JWTSecret)(middleware.Idempotency(idempotencyStore)(api))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)
	mux.Handle("/api/v1/", protected)

	root := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		slog.Error("failed to write health response", "error", err)
	}
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connectDB: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeS) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeS) * time.Second)

	var pingErr error
	for i := range 30 {
		if pingErr = db.Ping(); pingErr == nil {
			return db, nil
		}
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}

	db.Close()
	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", pingErr)
}
