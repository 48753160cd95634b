package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockbook/internal/config"
	"stockbook/internal/database"
	"stockbook/internal/logger"
	"stockbook/internal/repository"
	"stockbook/internal/repository/memory"
	"stockbook/internal/server"
	"stockbook/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// @title           Stockbook API
// @version         1.0
// @description     Multi-location inventory, purchasing, invoicing and GST reporting.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	envErr := godotenv.Load("configs/.env")

	cfg := config.LoadEnv()
	log, err := logger.New(cfg.Logger, cfg.Server.IsDevelopment())
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Debug("no configs/.env file loaded", zap.Error(envErr))
	}
	if !cfg.Server.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	repos, err := openStorage(cfg, log)
	if err != nil {
		log.Fatal("storage init failed", zap.Error(err))
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(log)
	go wsHub.Run()

	predictor := server.NewPredictor(cfg.Forecast, log)
	services := server.NewServices(cfg, repos, wsHub, predictor, log)

	ctx := context.Background()
	if created, err := services.Users.EnsureAdmin(ctx, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword); err != nil {
		log.Error("failed to ensure admin user", zap.Error(err))
	} else if created {
		log.Info("initial admin user created", zap.String("username", cfg.Seed.AdminUsername))
	}

	if cfg.Seed.DemoData {
		err := database.SeedDemoData(ctx, database.SeedServices{
			Locations:      services.Locations,
			Products:       services.Products,
			Inventory:      services.Inventory,
			Suppliers:      services.Suppliers,
			SupplierOrders: services.SupplierOrders,
			Sales:          services.Sales,
			Invoices:       services.Invoices,
			Payments:       services.Payments,
		}, "", time.Now().UTC(), log.Named("seed"))
		if err != nil {
			log.Error("failed to seed demo data", zap.Error(err))
		}
	}

	router := server.NewRouter(cfg, services, wsHub, log)
	if cfg.JWT.Secret == "default_super_secret_key" {
		log.Warn("JWT_SECRET not set, using the development fallback")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	wsHub.Stop()
}

// openStorage selects the repository backend from STORAGE_DRIVER.
func openStorage(cfg *config.Config, log *zap.Logger) (*repository.Repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		log.Info("using in-memory storage")
		return memory.New().Repositories(), nil
	case config.StoragePostgres, "":
		db, err := database.NewConnection(cfg.Postgres, log)
		if err != nil {
			return nil, err
		}
		log.Info("connected to PostgreSQL", zap.String("host", cfg.Postgres.Host), zap.String("db", cfg.Postgres.DBName))
		return repository.NewGormRepositories(db), nil
	}
	return nil, errors.New("unknown STORAGE_DRIVER " + cfg.Storage.Driver)
}
