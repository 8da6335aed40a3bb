package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"storefront-demo/internal/config"
	"storefront-demo/internal/logging"
	"storefront-demo/internal/stubserver"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log)

	db, err := stubserver.OpenDB(cfg.Stub.DatabasePath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}

	productRepo := stubserver.NewProductRepository(db)
	authRepo := stubserver.NewAuthRepository(db)
	orderRepo := stubserver.NewOrderRepository(db)
	profileRepo := stubserver.NewProfileRepository(db)

	if err := productRepo.Seed(context.Background(), stubserver.SeedProducts()); err != nil {
		logger.Error("seed products", "error", err)
		os.Exit(1)
	}

	tokens := stubserver.NewTokenService(cfg.Stub.JWTSecret, 24*time.Hour)
	handlers := stubserver.NewHandlers(productRepo, authRepo, orderRepo, profileRepo, tokens, logger)
	srv := stubserver.NewServer(handlers, tokens)

	serverAddr := cfg.Stub.Host + ":" + cfg.Stub.Port

	logger.Info("starting stub API server", "addr", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, shutting down")

	if err := srv.Shutdown(); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
