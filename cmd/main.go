/*
Package main is the entry point for the uminion server.

It is responsible for loading configuration, initializing the global logging system,
connecting to PostgreSQL and object storage, starting the chat server,
and gracefully handling operating system interrupt signals (SIGINT, SIGTERM)
to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"uminion/internal/app/chat"
	"uminion/internal/app/db"
	"uminion/internal/app/storage"
	"uminion/internal/app/store"
	"uminion/internal/configs"
	"uminion/internal/handler"
	"uminion/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Strs("truncated_pages", cfg.TruncatedPages).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL and apply migrations
	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to connect to database")
	}
	defer pool.Close()

	// Initialize object storage
	storageService, err := storage.NewStorageService(storage.ServiceConfig{
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize storage service")
	}

	// Repositories
	messages := store.NewMessageRepository(pool)
	users := store.NewUserRepository(pool)
	products := store.NewProductRepository(pool)
	friends := store.NewFriendRepository(pool)
	carts := store.NewCartRepository(pool)
	wants := store.NewWantRepository(pool)

	// Start the chat server
	chatServer := chat.NewServer(messages, chat.ServerConfig{
		ChatroomPassword: cfg.ChatroomPassword,
		TruncatedPages:   cfg.TruncatedPages,
	})

	// Setup HTTP server and routes
	deps := &handler.AppDeps{
		Chat:     chatServer,
		Config:   cfg,
		Storage:  storageService,
		Users:    users,
		Products: products,
		Friends:  friends,
		Carts:    carts,
		Wants:    wants,
	}
	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("uminion server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	chatServer.Shutdown()

	logx.Info("Server gracefully stopped.")
}
