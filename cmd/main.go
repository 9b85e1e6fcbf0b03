/*
Package main is the entry point for the Wayfarer realtime server.

It is responsible for loading configuration, initializing the global logging
system, connecting to PostgreSQL, wiring the realtime core (hub, session
registry, presence broadcaster, message service, notification fan-out) and
gracefully handling operating system interrupt signals (SIGINT, SIGTERM)
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

	"wayfarer/internal/app/chat"
	"wayfarer/internal/app/db"
	"wayfarer/internal/app/friend"
	"wayfarer/internal/app/store"
	"wayfarer/internal/configs"
	"wayfarer/internal/handler"
	"wayfarer/internal/pkg/logx"
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
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL and run migrations
	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to connect to database")
	}
	defer pool.Close()

	// Persistence layer
	userStore := store.NewUserStore(pool)
	friendStore := store.NewFriendStore(pool)
	messageStore := store.NewMessageStore(pool)

	// Realtime core
	hub := chat.NewHub()
	sessions := chat.NewInMemorySessionStore()
	presence := chat.NewPresence(hub, sessions, friendStore)
	messages := chat.NewMessageService(hub, sessions, friendStore, messageStore)
	notifier := chat.NewNotifier(hub)

	// Friendship workflow, reaching the core through the notifier capability
	friends := friend.NewService(friendStore, userStore, notifier)

	deps := &handler.AppDeps{
		Hub:      hub,
		Sessions: sessions,
		Presence: presence,
		Messages: messages,
		Friends:  friends,
		Verifier: handler.NewJWTVerifier(cfg.JWTSecret),
		Config:   cfg,
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
		logx.Info(fmt.Sprintf("Wayfarer Realtime Server starting on http://localhost%s", serverAddr))
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

	hub.Shutdown()

	logx.Info("Server gracefully stopped.")
}
