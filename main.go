// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/votehub/auth"
	"github.com/danielhkuo/votehub/cliparse"
	"github.com/danielhkuo/votehub/db"
	"github.com/danielhkuo/votehub/live"
	"github.com/danielhkuo/votehub/middleware"
	"github.com/danielhkuo/votehub/router"
)

func main() {
	var err error

	// Load .env before reading configuration
	if err := cliparse.LoadDotEnv(); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Dev helper: print a session token and exit
	if cfg.IssueTokenFor != "" {
		token, err := auth.IssueToken(cfg.IssueTokenFor, cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			slog.Error("failed to issue token", "error", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables and results view)
	if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Live updates: Redis when configured, in-process otherwise
	var broker live.Broker = live.NewMemoryBroker()
	if cfg.RedisURL != "" {
		redisBroker, err := live.NewRedisBroker(context.Background(), cfg.RedisURL)
		if err != nil {
			slog.Error("redis broker failed", "error", err)
			os.Exit(1)
		}
		broker = redisBroker
	}
	defer broker.Close()

	// Create router
	mux := router.NewRouter(dbConn, cfg, broker)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(cfg.CORSOrigin, mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Event streams never finish on their own; close what Shutdown leaves
		if err := server.Shutdown(ctx); err != nil {
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
