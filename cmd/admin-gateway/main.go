package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/api"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/chat"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/config"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/facultypedia"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/logging"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := session.NewStore(cfg.StateDir, logger)
	client := facultypedia.NewClient(cfg.BackendAPIURL, sess, logger, facultypedia.Options{
		Timeout:            cfg.RequestTimeout,
		SuperAdminEmail:    cfg.SuperAdminEmail,
		SuperAdminPassword: cfg.SuperAdminPassword,
	})

	socket := chat.NewSocket(cfg.BackendWSURL()+"/api/chat/ws", sess, logger)
	hub := chat.NewHub(client, socket, logger)
	socket.OnEvent = hub.HandleSocketEvent
	sess.OnExpired(func() {
		socket.Close()
		hub.Reset()
	})

	// Best effort: chat works over REST until the socket is up, and the
	// socket needs a session first.
	if err := client.EnsureSession(ctx); err != nil {
		logger.Warn().Err(err).Msg("no backend session yet, waiting for login")
	} else if err := socket.Connect(ctx); err != nil {
		logger.Warn().Err(err).Msg("chat socket unavailable, chat falls back to rest")
	}

	srv := api.NewServer(logger, cfg, sess, client, hub)

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting admin gateway")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	socket.Close()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}
