package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/carbon-chat/carbon/internal/config"
	"github.com/carbon-chat/carbon/internal/handlers"
	"github.com/carbon-chat/carbon/internal/middleware"
	"github.com/carbon-chat/carbon/internal/store/sqlstore"
	"github.com/carbon-chat/carbon/internal/ws"
)

var addr = flag.String("addr", "", "http service address (overrides CARBON_ADDR)")

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	store, err := sqlstore.New(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub(store, logger)
	go hub.Run(ctx)

	limiter := middleware.NewLimiterStore(cfg.RateLimitPerMinute, cfg.RateLimitBurst, 5*time.Minute)
	defer limiter.Stop()

	authHandler := &handlers.AuthHandler{Store: store, SessionTTL: cfg.SessionTTL, BcryptCost: cfg.BcryptCost}
	chatHandler := &handlers.ChatHandler{Store: store, Hub: hub}

	r := mux.NewRouter()
	r.Use(middleware.Logging(logger))

	r.HandleFunc("/healthcheck", handlers.Health).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RateLimit(limiter))
	api.HandleFunc("/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth", authHandler.Authenticate).Methods("POST")

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Auth(store))
	protected.HandleFunc("/updatePassword", authHandler.UpdatePassword).Methods("POST")
	protected.HandleFunc("/createChat", chatHandler.CreateChat).Methods("POST")
	protected.HandleFunc("/createChatMessage", chatHandler.CreateChatMessage).Methods("POST")
	protected.HandleFunc("/getChatMessages", chatHandler.GetChatMessages).Methods("POST")
	protected.HandleFunc("/getInvolvedChats", chatHandler.GetInvolvedChats).Methods("POST")
	protected.HandleFunc("/getChatUsers", chatHandler.GetChatUsers).Methods("POST")
	protected.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, w, r, middleware.UserID(r.Context()))
	}).Methods("GET")

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // WebSocket connections outlive any write deadline
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("carbon listening", "addr", cfg.Addr, "driver", cfg.DatabaseDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
