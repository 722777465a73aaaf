package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	httpx "github.com/Brigames121/ChatGPT-Beta/internal/http"
	"github.com/Brigames121/ChatGPT-Beta/internal/repository"
	"github.com/Brigames121/ChatGPT-Beta/internal/repository/memory"
	"github.com/Brigames121/ChatGPT-Beta/internal/repository/redisstore"
	"github.com/Brigames121/ChatGPT-Beta/internal/service/auth"
	"github.com/Brigames121/ChatGPT-Beta/internal/service/channel"
	"github.com/Brigames121/ChatGPT-Beta/internal/service/chat"
	"github.com/Brigames121/ChatGPT-Beta/internal/service/settings"
	"github.com/Brigames121/ChatGPT-Beta/pkg/config"
	"github.com/Brigames121/ChatGPT-Beta/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.New("api", slog.LevelInfo).Warn("could not read .env", "error", err)
	}

	cfg, err := config.LoadAPIConfig()
	if err != nil {
		logger.New("api", slog.LevelInfo).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New("api", logger.ParseLevel(cfg.LogLevel))
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log.Info("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := memory.New()
	checks := []httpx.HealthCheck{{Name: "users", Check: store.Ping}}

	var settingRepo repository.SettingRepository = store
	if addr := strings.TrimSpace(cfg.SettingsRedisAddr); addr != "" {
		redisSettings, err := redisstore.Dial(ctx, addr, cfg.SettingsRedisPass, cfg.SettingsRedisDB)
		if err != nil {
			log.Warn("redis settings store unavailable, using memory", "addr", addr, "error", err)
		} else {
			defer redisSettings.Close()
			settingRepo = redisSettings
			checks = append(checks, httpx.HealthCheck{Name: "settings", Check: redisSettings.Ping})
			log.Info("settings stored in redis", "addr", addr)
		}
	}

	authSvc := auth.New(store, log, cfg)
	if _, err := authSvc.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminUsername); err != nil {
		log.Error("failed to seed admin account", "error", err)
		os.Exit(1)
	}
	settingsSvc := settings.New(settingRepo, log)
	channelSvc := channel.New(settingsSvc, log)
	chatSvc := chat.New(cfg, log)
	if !chatSvc.Available() {
		log.Warn("OPENAI_API_KEY not set, chat relay disabled")
	}

	router := httpx.NewRouter(log, authSvc, settingsSvc, channelSvc, chatSvc, cfg.StaticDir, checks...)
	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}).Handler(router)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("api server starting", "addr", cfg.Addr, "static_dir", cfg.StaticDir)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		log.Info("api server stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
