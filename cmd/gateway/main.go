package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lumenline/quotedesk/api/routes"
	"github.com/lumenline/quotedesk/internal/activity"
	"github.com/lumenline/quotedesk/internal/auth"
	"github.com/lumenline/quotedesk/internal/backend"
	"github.com/lumenline/quotedesk/internal/catalog"
	"github.com/lumenline/quotedesk/internal/chat"
	"github.com/lumenline/quotedesk/internal/editor"
	"github.com/lumenline/quotedesk/internal/opportunity"
	"github.com/lumenline/quotedesk/internal/quotes"
	"github.com/lumenline/quotedesk/internal/session"
	"github.com/lumenline/quotedesk/pkg/config"
	"github.com/lumenline/quotedesk/pkg/logger"
	"github.com/lumenline/quotedesk/pkg/metrics"
	"github.com/lumenline/quotedesk/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()

	backendClient, err := backend.NewClient(cfg.Backend, logg, metrics.NewBackendMetrics(registry))
	if err != nil {
		logg.Error(context.Background(), "failed to create backend client", err)
		os.Exit(1)
	}

	sessions := session.NewManager(redisClient, cfg.Session.TTL, logg)

	editorStore := editor.NewStore(editor.NewRedisCache(redisClient, cfg.Editor.StateTTL), logg)

	svcs := routes.Services{
		Sessions:    sessions,
		Auth:        auth.NewService(backendClient, sessions, logg),
		Quotes:      quotes.NewService(backendClient, logg),
		Editor:      editor.NewService(backendClient, editorStore, logg, cfg.Editor, cfg.ROI),
		Catalog:     catalog.NewService(backendClient, logg),
		Opportunity: opportunity.NewService(backendClient, logg),
		Chat:        chat.NewService(backendClient, logg),
		Activity:    activity.NewService(backendClient, logg),
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting gateway server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, redisClient, svcs, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "gateway server stopped unexpectedly", err)
		os.Exit(1)
	}
}
