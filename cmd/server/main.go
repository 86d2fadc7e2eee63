package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nroldan/storefront/internal/catalog"
	"github.com/nroldan/storefront/internal/httpx"
	"github.com/nroldan/storefront/internal/ordering"
	"github.com/nroldan/storefront/internal/pkg/cache"
	"github.com/nroldan/storefront/internal/pkg/telemetry"
	"github.com/nroldan/storefront/internal/store/memory"
	"github.com/nroldan/storefront/internal/store/sqlite"
)

func main() {
	_ = godotenv.Load()
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "storefront"))
		if err != nil {
			slog.Error("failed to initialise tracer", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("tracer shutdown error", "error", err)
			}
		}()
	}

	var (
		products catalog.Store
		orders   ordering.Store
	)
	dbPath := getEnv("DB_PATH", "./data/storefront.db")
	if dbPath == ":memory:" {
		mem := memory.New()
		products, orders = mem, mem
	} else {
		db, err := sqlite.Open(dbPath)
		if err != nil {
			slog.Error("failed to open database", "path", dbPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		products, orders = db, db
	}

	var orderCache cache.Cache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		orderCache = cache.NewRedisCache(addr, "storefront")
	}

	handler := httpx.NewHandler(
		catalog.NewService(products),
		ordering.NewService(products, orders, orderCache),
	)

	addr := ":" + getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:    addr,
		Handler: otelhttp.NewHandler(httpx.NewRouter(handler), "http.server"),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown error", "error", err)
		}
	}()

	slog.Info("storefront server running", "addr", addr, "db", dbPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
