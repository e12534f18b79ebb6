package main

import (
	"context"
	"delivery-analytics-service/internal/adapters/cache"
	"delivery-analytics-service/internal/adapters/repositories"
	"delivery-analytics-service/internal/api"
	"delivery-analytics-service/internal/config"
	"delivery-analytics-service/internal/platform/db"
	"delivery-analytics-service/internal/platform/obs"
	"delivery-analytics-service/internal/ports"
	"delivery-analytics-service/internal/services"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := obs.NewLogger(os.Stdout, "delivery-analytics", obs.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.Server.Timezone, err)
	}

	pool, err := db.Open(ctx, cfg.Database.Driver, cfg.DSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	// SQLite is the local-run backend; initialize its schema on startup.
	if cfg.Database.Driver == db.DriverSqlite {
		if err := repositories.InitSqliteSchema(ctx, pool); err != nil {
			return err
		}
	}

	repos, err := repositories.NewSet(pool, cfg.Database.Driver)
	if err != nil {
		return err
	}

	var zones ports.ZoneRepository = repos.Zones
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()

		// Zone reference rows only; derived analytics are never cached.
		zones = cache.NewCachedZoneRepository(repos.Zones, cache.NewRedisZoneCache(client, cfg.Redis.ZoneTTL))
		slog.Info("zone cache enabled", "ttl", cfg.Redis.ZoneTTL.String())
	}

	dashboard, err := services.NewDashboard(
		repos.Events,
		zones,
		repos.Officers,
		cfg.Palette,
		services.RenderStyle{SuccessColor: cfg.Style.SuccessColor, FailureColor: cfg.Style.FailureColor},
	)
	if err != nil {
		return err
	}

	obs.Register(prometheus.DefaultRegisterer)

	router := api.NewRouter(api.RouterConfig{
		Dashboard: dashboard,
		Metrics:   promhttp.Handler(),
		Limiter:   rate.NewLimiter(rate.Limit(cfg.Server.RateLimitRPS), cfg.Server.RateLimitBurst),
		Location:  loc,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-sig:
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server shutdown complete")
	return nil
}
