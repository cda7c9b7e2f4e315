package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	goBasket "github.com/MrEthical07/goBasket"
	promexport "github.com/MrEthical07/goBasket/metrics/export/prometheus"
	"github.com/MrEthical07/goBasket/postgres"
	"github.com/MrEthical07/goBasket/rest"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "basketd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional; production supplies real environment variables.
	_ = godotenv.Load()

	logger := newLogger()
	slog.SetDefault(logger)

	cfg := goBasket.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}

	pool, err := postgres.NewPool(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{cfg.Cache.Addr},
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	})
	defer redisClient.Close()

	engine, err := goBasket.NewEngine(
		cfg,
		logger,
		postgres.NewUserRepository(pool, logger),
		postgres.NewTenantRepository(pool, logger),
		redisClient,
	)
	if err != nil {
		return err
	}
	defer engine.Close()

	routerCfg := rest.RouterConfig{TenantGate: true}
	if cfg.MetricsEnabled {
		routerCfg.MetricsHandler = promexport.NewExporter(engine).Handler()
	}

	router := rest.NewRouter(engine, logger, routerCfg)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.Server.Addr)
		if err := router.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := router.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete", "repopulate_dropped", engine.RepopulateDropped())
	return nil
}

// newLogger builds a slog logger: JSON in production, text otherwise,
// selected by GO_ENV.
func newLogger() *slog.Logger {
	var handler slog.Handler
	if os.Getenv("GO_ENV") == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(handler)
}
