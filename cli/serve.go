package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"loan-payoff/config"
	httpLayer "loan-payoff/http"
	"loan-payoff/logging"
	"loan-payoff/repository"
	"loan-payoff/service"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

func newServeCmd(cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the projection HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, *cfgFile)
			if err != nil {
				return err
			}
			logging.Setup(cfg.Log.Level, cfg.Log.Pretty)
			return serve(cfg)
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("cache", "memory", `projection cache ("memory" or "redis")`)
	cmd.Flags().String("redis-addr", "localhost:6379", "redis address")
	cmd.Flags().String("store", "memory", `liability store ("memory" or "mysql")`)
	cmd.Flags().String("dsn", "", "mysql DSN")
	cmd.Flags().String("log-level", "info", "log level")
	cmd.Flags().Bool("log-pretty", false, "human-readable console logs")

	return cmd
}

func serve(cfg config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	cache, closeCache, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeCache()

	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	projections := service.NewProjectionService(cache, cfg.Cache.TTL)
	explainer := service.NewExplanationService(cfg.AI.APIKey, cfg.AI.URL, cfg.AI.Model)
	liabilities := service.NewLiabilityService(store, projections, explainer)
	portfolio := service.NewPortfolioService(projections, explainer)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Refill)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.Handlers{
		Projection: httpLayer.NewProjectionHandler(projections),
		Liability:  httpLayer.NewLiabilityHandler(liabilities),
		Portfolio:  httpLayer.NewPortfolioHandler(portfolio),
	}, rateLimiter, cfg.Server.CORSOrigins)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).
			Str("cache", cfg.Cache.Driver).
			Str("store", cfg.Store.Driver).
			Msg("API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
		log.Info().Msg("shutting down server")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
		return err
	}

	log.Info().Msg("server exited")
	return nil
}

func openCache(ctx context.Context, cfg config.CacheConfig) (repository.CacheRepository, func(), error) {
	if cfg.Driver != "redis" {
		return repository.NewMockCache(), func() {}, nil
	}

	cache := repository.NewRedisCache(cfg.RedisAddr)
	if err := cache.Ping(ctx); err != nil {
		cache.Close()
		return nil, nil, err
	}
	return cache, func() {
		if err := cache.Close(); err != nil {
			log.Warn().Err(err).Msg("closing redis")
		}
	}, nil
}

func openStore(ctx context.Context, cfg config.StoreConfig) (repository.LiabilityRepository, func(), error) {
	if cfg.Driver != "mysql" {
		return repository.NewLiabilityRepositoryMemory(), func() {}, nil
	}

	db, err := repository.OpenMySQL(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	store := &repository.LiabilityRepositoryMySQL{DB: db}
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("closing mysql")
		}
	}, nil
}
