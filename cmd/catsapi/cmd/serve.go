package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/whiskerworks/cats-api/internal/api"
	"github.com/whiskerworks/cats-api/internal/api/handler"
	"github.com/whiskerworks/cats-api/internal/core/ports"
	"github.com/whiskerworks/cats-api/internal/core/service"
	mongodb "github.com/whiskerworks/cats-api/internal/infrastructure/db/mongo"
	redisdb "github.com/whiskerworks/cats-api/internal/infrastructure/db/redis"
	"github.com/whiskerworks/cats-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Component("server")

		if err := cfg.RequireSecret(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, closeDB, err := openMongo(ctx)
		if err != nil {
			return err
		}
		defer closeDB()
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")

		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		// Redis is optional: without it user lookups go straight to mongo.
		var (
			rdb     *goredis.Client
			cache   ports.UserCache
			breaker handler.BreakerReporter
		)
		if cfg.Redis.Enabled {
			rdb, err = redisdb.Connect(ctx, redisdb.Config{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			if err != nil {
				log.Warn().Err(err).Msg("redis unavailable, user cache disabled")
			} else {
				defer rdb.Close()
				userCache := redisdb.NewUserCache(rdb, cfg.Redis.UserTTL, logger.Component("user_cache"))
				cache, breaker = userCache, userCache
				log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
			}
		}

		userRepo := mongodb.NewUserRepository(db)
		catRepo := mongodb.NewCatRepository(db)
		tokens := service.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

		e := api.NewRouter(api.Dependencies{
			Users:          service.NewUserService(userRepo, catRepo, cache, tokens, logger.Component("users")),
			Cats:           service.NewCatService(catRepo, userRepo, logger.Component("cats")),
			Tokens:         tokens,
			Mongo:          db,
			Redis:          rdb,
			Logger:         logger.Component("http"),
			LoginRate:      cfg.Auth.LoginRateLimit,
			CacheBreaker:   breaker,
			TrustedProxies: cfg.TrustedProxies,
		})

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("port", cfg.Port).Msg("server listening")
			if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	},
}
