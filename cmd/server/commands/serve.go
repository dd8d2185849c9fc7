package commands

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/rl1809/inventory-service/internal/adapter/handler"
	"github.com/rl1809/inventory-service/internal/adapter/storage"
	"github.com/rl1809/inventory-service/internal/adapter/token"
	"github.com/rl1809/inventory-service/internal/config"
	"github.com/rl1809/inventory-service/internal/core/service"
	"github.com/rl1809/inventory-service/internal/port"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&httpAddr, "addr", "", "HTTP listen address (overrides HTTP_ADDR)")
	serveCmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for Idempotency-Key support (overrides REDIS_ADDR)")
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply pending migrations before serving")

	// The root command serves too, with the same flags.
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
}

type store interface {
	port.UserRepository
	port.InventoryRepository
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if err := cfg.RequireJWTSecret(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var repo store
	switch cfg.StoreDriver {
	case config.DriverMemory:
		slog.Warn("using in-memory store, data is lost on exit")
		repo = storage.NewMemoryAdapter()
	default:
		mysqlAdapter, db, err := openMySQLAdapter(ctx, cfg.MySQLDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		slog.Info("connected to mysql")

		if migrateOnStart {
			if err := applyMigrations(ctx, mysqlAdapter); err != nil {
				return err
			}
		}
		repo = mysqlAdapter
	}

	var cache port.CacheRepository
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: 100,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		slog.Info("connected to redis", "addr", cfg.RedisAddr)
		cache = storage.NewRedisAdapter(rdb)
	}

	tokens, err := token.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return err
	}
	credentials, err := service.NewCredentialStore(repo, cfg.BcryptCost)
	if err != nil {
		return err
	}

	authService := service.NewAuthService(credentials, tokens)
	itemService := service.NewItemService(repo, cache)
	app := handler.NewApp(handler.NewHTTPHandler(authService, itemService, tokens), cfg.CORSOrigin)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		errCh <- app.Listen(cfg.HTTPAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-quit:
	case <-ctx.Done():
	}

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown", "error", err)
	}
	slog.Info("HTTP server stopped")

	return nil
}

func openMySQLAdapter(ctx context.Context, dsn string) (*storage.MySQLAdapter, *sql.DB, error) {
	db, err := storage.OpenMySQL(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewMySQLAdapter(db), db, nil
}
