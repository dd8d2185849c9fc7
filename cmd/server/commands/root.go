package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rl1809/inventory-service/internal/config"
)

var (
	cfg *config.Config

	// flag overrides, applied on top of the environment
	httpAddr    string
	mysqlDSN    string
	redisAddr   string
	storeDriver string
)

var rootCmd = &cobra.Command{
	Use:   "inventory-server",
	Short: "Inventory bookkeeping API",
	Long: `inventory-server runs the inventory HTTP API: user registration,
JWT login and owner-scoped CRUD over inventory items backed by MySQL.

Configuration is read from the environment (MYSQL_DSN, JWT_SECRET, REDIS_ADDR,
...) and may be overridden with flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg = loaded
		setupLogger(cfg)
		if cfg.JWTSecretGenerated {
			slog.Warn("JWT_SECRET not set, generating a random key; tokens will not survive a restart")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), cfg)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&mysqlDSN, "dsn", "", "MySQL DSN (overrides MYSQL_DSN)")
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store", "", "storage driver: mysql or memory (overrides STORE_DRIVER)")

	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	// Flags win over the environment, so export them before loading.
	overrides := map[string]string{
		"dsn":   "MYSQL_DSN",
		"store": "STORE_DRIVER",
		"addr":  "HTTP_ADDR",
		"redis": "REDIS_ADDR",
	}
	for flag, env := range overrides {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := os.Setenv(env, f.Value.String()); err != nil {
			return nil, err
		}
	}
	return config.Load()
}

func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
