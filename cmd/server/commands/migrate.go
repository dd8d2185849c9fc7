package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/rl1809/inventory-service/internal/adapter/storage"
	"github.com/rl1809/inventory-service/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.StoreDriver != config.DriverMySQL {
			return errors.New("migrate requires the mysql store driver")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		adapter, db, err := openMySQLAdapter(ctx, cfg.MySQLDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		return applyMigrations(ctx, adapter)
	},
}

func applyMigrations(ctx context.Context, adapter *storage.MySQLAdapter) error {
	slog.Info("applying migrations...")
	applied, err := adapter.Migrate(ctx)
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "count", len(applied), "files", applied)
	return nil
}
