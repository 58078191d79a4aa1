package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/fsotosa-ops/oasis-backend/internal/config"
	"github.com/fsotosa-ops/oasis-backend/internal/observability/logger"
	"github.com/fsotosa-ops/oasis-backend/internal/store/pg"
	migrations "github.com/fsotosa-ops/oasis-backend/migrations/postgres"
)

func newMigrateCmd(loadConfig func() (*config.Config, error), initLogger func(*config.Config)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes del esquema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			initLogger(cfg)
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			store, err := pg.New(ctx, cfg.Storage.DSN, pg.Options{
				MaxConns:        2,
				MinConns:        1,
				ConnMaxLifetime: 5 * time.Minute,
			})
			if err != nil {
				return err
			}
			defer store.Close()

			return store.RunMigrations(ctx, migrations.FS)
		},
	}
}
