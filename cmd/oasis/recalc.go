package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fsotosa-ops/oasis-backend/internal/config"
	"github.com/fsotosa-ops/oasis-backend/internal/gamification"
	"github.com/fsotosa-ops/oasis-backend/internal/observability/logger"
	"github.com/fsotosa-ops/oasis-backend/internal/store/pg"
)

// newRecalcCmd recalcula puntos de step_completion sin pasar por el API.
// Útil después de cambiar la configuración de puntos de una organización.
func newRecalcCmd(loadConfig func() (*config.Config, error), initLogger func(*config.Config)) *cobra.Command {
	var orgID, journeyID string

	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Recalcula los puntos de las completaciones de una organización",
		RunE: func(cmd *cobra.Command, args []string) error {
			if orgID == "" {
				return fmt.Errorf("--org-id es requerido")
			}
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
				ConnMaxLifetime: 30 * time.Minute,
			})
			if err != nil {
				return err
			}
			defer store.Close()

			rc := &gamification.Recalculator{
				Repo:   store.Recalc(),
				Ledger: store.Ledger(),
			}
			updated, err := rc.Run(ctx, orgID, journeyID)
			if err != nil {
				return fmt.Errorf("recalc falló: %w", err)
			}
			fmt.Printf("completaciones actualizadas: %d\n", updated)
			return nil
		},
	}

	cmd.Flags().StringVar(&orgID, "org-id", "", "ID de la organización (requerido)")
	cmd.Flags().StringVar(&journeyID, "journey-id", "", "limitar el recálculo a un journey (opcional)")
	return cmd
}
