package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fsotosa-ops/oasis-backend/internal/config"
	"github.com/fsotosa-ops/oasis-backend/internal/observability/logger"
)

// version se inyecta en build time via -ldflags.
var version = "dev"

func main() {
	var (
		flagConfigPath string
		flagEnvFile    string
	)

	root := &cobra.Command{
		Use:          "oasis",
		Short:        "OASIS Platform backend (API multi-tenant de gamificación)",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flagConfigPath, "config", "", "ruta a config.yaml (fallback: $CONFIG_PATH)")
	root.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "ruta a .env (si existe, se carga)")

	loadConfig := func() (*config.Config, error) {
		if flagEnvFile != "" && fileExists(flagEnvFile) {
			_ = godotenv.Load(flagEnvFile)
		}
		path := flagConfigPath
		if path == "" {
			path = os.Getenv("CONFIG_PATH")
		}
		if path == "" && fileExists("configs/config.yaml") {
			path = "configs/config.yaml"
		}
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		return cfg, nil
	}

	initLogger := func(cfg *config.Config) {
		env := cfg.App.Env
		if cfg.Log.Format == "console" {
			env = "dev"
		} else if env == "" {
			env = "prod"
		}
		logger.Init(logger.Config{
			Env:         env,
			Level:       cfg.Log.Level,
			ServiceName: "oasis-backend",
			Version:     version,
		})
	}

	root.AddCommand(newServeCmd(loadConfig, initLogger))
	root.AddCommand(newMigrateCmd(loadConfig, initLogger))
	root.AddCommand(newRecalcCmd(loadConfig, initLogger))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
