package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	rdb "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fsotosa-ops/oasis-backend/internal/config"
	adminctrl "github.com/fsotosa-ops/oasis-backend/internal/httpapi/controllers/admin"
	gamctrl "github.com/fsotosa-ops/oasis-backend/internal/httpapi/controllers/gamification"
	healthctrl "github.com/fsotosa-ops/oasis-backend/internal/httpapi/controllers/health"
	orgsctrl "github.com/fsotosa-ops/oasis-backend/internal/httpapi/controllers/orgs"
	resctrl "github.com/fsotosa-ops/oasis-backend/internal/httpapi/controllers/resources"
	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/metrics"
	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/router"
	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/services/adminsvc"
	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/services/gamificationsvc"
	orgssvc "github.com/fsotosa-ops/oasis-backend/internal/httpapi/services/orgs"
	"github.com/fsotosa-ops/oasis-backend/internal/httpapi/services/resourcessvc"
	"github.com/fsotosa-ops/oasis-backend/internal/identity"
	"github.com/fsotosa-ops/oasis-backend/internal/observability/logger"
	"github.com/fsotosa-ops/oasis-backend/internal/rate"
	"github.com/fsotosa-ops/oasis-backend/internal/store/pg"
)

func newServeCmd(loadConfig func() (*config.Config, error), initLogger func(*config.Config)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			initLogger(cfg)
			defer func() { _ = logger.Sync() }()
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.With(logger.Component("serve"))

	// ─── Storage ───
	connLifetime, err := time.ParseDuration(cfg.Storage.Postgres.ConnMaxLifetime)
	if err != nil {
		connLifetime = 30 * time.Minute
	}
	store, err := pg.New(ctx, cfg.Storage.DSN, pg.Options{
		MaxConns:        int32(cfg.Storage.Postgres.MaxOpenConns),
		MinConns:        int32(cfg.Storage.Postgres.MaxIdleConns),
		ConnMaxLifetime: connLifetime,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	// ─── Identidad ───
	verifier := identity.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience)

	// ─── Rate limiting ───
	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		switch cfg.Rate.Backend {
		case "redis":
			rc := rdb.NewClient(&rdb.Options{
				Addr: cfg.Rate.Redis.Addr,
				DB:   cfg.Rate.Redis.DB,
			})
			defer func() { _ = rc.Close() }()
			limiter = rate.NewRedisLimiter(rc, cfg.Rate.Redis.Prefix+"rl:", cfg.Rate.MaxRequests, cfg.RateWindow())
			log.Info("rate limiting habilitado", logger.String("backend", "redis"))
		default:
			limiter = rate.NewMemoryLimiter(cfg.Rate.MaxRequests, cfg.RateWindow())
			log.Info("rate limiting habilitado", logger.String("backend", "memory"))
		}
	}

	// ─── Métricas ───
	metricsHandler, err := metrics.Register(metrics.Config{Pool: store.Pool})
	if err != nil {
		return err
	}

	// ─── Servicios ───
	orgsService := orgssvc.New(orgssvc.Deps{
		Memberships: store.Memberships(),
	})
	gamService := gamificationsvc.New(gamificationsvc.Deps{
		Memberships: store.Memberships(),
		Ledger:      store.Ledger(),
		Activities:  store.Activities(),
		Progress:    store.Progress(),
		Catalog:     store.Catalog(),
		Steps:       store.Steps(),
		Config:      store.Recalc(),
	})
	resourcesService := resourcessvc.New(resourcessvc.Deps{
		Memberships: store.Memberships(),
		Ledger:      store.Ledger(),
		Progress:    store.Progress(),
		Catalog:     store.Catalog(),
	})
	adminService := adminsvc.New(adminsvc.Deps{
		Memberships: store.Memberships(),
		Recalc:      store.Recalc(),
		Ledger:      store.Ledger(),
	})

	// ─── Router ───
	handler := router.New(router.Deps{
		Verifier:       verifier,
		Limiter:        limiter,
		Health:         healthctrl.New(store),
		Orgs:           orgsctrl.New(orgsService),
		Gamification:   gamctrl.New(gamService),
		Resources:      resctrl.New(resourcesService),
		Admin:          adminctrl.New(adminService),
		MetricsHandler: metricsHandler,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("servidor HTTP escuchando", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		log.Info("apagando servidor HTTP")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("servidor terminó con error", logger.Err(err))
		return err
	}
	log.Info("servidor detenido")
	return nil
}
