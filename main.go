package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/c14220110/poliklinik-dispatch/config"
	adminServices "github.com/c14220110/poliklinik-dispatch/internal/administrasi/services"
	"github.com/c14220110/poliklinik-dispatch/internal/antrian/services"
	"github.com/c14220110/poliklinik-dispatch/internal/common/metrics"
	"github.com/c14220110/poliklinik-dispatch/internal/common/middlewares"
	"github.com/c14220110/poliklinik-dispatch/internal/routes"
	"github.com/c14220110/poliklinik-dispatch/pkg/logger"
	"github.com/c14220110/poliklinik-dispatch/pkg/storage/mariadb"
	"github.com/c14220110/poliklinik-dispatch/ws"
)

const serviceName = "poliklinik-dispatch"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   serviceName,
		Short: "Poliklinik front-desk registration and queue dispatch",
	}
	root.AddCommand(serveCmd())
	root.AddCommand(catalogCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the front-desk API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the specialty catalog the server would load",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			specialties, err := loadSpecialties(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return printCatalog(cmd.OutOrStdout(), specialties)
		},
	}
}

// loadSpecialties resolves the catalog for CATALOG_SOURCE. A nil result
// means the dispatch manager's default catalog.
func loadSpecialties(ctx context.Context, cfg *config.Config) ([]string, error) {
	if cfg.CatalogSource != config.CatalogMariaDB {
		return cfg.Specialties, nil
	}

	db, err := mariadb.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return adminServices.NewPoliklinikService(db).ListNamaPoli(ctx)
}

func printCatalog(w io.Writer, specialties []string) error {
	if len(specialties) == 0 {
		specialties = services.DefaultSpecialties
	}
	for i, name := range specialties {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, name); err != nil {
			return err
		}
	}
	return nil
}

func runServer(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat, serviceName)

	specialties, err := loadSpecialties(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("source", cfg.CatalogSource).Msg("failed to load specialty catalog")
		return err
	}
	policy, err := services.ParseDuplicatePolicy(cfg.DuplicatePolicy)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	manager, err := services.NewDispatchManager(services.Options{
		Specialties:     specialties,
		DuplicatePolicy: policy,
		Logger:          &log,
		Metrics:         metrics.NewDispatchMetrics(reg),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	e := newEcho(log)
	routes.Init(e, routes.Dependencies{Manager: manager, Hub: hub, Gatherer: reg})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

func newEcho(log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewares.Recovery(log))
	e.Use(echomw.RequestID())
	e.Use(middlewares.RequestLogger(log))
	e.Use(echomw.CORS())
	return e
}
