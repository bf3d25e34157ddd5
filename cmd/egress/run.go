package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/egress/pkg/cli"
	"mercator-hq/egress/pkg/config"
	"mercator-hq/egress/pkg/placement"
	"mercator-hq/egress/pkg/protocol"
	"mercator-hq/egress/pkg/proxy/handlers"
	"mercator-hq/egress/pkg/region"
	"mercator-hq/egress/pkg/security/auth"
	"mercator-hq/egress/pkg/security/secrets"
	"mercator-hq/egress/pkg/server"
	"mercator-hq/egress/pkg/telemetry/health"
	"mercator-hq/egress/pkg/telemetry/logging"
	"mercator-hq/egress/pkg/telemetry/metrics"
	"mercator-hq/egress/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the egress proxy",
	Long: `Start the egress proxy with the specified configuration.

The bearer secret is read from auth.tokens or EGRESS_AUTH_TOKEN. A missing
config file is allowed; defaults and environment overrides are used instead.

Examples:
  # Start with default config
  egress run

  # Start with custom config and a dotenv file for secrets
  egress run --config /etc/egress/config.yaml --env-file /etc/egress/.env

  # Override listen address
  egress run --listen 0.0.0.0:8080

  # Validate config without starting the proxy
  egress run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override process log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the proxy")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile, true)
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" || runFlags.logLevel != "" {
		if runFlags.listenAddress != "" {
			cfg.Proxy.ListenAddress = runFlags.listenAddress
		}
		if runFlags.logLevel != "" {
			cfg.Telemetry.Logging.Level = runFlags.logLevel
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}
	}

	logger, err := logging.New(logging.Config{
		Level:      cfg.Telemetry.Logging.Level,
		Format:     cfg.Telemetry.Logging.Format,
		AddSource:  cfg.Telemetry.Logging.AddSource,
		RedactURLs: cfg.Telemetry.Logging.RedactionEnabled(),
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Slog())

	if runFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to initialize tracing: %w", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}()

	dispatcher, err := protocol.NewDispatcher(cfg, collector, tracer)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	registry := placement.NewRegistry()
	router, err := region.NewRouter(cfg, dispatcher, region.Options{
		Metrics:   collector,
		Tracer:    tracer,
		Placement: registry,
	})
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer router.Close()

	checker := health.New(0)
	checker.RegisterCheck("regions", router.Check)

	if cfg.Placement.Enabled {
		prober := placement.NewProber(&cfg.Placement, router.Clients(), registry, collector)
		scheduler := placement.NewScheduler(prober, cfg.Placement.Schedule)
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewConfigError("placement.schedule", err.Error())
		}
		defer scheduler.Stop()
		checker.RegisterCheck("placement", registry.Check)

		if next := scheduler.NextRun(); next != nil {
			slog.Debug("placement probe scheduled", "next_run", next)
		}
	}

	validator := auth.NewTokenValidator(cfg.Auth.Tokens)
	if cfg.Auth.TokenFile != "" {
		manager := secrets.NewManager(validator, logger.Slog(),
			secrets.Static(cfg.Auth.Tokens),
			secrets.NewFileSource(cfg.Auth.TokenFile),
		)
		if _, err := manager.Load(ctx); err != nil {
			return cli.NewConfigError("auth.token_file", err.Error())
		}
		go func() {
			if err := manager.Watch(ctx); err != nil {
				slog.Error("token file watch stopped, secrets will no longer reload", "error", err)
			}
		}()
	}

	srv, err := server.NewServer(cfg, server.Dependencies{
		Boundary:  handlers.NewBoundaryHandler(router, logger, collector, &cfg.Proxy),
		Regions:   handlers.NewRegionsHandler(router, registry),
		Auth:      auth.NewBearerMiddleware(validator, collector, logger.Slog()),
		Checker:   checker,
		Metrics:   collector,
		Tracer:    tracer,
		Logger:    logger.Slog(),
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	})
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	printBanner(cfg)

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}

func printBanner(cfg *config.Config) {
	slog.Info("egress proxy configured",
		"version", Version,
		"config", cfgFile,
		"node", cfg.Proxy.NodeName,
		"regions", len(config.RegionIDs),
		"tokens", len(cfg.Auth.Tokens),
		"token_file", cfg.Auth.TokenFile != "",
		"placement_probe", cfg.Placement.Enabled,
		"metrics", cfg.Telemetry.Metrics.IsEnabled(),
		"tracing", cfg.Telemetry.Tracing.Enabled,
	)
}
