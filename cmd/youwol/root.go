package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/youwol/httpclients/pkg/config"
	"github.com/youwol/httpclients/pkg/debug"
)

type globalFlags struct {
	configPath  string
	logLevel    string
	debug       string
	metricsAddr string
	host        string
}

// runFunc is the body of a command once the app is set up.
type runFunc func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:           "youwol",
		Short:         "Client of the youwol backends",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	pf.StringVar(&flags.debug, "debug", "", "Comma-separated debug categories (transport, monitor, live, storage, auth, config, all)")
	pf.StringVar(&flags.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while the command runs")
	pf.StringVar(&flags.host, "host", "", "Backend host, e.g. http://localhost:2000")

	// with wraps a command body with configuration, logging, metrics and
	// the app lifecycle.
	with := func(fn runFunc) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			debug.Init(cfg.Log.Debug, cfg.Log.Level, debug.FileOptions{
				Path:      cfg.Log.File,
				MaxSizeMB: cfg.Log.MaxSizeMB,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, slog.Default())
			if err != nil {
				return err
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := a.Close(closeCtx); err != nil {
					slog.Warn("closing", "error", err)
				}
			}()

			if cfg.Metrics.Addr != "" {
				serveMetrics(ctx, cfg.Metrics)
			}
			return fn(ctx, a, cmd, args)
		}
	}

	cmd.AddCommand(
		healthzCmd(with),
		getCmd(with),
		downloadCmd(with),
		uploadCmd(with),
		watchCmd(with),
		journalCmd(with),
	)
	return cmd
}

// loadConfig layers the flags over the configuration file and environment.
func loadConfig(flags globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.debug != "" {
		cfg.Log.Debug = flags.debug
	}
	if flags.metricsAddr != "" {
		cfg.Metrics.Addr = flags.metricsAddr
	}
	if flags.host != "" {
		cfg.Client.Host = flags.host
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid --host: %w", err)
		}
	}
	return cfg, nil
}

func serveMetrics(ctx context.Context, cfg config.MetricsConfig) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		slog.Info("metrics endpoint", "addr", cfg.Addr, "path", cfg.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics endpoint failed", "error", err)
		}
	}()
	context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	})
}
