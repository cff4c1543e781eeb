// Command geocached serves cached forward and reverse geocoding over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/unkn0wn-root/geocache"
	"github.com/unkn0wn-root/geocache/geocoding"
	asynchook "github.com/unkn0wn-root/geocache/hooks/async"
	"github.com/unkn0wn-root/geocache/loghooks"
	"github.com/unkn0wn-root/geocache/promhooks"
	"github.com/unkn0wn-root/geocache/provider/positionstack"
	"github.com/unkn0wn-root/geocache/server"
)

var Version = "dev"

func newRootCmd() *cobra.Command {
	var configFile string
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "geocached",
		Short:         "Cached forward and reverse geocoding service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, configFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&configFile, "config", "", "config file (default ./geocached.yaml or /etc/geocached/geocached.yaml)")
	fs.String("listen", ":8080", "HTTP listen address")
	fs.String("log-backend", "zap", "logging backend: zap, logrus or slog")
	fs.String("log-level", "info", "minimum log level")
	fs.String("access-key", "", "upstream API access key")
	if err := bindFlags(v, fs); err != nil {
		panic(err)
	}
	return cmd
}

func run(ctx context.Context, cfg Config) error {
	log, flush, err := newLogger(cfg.LogBackend, cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	defer flush()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	hooks := asynchook.New(
		geocache.MultiHooks(
			promhooks.New(reg, cfg.MetricsNamespace),
			loghooks.New(log, loghooks.Options{HitEvery: cfg.Hooks.HitEvery, MissEvery: cfg.Hooks.MissEvery}),
		),
		cfg.Hooks.AsyncWorkers, cfg.Hooks.AsyncQueue,
	)
	defer hooks.Close()

	caches, err := geocache.NewRegistry(cfg.registryConfig(log, hooks))
	if err != nil {
		return err
	}
	defer caches.Close()
	reg.MustRegister(promhooks.NewSizeCollector(cfg.MetricsNamespace, caches.Stats))

	upstream, err := positionstack.New(positionstack.Config{
		ForwardURL: cfg.Provider.ForwardURL,
		ReverseURL: cfg.Provider.ReverseURL,
		AccessKey:  cfg.Provider.AccessKey,
		Timeout:    cfg.Provider.Timeout,
		MaxBody:    cfg.Provider.MaxBody,
		RateLimit:  cfg.Provider.RateLimit,
		Burst:      cfg.Provider.Burst,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	svc, err := geocoding.NewService(caches, upstream, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.Listen,
		Handler: server.New(server.Options{
			Geocoder:   svc,
			Stats:      caches.Stats,
			Gatherer:   reg,
			Registerer: reg,
			Namespace:  cfg.MetricsNamespace,
			Logger:     log,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", geocache.Fields{"addr": cfg.Listen, "caches": caches.Names()})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "geocached:", err)
		os.Exit(1)
	}
}
