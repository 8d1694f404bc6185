// Command intake-server hosts the quote submission gateway.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	"github.com/goliatone/go-intake/pkg/catalog"
	"github.com/goliatone/go-intake/pkg/gateway"
	"github.com/goliatone/go-intake/pkg/notify"
)

type config struct {
	Addr         string        `env:"INTAKE_ADDR" envDefault:":8080"`
	BasePath     string        `env:"INTAKE_BASE_PATH" envDefault:"/"`
	CatalogPath  string        `env:"INTAKE_CATALOG"`
	ResendAPIKey string        `env:"RESEND_API_KEY"`
	EmailFrom    string        `env:"INTAKE_EMAIL_FROM" envDefault:"quotes@studio.example"`
	EmailTo      string        `env:"INTAKE_EMAIL_TO" envDefault:"hello@studio.example"`
	RateLimit    int           `env:"INTAKE_RATE_LIMIT" envDefault:"3"`
	RateWindow   time.Duration `env:"INTAKE_RATE_WINDOW" envDefault:"1m"`
	MinDwell     time.Duration `env:"INTAKE_MIN_DWELL" envDefault:"3s"`
}

func main() {
	grace := flag.Duration("grace", 5*time.Second, "shutdown grace period")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Stderr.WriteString("create logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		logger.Fatal("parse environment", zap.Error(err))
	}

	if err := run(cfg, *grace, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg config, grace time.Duration, logger *zap.Logger) error {
	gatewayOpts := []gateway.OptionFn{
		gateway.WithLogger(logger),
		gateway.WithRateLimit(cfg.RateLimit, cfg.RateWindow),
		gateway.WithMinDwell(cfg.MinDwell),
	}

	if cfg.CatalogPath != "" {
		watcher, err := catalog.NewWatcher(cfg.CatalogPath, catalog.WithWatcherLogger(logger))
		if err != nil {
			return err
		}
		defer watcher.Close()
		gatewayOpts = append(gatewayOpts, gateway.WithCatalogProvider(watcher))
	}

	sender := notify.NewResendSender(cfg.ResendAPIKey)
	if !sender.Configured() {
		logger.Warn("RESEND_API_KEY is not set, submissions will be rejected with 500")
	}
	notifier, err := notify.NewEmailNotifier(sender, cfg.EmailFrom, cfg.EmailTo,
		notify.WithEmailLogger(logger))
	if err != nil {
		return err
	}
	gatewayOpts = append(gatewayOpts, gateway.WithNotifier(notifier))

	mux := http.NewServeMux()
	pattern, err := gateway.RegisterRoutes(mux, cfg.BasePath, gatewayOpts...)
	if err != nil {
		return err
	}
	logger.Info("gateway mounted", zap.String("pattern", pattern), zap.String("addr", cfg.Addr))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("grace", grace))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
