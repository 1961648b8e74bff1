package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
	_ "time/tzdata"

	"golang.org/x/sync/errgroup"

	"ledgerdash/internal/amqp"
	"ledgerdash/internal/backend"
	"ledgerdash/internal/cli"
	"ledgerdash/internal/config"
	apphttp "ledgerdash/internal/http"
	"ledgerdash/internal/log"
	"ledgerdash/internal/services"
	"ledgerdash/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()
	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error("ledgerdash stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *log.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	env, err := cli.LoadEnvironment(cfg)
	if err != nil {
		return err
	}

	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg, env.Location)
	if err != nil {
		return err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := result.Close(); err != nil {
			logger.Warn("Backend cleanup failed", log.FieldError, err)
		}
	}()

	dash := services.NewDashboard(result.Source, services.DashboardConfig{
		Vocabulary: env.Vocabulary,
		Location:   env.Location,
		Logger:     logger,
	})
	refresher := worker.NewRefreshWorker(dash, worker.RefreshWorkerConfig{Interval: cfg.RefreshInterval}, logger)
	srv := apphttp.NewServer(dash, apphttp.Config{
		Addr:      ":" + cfg.Port,
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
		Logger:    logger,
	})

	g, gctx := errgroup.WithContext(ctx)

	if err := refresher.Start(gctx); err != nil {
		return err
	}

	g.Go(func() error {
		logger.Info("Starting ledgerdash server",
			"port", cfg.Port, "backend", string(result.Type), "timezone", env.Location.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return fmt.Errorf("connect to AMQP: %w", err)
		}
		defer client.Close()

		g.Go(func() error {
			logger.Info("Listening for ledger changes", "queue", cfg.AMQPQueue)
			err := client.ConsumeWithReconnect(gctx, refresher.HandleLedgerChanged)
			if err == nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("consume ledger changes: %w", err)
		})
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("Shutting down", log.FieldOperation, log.OpShutdown)
		if err := refresher.Stop(shutdownCtx); err != nil {
			logger.Warn("Refresh worker stop failed", log.FieldError, err)
		}
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
