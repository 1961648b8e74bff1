// Package cli provides process bootstrap shared by cmd/ledgerdash and
// cmd/ledgerctl.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"ledgerdash/internal/config"
	"ledgerdash/internal/core"
	"ledgerdash/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes the service logger from a textual level and sets
// it as the default logger.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// NewConsoleLogger returns a logger rendering through charmbracelet/log, for
// interactive commands.
func NewConsoleLogger(w io.Writer, level string) *log.Logger {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		lvl = charmlog.InfoLevel
	}
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Prefix:          "ledgerctl",
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           lvl,
	})
	return log.New(log.Config{Handler: handler, Component: log.ComponentCLI})
}

// Environment is what both binaries derive from the configuration
type Environment struct {
	Config     *config.Config
	Location   *time.Location
	Vocabulary core.Vocabulary
}

// LoadEnvironment resolves the business time zone and the vocabulary file.
func LoadEnvironment(cfg *config.Config) (*Environment, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load time zone: %w", err)
	}
	vocab, err := config.LoadVocabulary(cfg.VocabularyFile)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	return &Environment{Config: cfg, Location: loc, Vocabulary: vocab}, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
