package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"po-executor/internal/browser"
	"po-executor/internal/config"
	"po-executor/internal/executor"
	"po-executor/internal/ledger"
	"po-executor/internal/logger"
	"po-executor/internal/trace"
)

// initializeSystem initializes env, logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// loadConfig loads and returns the configuration, falling back to defaults
// when no config file is present
func loadConfig(ctx context.Context) (*config.Config, error) {
	path := os.Getenv("EXECUTOR_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn(ctx, "No config file found, using defaults", "path", path)
			return config.Default(), nil
		}
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// initializeBrowser launches the browser session and restores the persisted
// login state
func initializeBrowser(ctx context.Context, cfg *config.Config) (*browser.Session, error) {
	sess := browser.New(browser.Options{
		Headless:         cfg.Browser.Headless,
		UserAgent:        cfg.Browser.UserAgent,
		SessionStatePath: cfg.Browser.SessionStatePath,
		ScreenshotDir:    cfg.Browser.ScreenshotDir,
		DefaultTimeout:   cfg.BrowserTimeout(),
	})
	if err := sess.Start(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Failed to start browser", err)
		return nil, err
	}

	if err := sess.Navigate(ctx, cfg.Platform.TradeURL); err != nil {
		logger.Warn(ctx, "Initial navigation failed, guard will retry per trade", "error", err)
	}
	return sess, nil
}

// initializeExecutor wires the ledger and the trade executor
func initializeExecutor(ctx context.Context, cfg *config.Config, sess *browser.Session) (*executor.Executor, error) {
	led, err := ledger.NewCSV(cfg.LedgerPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to open trade ledger", err)
		return nil, err
	}
	return executor.New(cfg, sess, led), nil
}

// shutdown persists session state and tears the stack down
func shutdown(ctx context.Context, sess *browser.Session) {
	if err := sess.SaveState(); err != nil {
		logger.Warn(ctx, "Failed to persist session state", "error", err)
	}
	sess.Close()
	if err := trace.Shutdown(ctx); err != nil {
		logger.Warn(ctx, "Tracer shutdown failed", "error", err)
	}
}
