package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"po-executor/internal/logger"
	"po-executor/internal/server"
)

func main() {
	if err := initializeSystem(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}

	sess, err := initializeBrowser(ctx, cfg)
	if err != nil {
		os.Exit(1)
	}

	exec, err := initializeExecutor(ctx, cfg, sess)
	if err != nil {
		sess.Close()
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.New(exec, sess),
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Executor listening", "addr", cfg.ListenAddr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-sigc:
		logger.Info(ctx, "Shutting down...")
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithErr(ctx, "HTTP server failed", err)
		}
	}

	// An in-flight trade keeps its HTTP exchange open; give it a moment, but
	// never block shutdown on a full expiry window.
	sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer scancel()
	_ = srv.Shutdown(sctx)

	shutdown(ctx, sess)
}
