package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samvad-hq/samvad-board-client/internal/config"
	"github.com/samvad-hq/samvad-board-client/internal/logger"
	"github.com/samvad-hq/samvad-board-client/pkg/boardserver"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "boardstub start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := boardserver.New(log)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.StubListenAddr)
	}()
	log.InfoObj("boardstub listening", "addr", cfg.StubListenAddr)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("boardstub serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("boardstub shutdown: %w", err)
	}
	log.InfoObj("boardstub stopped", "posts", srv.Len())
	return nil
}
