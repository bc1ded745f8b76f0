package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/all-mute/tg-sleepwatch/internal/app"
	"github.com/all-mute/tg-sleepwatch/internal/config"
	"github.com/all-mute/tg-sleepwatch/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "sleepwatch:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	// Sync can fail on stderr targets; nothing useful to do about it.
	defer func() { _ = log.Sync() }()

	application, err := app.New(cfg, log)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return fmt.Errorf("startup: %w", err)
	}

	if err := application.Run(context.Background()); err != nil {
		log.Error("bot stopped with error", zap.Error(err))
		return err
	}
	return nil
}
