package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-headline-feed/internal/app"
	"github.com/samvad-hq/samvad-headline-feed/internal/config"
	"github.com/samvad-hq/samvad-headline-feed/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "headlines failed: %v\n", err)
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

	log.InfoObj("headlines starting", "config", map[string]any{
		"app_name": cfg.AppName,
		"env":      cfg.Env,
		"provider": cfg.ProviderID,
		"category": cfg.Category,
		"country":  cfg.Country,
		"pages":    cfg.MaxPages,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reader, err := app.NewReader(ctx, cfg, log)
	if err != nil {
		log.ErrorObj("failed to initialize reader", "error", err.Error())
		return err
	}

	if err := reader.Run(ctx); err != nil {
		return fmt.Errorf("reader run: %w", err)
	}
	return nil
}
