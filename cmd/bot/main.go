package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dogjoy/miniapp/config"
	"github.com/dogjoy/miniapp/internal/api"
	"github.com/dogjoy/miniapp/internal/botapp"
	"github.com/dogjoy/miniapp/internal/botapp/commands"
	"github.com/dogjoy/miniapp/internal/core"
	"github.com/dogjoy/miniapp/internal/logger"
	"github.com/dogjoy/miniapp/internal/storage"
)

func main() {
	// Handle Ctrl+C / SIGTERM for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		logger.Errorf("%v", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	if err := cfg.ValidateBot(); err != nil {
		return err
	}
	logger.Setup(cfg.LogLevel)
	defer logger.Sync()

	store, err := storage.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	var opts []api.Option
	if cfg.APIRateLimit > 0 {
		opts = append(opts, api.WithRateLimit(cfg.APIRateLimit, cfg.APIRateBurst))
	}
	client := api.NewClient(cfg.APIBaseURL, cfg.APITimeout, opts...)

	deps := commands.Deps{
		WebAppURL:    cfg.WebAppURL,
		BotToken:     cfg.BotToken,
		LoginTimeout: cfg.LoginTimeout,

		Store: store,
		API:   client,
		Locks: commands.NewKeyedMutex(),

		Profiles: core.NewProfileService(client),
		Pets:     core.NewPetService(client),
		Catalog:  core.NewCatalogService(client, cfg.CatalogCacheTTL),
		Billing:  core.NewBillingService(client),
	}

	b, err := botapp.NewBot(cfg.BotToken, deps, botapp.Options{
		Debug:       cfg.BotDebug,
		InitTimeout: cfg.BotInitTimeout,
	})
	if err != nil {
		return err
	}
	if err := botapp.SetCommands(ctx, b); err != nil {
		logger.Warnf("set bot commands: %v", err)
	}

	if cfg.MetricsAddr != "" {
		go func() {
			if err := botapp.ServeMetrics(ctx, cfg.MetricsAddr); err != nil {
				logger.Errorf("metrics server: %v", err)
			}
		}()
	}

	logger.Infof("Starting Telegram bot (api %s, store %s)...", client.BaseURL(), cfg.Store.Driver)
	b.Start(ctx)
	logger.Infof("Bot stopped")
	return nil
}
