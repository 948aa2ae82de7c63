package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/mk-bot-cloud/my-notion-widgets/internal/app"
	"github.com/mk-bot-cloud/my-notion-widgets/internal/config"
	"github.com/mk-bot-cloud/my-notion-widgets/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("error loading config: %s", err)
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application := app.New(cfg, logger)

	if err := application.Run(ctx); err != nil {
		logger.Error("run finished with errors", "error", err)
		os.Exit(1)
	}
}
