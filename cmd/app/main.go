package main

import (
	"context"

	"marquee/config"
	"marquee/di"
	"marquee/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	app := di.InitializeApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Settings.Initialize(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize settings")
	}

	go app.Sweeper.Run(ctx)
	go app.Notifier.Run(ctx)

	app.HTTP.Serve()
}
