package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"fundarb/internal/application/usecase/trader"
	"fundarb/internal/application/usecase/watch"
	"fundarb/internal/infrastructure/config"
	"fundarb/internal/infrastructure/logger"
	"fundarb/internal/infrastructure/svc"
)

func main() {
	// .env is optional; live deployments set the variables directly
	_ = godotenv.Load()
	logger.Setup()

	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	watchOnly := flag.Bool("watch", false, "funding board only, no trading")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := svc.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("service context initialization failed")
	}
	defer func() { _ = sc.Close() }()

	if *watchOnly {
		board := watch.NewService(sc.BuildWatchDeps(flag.Args()))
		log.Info().Str("config", *configPath).Msg("fundarb started in watch mode")
		if err := board.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("watch service exited")
		}
		return
	}

	controller := trader.NewService(sc.BuildTraderDeps())
	log.Info().
		Str("config", *configPath).
		Float64("threshold_pct", cfg.Strategy.ThresholdPct).
		Float64("target_balance", cfg.Strategy.TargetBalance).
		Msg("fundarb started")

	if err := controller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("trader service exited")
	}
}
