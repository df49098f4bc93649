package svc

import (
	"context"
	"fmt"
	"os"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"fundarb/internal/application/port"
	"fundarb/internal/application/service"
	"fundarb/internal/application/usecase/trader"
	"fundarb/internal/application/usecase/watch"
	domainservice "fundarb/internal/domain/service"
	"fundarb/internal/infrastructure/config"
	"fundarb/internal/infrastructure/exchange/gate"
	compositerepo "fundarb/internal/infrastructure/storage/composite"
	postgresrepo "fundarb/internal/infrastructure/storage/postgres"
	redisrepo "fundarb/internal/infrastructure/storage/redis"
	sqliterepo "fundarb/internal/infrastructure/storage/sqlite"
	"fundarb/internal/interfaces/console"
)

// ServiceContext wires infrastructure into the application ports. It
// is the single place that knows which storage backends are enabled
// and where the API credentials come from.
type ServiceContext struct {
	Ctx    context.Context
	Config *config.Config

	Gateway port.Gateway
	Feed    port.FundingFeed
	Journal port.Journal
	Sink    port.Sink

	ranker   *service.Ranker
	executor *domainservice.HedgeExecutor
	monitor  *domainservice.PositionMonitor

	closerChain []func() error
}

// New builds the full dependency graph. Credentials come from the
// GATE_API_KEY / GATE_API_SECRET environment variables, never from the
// config file.
func New(ctx context.Context, cfg *config.Config) (*ServiceContext, error) {
	key := os.Getenv("GATE_API_KEY")
	secret := os.Getenv("GATE_API_SECRET")
	if key == "" || secret == "" {
		log.Warn().Msg("GATE_API_KEY/GATE_API_SECRET not set, private endpoints will fail")
	}

	sc := &ServiceContext{
		Ctx:         ctx,
		Config:      cfg,
		Gateway:     gate.NewClient(cfg.Exchange.Gate.BaseURL, key, secret, cfg.Exchange.Gate.Settle),
		Feed:        gate.NewFundingFeed(cfg.Exchange.Gate.WsURL),
		Sink:        console.NewSink(),
		closerChain: make([]func() error, 0),
	}

	if err := sc.initializeStorage(); err != nil {
		_ = sc.Close()
		return nil, err
	}

	sc.ranker = service.NewRanker(sc.Gateway, cfg.Strategy.ThresholdPct, cfg.Strategy.Blacklist)
	sc.executor = domainservice.NewHedgeExecutor(
		sc.Gateway, sc.Journal,
		cfg.Strategy.Leverage,
		time.Duration(cfg.Strategy.SettlePauseSec)*time.Second,
	)
	sc.monitor = domainservice.NewPositionMonitor(sc.Gateway, sc.Journal, cfg.Strategy.FeeMultiplier)

	return sc, nil
}

// initializeStorage builds the journal from whatever backends the
// config enables. Several enabled backends fan out through the
// composite journal; none enabled falls back to a no-op.
func (sc *ServiceContext) initializeStorage() error {
	var journals []port.Journal

	if sc.Config.Redis.Enabled {
		repo, err := sc.initRedis()
		if err != nil {
			return fmt.Errorf("redis initialization failed: %w", err)
		}
		journals = append(journals, repo)
	}

	if sc.Config.SQLite.Enabled {
		repo, err := sqliterepo.New(sc.Config.SQLite.Path)
		if err != nil {
			return fmt.Errorf("sqlite initialization failed: %w", err)
		}
		journals = append(journals, repo)
		log.Info().Str("path", sc.Config.SQLite.Path).Msg("sqlite journal initialized")
	}

	if sc.Config.Postgres.Enabled {
		repo, err := postgresrepo.New(sc.Config.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("postgres initialization failed: %w", err)
		}
		journals = append(journals, repo)
		log.Info().Msg("postgres journal initialized")
	}

	switch len(journals) {
	case 0:
		sc.Journal = trader.NewNoopJournal()
		log.Warn().Msg("no storage backend enabled, hedge journal disabled")
	case 1:
		sc.Journal = journals[0]
	default:
		sc.Journal = compositerepo.New(journals...)
	}
	return nil
}

func (sc *ServiceContext) initRedis() (*redisrepo.Repo, error) {
	rdb := redisclient.NewClient(&redisclient.Options{
		Addr:     sc.Config.Redis.Addr,
		Password: sc.Config.Redis.Password,
		DB:       sc.Config.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(sc.Ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	sc.closerChain = append(sc.closerChain, func() error {
		log.Info().Msg("closing redis connection")
		return rdb.Close()
	})

	log.Info().
		Str("addr", sc.Config.Redis.Addr).
		Int("db", sc.Config.Redis.DB).
		Msg("redis journal initialized")

	return redisrepo.New(
		rdb,
		sc.Config.Redis.Prefix,
		time.Duration(sc.Config.Redis.TTLSeconds)*time.Second,
		sc.Config.Redis.SignalStream,
		sc.Config.Redis.SignalChannel,
	), nil
}

// BuildTraderDeps assembles everything the hedge controller needs.
func (sc *ServiceContext) BuildTraderDeps() trader.ServiceDeps {
	return trader.ServiceDeps{
		Gateway:        sc.Gateway,
		Ranker:         sc.ranker,
		Executor:       sc.executor,
		Monitor:        sc.monitor,
		Journal:        sc.Journal,
		TickInterval:   time.Duration(sc.Config.App.TickSec) * time.Second,
		BufferSec:      sc.Config.Strategy.BufferSec,
		TargetBalance:  sc.Config.Strategy.TargetBalance,
		SlippageBuffer: sc.Config.Strategy.SlippageBuffer,
	}
}

// BuildWatchDeps assembles the read-only funding board dependencies.
func (sc *ServiceContext) BuildWatchDeps(contracts []string) watch.ServiceDeps {
	return watch.ServiceDeps{
		Feed:          sc.Feed,
		Gateway:       sc.Gateway,
		Contracts:     contracts,
		PrintEveryMin: sc.Config.App.PrintEveryMin,
		ThresholdPct:  sc.Config.Strategy.ThresholdPct,
		TopN:          5,
		Sink:          sc.Sink,
		Journal:       sc.Journal,
	}
}

// Close releases resources in reverse initialization order.
func (sc *ServiceContext) Close() error {
	if sc.Journal != nil {
		if err := sc.Journal.Close(); err != nil {
			log.Error().Err(err).Msg("error closing journal")
		}
	}
	for i := len(sc.closerChain) - 1; i >= 0; i-- {
		if err := sc.closerChain[i](); err != nil {
			log.Error().Err(err).Msg("error closing resource")
		}
	}
	return nil
}
