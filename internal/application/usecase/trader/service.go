package trader

import (
	"context"
	"errors"
	"sync"
	"time"

	"fundarb/internal/application/port"
	"fundarb/internal/application/service"
	"fundarb/internal/domain/model"
	domainservice "fundarb/internal/domain/service"

	"github.com/rs/zerolog/log"
)

type ServiceDeps struct {
	Gateway  port.Gateway
	Ranker   *service.Ranker
	Executor *domainservice.HedgeExecutor
	Monitor  *domainservice.PositionMonitor
	Journal  port.Journal

	TickInterval   time.Duration
	BufferSec      int64   // pre-settlement window
	TargetBalance  float64 // single-leg notional, quote currency
	SlippageBuffer float64
}

// Service is the hedge lifecycle controller: one tick runs
// rank -> gate -> size -> execute, then reconciles open positions.
// Strictly sequential; at most one hedge is ever in flight.
type Service struct {
	deps ServiceDeps
}

func NewService(deps ServiceDeps) *Service {
	return &Service{deps: deps}
}

// Run blocks until ctx is cancelled. The tick in flight when the signal
// arrives finishes first: a partially placed hedge is never abandoned.
func (s *Service) Run(ctx context.Context) error {
	if s.deps.Gateway == nil {
		return errors.New("no gateway")
	}

	s.reconcileStartup(ctx)

	ticker := time.NewTicker(s.deps.TickInterval)
	defer ticker.Stop()

	log.Info().
		Dur("tick", s.deps.TickInterval).
		Int64("buffer_sec", s.deps.BufferSec).
		Float64("target_balance", s.deps.TargetBalance).
		Msg("hedge controller started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("hedge controller stopped, open positions left as-is")
			return ctx.Err()
		case <-ticker.C:
			s.maybeOpen(ctx)
			s.deps.Monitor.ReconcileAndMaybeClose(ctx)
		}
	}
}

// reconcileStartup puts the account in one-way position mode and flags
// positions that have no matching spot leg. Orphans are logged only;
// they require manual intervention, never automatic resolution. Returns
// the orphaned contracts; a failed spot-order fetch is a skip, not an
// orphan verdict.
func (s *Service) reconcileStartup(ctx context.Context) []string {
	if err := s.deps.Gateway.SetPositionMode(ctx, false); err != nil {
		log.Warn().Err(err).Msg("set one-way position mode failed, continuing")
	}

	positions, err := s.deps.Gateway.Positions(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("startup position check failed")
		return nil
	}

	var orphans []string
	for i := range positions {
		pos := &positions[i]
		orders, err := s.deps.Gateway.ClosedSpotOrders(ctx, pos.Contract)
		if err != nil {
			log.Warn().
				Str("contract", pos.Contract).
				Err(err).
				Msg("spot order check failed, cannot reconcile contract yet")
			continue
		}
		if !hasMatchingSpotLeg(pos, orders) {
			orphans = append(orphans, pos.Contract)
			log.Error().
				Str("contract", pos.Contract).
				Int64("size", pos.Size).
				Msg("MANUAL INTERVENTION: open position has no matching closed spot order")
			continue
		}
		log.Info().
			Str("contract", pos.Contract).
			Str("side", pos.Side()).
			Int64("size", pos.Size).
			Msg("resuming open hedge")
	}
	return orphans
}

func hasMatchingSpotLeg(pos *model.Position, orders []model.OrderInfo) bool {
	want := model.SideSell
	if pos.Size < 0 {
		want = model.SideBuy
	}
	for i := range orders {
		if orders[i].Closed() && orders[i].Side == want {
			return true
		}
	}
	return false
}

// maybeOpen runs one pass of the entry sequence. Any transient failure
// just ends the pass; the next tick retries from scratch.
func (s *Service) maybeOpen(ctx context.Context) {
	positions, err := s.deps.Gateway.Positions(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("position list unavailable, skipping entry")
		return
	}
	if len(positions) > 0 {
		// one hedge at a time; the monitor owns it now
		return
	}

	cand, err := s.deps.Ranker.SelectBestCandidate(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("candidate scan failed")
		return
	}
	if cand == nil {
		return
	}

	if err := s.deps.Journal.RecordCandidate(ctx, &port.CandidateRecord{
		Contract:        cand.Name,
		FundingRatePct:  cand.FundingRatePct(),
		FundingInterval: cand.FundingInterval,
		Score:           cand.PriorityScore(),
		Timestamp:       time.Now().UnixMilli(),
	}); err != nil {
		log.Warn().Err(err).Msg("journal candidate failed")
	}

	if !service.NearSettlement(time.Now(), cand.FundingInterval, s.deps.BufferSec) {
		return
	}

	fut, spot, ok := s.fetchTickers(ctx, cand.Name)
	if !ok {
		return
	}

	wallet, err := s.deps.Gateway.WalletBalance(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("wallet balance unavailable")
		return
	}
	// both legs draw on spot: the hedge needs double the single-leg notional
	if wallet.Spot < s.deps.TargetBalance*2 {
		log.Warn().
			Float64("spot_balance", wallet.Spot).
			Float64("required", s.deps.TargetBalance*2).
			Msg("insufficient spot balance for hedge")
		return
	}

	sizes, ok := service.ComputeOrderSizes(
		cand.FundingRatePct(),
		fut.HighestBid, fut.LowestAsk, spot.LowestAsk,
		cand.QuantoMultiplier,
		s.deps.TargetBalance,
		s.deps.SlippageBuffer,
	)
	if !ok {
		log.Warn().
			Str("contract", cand.Name).
			Float64("quanto_multiplier", cand.QuantoMultiplier).
			Msg("balance below one contract, skipping")
		return
	}

	log.Info().
		Str("contract", cand.Name).
		Float64("funding_rate_pct", cand.FundingRatePct()).
		Int64("futures_size", sizes.FuturesSize).
		Str("spot_side", sizes.SpotSide).
		Float64("spot_amount", sizes.SpotQuoteAmount).
		Msg("opening hedge before settlement")

	if err := s.deps.Executor.OpenHedge(ctx, cand.Name, cand.FundingRatePct(), sizes.SpotQuoteAmount, sizes.FuturesSize); err != nil {
		log.Warn().Str("contract", cand.Name).Err(err).Msg("hedge open did not complete")
	}
}

// fetchTickers grabs the futures and spot quotes concurrently. The two
// reads are independent; everything around them stays sequential.
func (s *Service) fetchTickers(ctx context.Context, contract string) (fut, spot *model.Ticker, ok bool) {
	var wg sync.WaitGroup
	var futErr, spotErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		fut, futErr = s.deps.Gateway.FuturesTicker(ctx, contract)
	}()
	go func() {
		defer wg.Done()
		spot, spotErr = s.deps.Gateway.SpotTicker(ctx, contract)
	}()
	wg.Wait()

	if futErr != nil || fut == nil {
		log.Warn().Str("contract", contract).Err(futErr).Msg("futures ticker unavailable")
		return nil, nil, false
	}
	if spotErr != nil || spot == nil {
		log.Warn().Str("contract", contract).Err(spotErr).Msg("spot ticker unavailable")
		return nil, nil, false
	}
	return fut, spot, true
}
