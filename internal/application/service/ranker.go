package service

import (
	"context"
	"sort"

	"fundarb/internal/application/port"
	"fundarb/internal/domain/model"

	"github.com/rs/zerolog/log"
)

// Ranker scans the venue's contracts and picks the single best funding
// candidate. The validation cache is scoped to the Ranker instance, which
// lives as long as the controller session.
type Ranker struct {
	gw           port.Gateway
	thresholdPct float64 // minimum abs(funding rate) in percent
	blacklist    map[string]struct{}

	// contracts whose spot pair already produced candle data; an
	// un-tradable pair must never be selected
	validated map[string]struct{}
}

func NewRanker(gw port.Gateway, thresholdPct float64, blacklist []string) *Ranker {
	bl := make(map[string]struct{}, len(blacklist))
	for _, name := range blacklist {
		bl[name] = struct{}{}
	}
	return &Ranker{
		gw:           gw,
		thresholdPct: thresholdPct,
		blacklist:    bl,
		validated:    make(map[string]struct{}),
	}
}

// SelectBestCandidate returns the contract with the highest
// daily-equivalent funding yield, or nil when nothing qualifies.
func (r *Ranker) SelectBestCandidate(ctx context.Context) (*model.Contract, error) {
	contracts, err := r.gw.ListContracts(ctx)
	if err != nil {
		return nil, err
	}
	if len(contracts) == 0 {
		log.Warn().Msg("contract list empty")
		return nil, nil
	}

	candidates := make([]model.Contract, 0, 8)
	for _, c := range contracts {
		if _, banned := r.blacklist[c.Name]; banned {
			continue
		}
		ratePct := c.FundingRatePct()
		if ratePct < r.thresholdPct && ratePct > -r.thresholdPct {
			continue
		}
		if !r.validateTradable(ctx, c.Name) {
			continue
		}
		candidates = append(candidates, c)
		log.Info().
			Str("contract", c.Name).
			Float64("funding_rate_pct", ratePct).
			Int64("interval_sec", c.FundingInterval).
			Float64("score", c.PriorityScore()).
			Msg("funding candidate")
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	// Stable: equal scores keep first-seen order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].PriorityScore() > candidates[j].PriorityScore()
	})

	best := candidates[0]
	return &best, nil
}

// validateTradable checks once per session that the contract's spot pair
// returns candle data. Results are cached so the same contract is not
// re-validated every tick.
func (r *Ranker) validateTradable(ctx context.Context, name string) bool {
	if _, ok := r.validated[name]; ok {
		return true
	}
	candles, err := r.gw.SpotCandles(ctx, name, "1m", 1)
	if err != nil {
		log.Warn().Str("contract", name).Err(err).Msg("spot candle fetch failed, skipping candidate")
		return false
	}
	if len(candles) == 0 {
		log.Warn().Str("contract", name).Msg("no spot candle data, pair not tradable")
		return false
	}
	r.validated[name] = struct{}{}
	return true
}
