package service

import (
	"context"
	"time"

	"fundarb/internal/application/port"
	"fundarb/internal/domain/model"

	"github.com/rs/zerolog/log"
)

// PositionMonitor recomputes combined hedge PnL every tick and unwinds
// once it turns strictly positive. There is no stop-loss and no
// time-based exit; profit is the only trigger.
type PositionMonitor struct {
	gw      port.Gateway
	journal port.Journal
	// round-trip cost approximation: spot order fee times this factor
	// (open + close + the implicit spot trade)
	feeMultiplier float64
}

func NewPositionMonitor(gw port.Gateway, journal port.Journal, feeMultiplier float64) *PositionMonitor {
	if feeMultiplier <= 0 {
		feeMultiplier = 3
	}
	return &PositionMonitor{gw: gw, journal: journal, feeMultiplier: feeMultiplier}
}

// ReconcileAndMaybeClose walks all open futures positions, rebuilds each
// hedge's spot cost basis from its latest closed spot order, and closes
// both legs when the total PnL is positive.
func (m *PositionMonitor) ReconcileAndMaybeClose(ctx context.Context) {
	positions, err := m.gw.Positions(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("position list unavailable, retrying next tick")
		return
	}

	for i := range positions {
		m.reconcileOne(ctx, &positions[i])
	}
}

func (m *PositionMonitor) reconcileOne(ctx context.Context, pos *model.Position) {
	if pos.Size == 0 {
		return
	}
	futuresPnl := pos.TotalPnl()

	spotOrder := m.latestClosedSpotOrder(ctx, pos.Contract)
	if spotOrder == nil {
		return
	}

	ticker, err := m.gw.SpotTicker(ctx, pos.Contract)
	if err != nil {
		log.Warn().Str("contract", pos.Contract).Err(err).Msg("spot ticker unavailable")
		return
	}

	spotPnl, unwindSize, ok := m.spotLegPnl(pos, spotOrder, ticker)
	if !ok {
		return
	}

	totalPnl := futuresPnl + spotPnl
	log.Info().
		Str("contract", pos.Contract).
		Str("side", pos.Side()).
		Int64("size", pos.Size).
		Float64("futures_pnl", futuresPnl).
		Float64("spot_pnl", spotPnl).
		Float64("total_pnl", totalPnl).
		Msg("hedge pnl")

	if err := m.journal.RecordPnlSample(ctx, &port.PnlSample{
		Contract:   pos.Contract,
		Side:       pos.Side(),
		Size:       pos.Size,
		FuturesPnl: futuresPnl,
		SpotPnl:    spotPnl,
		TotalPnl:   totalPnl,
		Timestamp:  time.Now().UnixMilli(),
	}); err != nil {
		log.Warn().Err(err).Msg("journal pnl sample failed")
	}

	// Strictly positive: break-even does not pay the exit.
	if totalPnl > 0 {
		m.unwind(ctx, pos, spotOrder, ticker, unwindSize, futuresPnl, spotPnl)
	}
}

// latestClosedSpotOrder returns the newest closed spot order for the
// contract, or nil when monitoring must be skipped this tick. A contract
// may carry stale orders from previous hedges; only the latest counts.
func (m *PositionMonitor) latestClosedSpotOrder(ctx context.Context, contract string) *model.OrderInfo {
	orders, err := m.gw.ClosedSpotOrders(ctx, contract)
	if err != nil || len(orders) == 0 {
		log.Warn().Str("contract", contract).Err(err).Msg("no spot orders found for open position")
		return nil
	}

	latest := &orders[0]
	for i := 1; i < len(orders); i++ {
		if orders[i].UpdateTimeMs > latest.UpdateTimeMs {
			latest = &orders[i]
		}
	}
	if !latest.Closed() {
		// Never infer a cost basis from an unfilled order.
		log.Warn().
			Str("contract", contract).
			Str("order_id", latest.ID).
			Str("status", latest.Status).
			Msg("latest spot order not closed, handle position manually")
		return nil
	}
	return latest
}

// spotLegPnl reconstructs the spot leg PnL against the current
// opposing-side quote. unwindSize is the base amount the unwind order
// must move to fully flatten the spot leg.
func (m *PositionMonitor) spotLegPnl(pos *model.Position, order *model.OrderInfo, ticker *model.Ticker) (pnl, unwindSize float64, ok bool) {
	entry := order.AvgDealPrice
	if entry <= 0 {
		log.Warn().Str("contract", pos.Contract).Str("order_id", order.ID).Msg("spot order has no fill price")
		return 0, 0, false
	}
	fees := order.Fee * m.feeMultiplier

	switch {
	case order.Side == model.SideSell && pos.Size > 0:
		// Sold base against a futures long; buying back at the current
		// ask costs the move since entry.
		amount := order.Amount
		return (entry-ticker.HighestBid)*amount - fees, amount, true

	case order.Side == model.SideBuy && pos.Size < 0:
		// Bought with quote against a futures short; order.Amount is the
		// quote spent, entry converts it to base held.
		coin := order.Amount / entry
		return (ticker.LowestAsk-entry)*coin - fees, coin, true

	default:
		// Spot side and futures direction disagree: the order belongs to
		// some other hedge. Orphaned, not auto-resolved.
		log.Warn().
			Str("contract", pos.Contract).
			Str("spot_side", order.Side).
			Str("futures_side", pos.Side()).
			Msg("spot leg does not match futures direction, handle position manually")
		return 0, 0, false
	}
}

// unwind closes the futures position and submits the opposite spot order.
func (m *PositionMonitor) unwind(ctx context.Context, pos *model.Position, order *model.OrderInfo, ticker *model.Ticker, unwindSize, futuresPnl, spotPnl float64) {
	log.Info().
		Str("contract", pos.Contract).
		Float64("total_pnl", futuresPnl+spotPnl).
		Msg("closing hedge")

	if err := m.gw.CloseFuturesPosition(ctx, pos.Contract); err != nil {
		log.Error().Str("contract", pos.Contract).Err(err).Msg("futures close failed, retrying next tick")
		return
	}

	var err error
	if order.Side == model.SideSell {
		// Buy back the base that was sold; market buys take a quote amount.
		_, err = m.gw.PlaceSpotOrder(ctx, pos.Contract, model.SideBuy, ticker.LowestAsk*unwindSize)
	} else {
		_, err = m.gw.PlaceSpotOrder(ctx, pos.Contract, model.SideSell, unwindSize)
	}
	if err != nil {
		log.Error().Str("contract", pos.Contract).Err(err).Msg("MANUAL INTERVENTION: spot unwind failed after futures close")
		return
	}

	if err := m.journal.RecordHedgeClose(ctx, &port.CloseRecord{
		Contract:   pos.Contract,
		FuturesPnl: futuresPnl,
		SpotPnl:    spotPnl,
		TotalPnl:   futuresPnl + spotPnl,
		Timestamp:  time.Now().UnixMilli(),
	}); err != nil {
		log.Warn().Err(err).Msg("journal hedge close failed")
	}
}
