package service

import (
	"context"
	"errors"
	"time"

	"fundarb/internal/application/port"
	"fundarb/internal/domain/model"

	"github.com/rs/zerolog/log"
)

// ErrPositionExists aborts hedge construction when the contract already
// has an open futures position. The loop ticks every few seconds and must
// never stack a second hedge on top of the first.
var ErrPositionExists = errors.New("futures position already exists")

// ErrSpotLegFailed is returned after the futures leg was rolled back
// because the spot leg could not be placed.
var ErrSpotLegFailed = errors.New("spot leg failed, futures leg rolled back")

// ErrRollbackFailed means the futures leg is open with no spot hedge and
// the close command failed too. Manual intervention required.
var ErrRollbackFailed = errors.New("rollback failed: unhedged futures position needs manual intervention")

// HedgeExecutor places the two legs of a hedge. Per invocation it creates
// exactly 0, 1 (transiently, closed again on rollback) or 2 live orders.
type HedgeExecutor struct {
	gw       port.Gateway
	journal  port.Journal
	leverage string
	// pause after both legs fill so the next tick re-reads settled state
	settlePause time.Duration
}

func NewHedgeExecutor(gw port.Gateway, journal port.Journal, leverage string, settlePause time.Duration) *HedgeExecutor {
	return &HedgeExecutor{gw: gw, journal: journal, leverage: leverage, settlePause: settlePause}
}

// OpenHedge runs NoPosition -> FuturesOpen -> Hedged, or rolls the
// futures leg back when the spot leg fails. futuresSize is signed:
// negative shorts the contract and pairs with a spot buy.
func (e *HedgeExecutor) OpenHedge(ctx context.Context, contract string, fundingRatePct, spotQuoteAmount float64, futuresSize int64) error {
	pos, err := e.gw.Position(ctx, contract)
	if err != nil && port.ErrKind(err) != port.KindNotFound {
		return err
	}
	if pos != nil && pos.Size != 0 {
		log.Warn().Str("contract", contract).Int64("size", pos.Size).Msg("position already open, not stacking")
		return ErrPositionExists
	}

	// Default leverage may already be acceptable; a set failure is not
	// worth aborting the window over.
	if err := e.gw.SetLeverage(ctx, contract, e.leverage); err != nil {
		log.Warn().Str("contract", contract).Str("leverage", e.leverage).Err(err).Msg("set leverage failed, continuing")
	}

	futOrder, err := e.gw.PlaceFuturesOrder(ctx, contract, futuresSize)
	if err != nil {
		log.Error().Str("contract", contract).Int64("size", futuresSize).Err(err).Msg("futures order failed")
		return err
	}
	log.Info().
		Str("contract", contract).
		Str("order_id", futOrder.ID).
		Int64("size", futuresSize).
		Msg("futures leg open")

	spotSide := model.SideSell
	if futuresSize < 0 {
		spotSide = model.SideBuy
	}

	spotOrder, err := e.gw.PlaceSpotOrder(ctx, contract, spotSide, spotQuoteAmount)
	if err != nil || spotOrder == nil || spotOrder.ID == "" {
		log.Error().Str("contract", contract).Str("side", spotSide).Err(err).Msg("spot leg failed, rolling back futures leg")
		if rbErr := e.gw.CloseFuturesPosition(ctx, contract); rbErr != nil {
			log.Error().Str("contract", contract).Err(rbErr).Msg("MANUAL INTERVENTION: futures rollback failed, position unhedged")
			return ErrRollbackFailed
		}
		return ErrSpotLegFailed
	}

	log.Info().
		Str("contract", contract).
		Str("spot_order_id", spotOrder.ID).
		Str("side", spotSide).
		Float64("amount", spotQuoteAmount).
		Msg("hedge open")

	if err := e.journal.RecordHedgeOpen(ctx, &port.HedgeRecord{
		Contract:       contract,
		FundingRatePct: fundingRatePct,
		FuturesSize:    futuresSize,
		SpotSide:       spotSide,
		SpotAmount:     spotQuoteAmount,
		SpotOrderID:    spotOrder.ID,
		FuturesOrderID: futOrder.ID,
		Timestamp:      time.Now().UnixMilli(),
	}); err != nil {
		log.Warn().Err(err).Msg("journal hedge open failed")
	}

	e.pause(ctx)
	return nil
}

// pause lets fills settle before the scheduling loop re-reads exchange
// state. Interruptible: an exiting process does not need the wait.
func (e *HedgeExecutor) pause(ctx context.Context) {
	if e.settlePause <= 0 {
		return
	}
	t := time.NewTimer(e.settlePause)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
