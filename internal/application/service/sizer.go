package service

import (
	"math"

	"fundarb/internal/domain/model"
)

// HedgeSize is the output of the sizer: a spot quote amount and a signed
// futures contract count. Positive funding rate means the futures leg is
// short (negative contracts) and the spot leg a buy; negative rate is the
// mirror image.
type HedgeSize struct {
	SpotQuoteAmount float64
	FuturesSize     int64 // signed contracts
	SpotSide        string
}

// ComputeOrderSizes converts a target notional balance into order sizes.
// slippageBuffer pads the spot quote amount so the spot fill fully covers
// the futures notional (e.g. 0.01 for 1%). Returns ok=false when the
// balance does not buy a single whole contract; a partial hedge is never
// placed.
func ComputeOrderSizes(fundingRatePct, futuresBid, futuresAsk, spotAsk, quantoMultiplier, targetBalance, slippageBuffer float64) (HedgeSize, bool) {
	if quantoMultiplier <= 0 || targetBalance <= 0 {
		return HedgeSize{}, false
	}

	// Short futures when longs pay shorts: size against the bid, the
	// price at which the short can actually sell. Mirror for longs.
	refPrice := futuresAsk
	if fundingRatePct > 0 {
		refPrice = futuresBid
	}
	if refPrice <= 0 || spotAsk <= 0 {
		return HedgeSize{}, false
	}

	coinAmount := targetBalance / refPrice
	contracts := int64(math.Floor(coinAmount / quantoMultiplier))
	if contracts < 1 {
		return HedgeSize{}, false
	}

	size := HedgeSize{
		SpotQuoteAmount: spotAsk * coinAmount * (1 + slippageBuffer),
		FuturesSize:     contracts,
		SpotSide:        model.SideSell,
	}
	if fundingRatePct > 0 {
		size.FuturesSize = -contracts
		size.SpotSide = model.SideBuy
	}
	return size, true
}
