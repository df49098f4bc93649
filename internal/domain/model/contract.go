package model

// Contract is a snapshot of a USDT-settled perpetual contract.
// Refreshed on every scan; never mutated locally.
type Contract struct {
	Name             string  `json:"name"`              // e.g. "BTC_USDT"
	FundingRate      float64 `json:"funding_rate"`      // signed fraction, 0.0001 = 0.01%
	FundingInterval  int64   `json:"funding_interval"`  // seconds between settlements
	QuantoMultiplier float64 `json:"quanto_multiplier"` // base currency per contract
	MarkPrice        float64 `json:"mark_price"`
	IndexPrice       float64 `json:"index_price"`
}

// FundingRatePct returns the funding rate as a percentage.
func (c *Contract) FundingRatePct() float64 {
	return c.FundingRate * 100.0
}

// PriorityScore normalizes the funding rate to a daily-equivalent yield:
// abs(rate_pct) * settlements per day. Higher means a better candidate.
func (c *Contract) PriorityScore() float64 {
	if c.FundingInterval <= 0 {
		return 0
	}
	rate := c.FundingRatePct()
	if rate < 0 {
		rate = -rate
	}
	return rate * (86400.0 / float64(c.FundingInterval))
}

// Ticker is a transient best-bid/ask quote, fetched per decision.
type Ticker struct {
	Symbol      string  `json:"symbol"`
	Last        float64 `json:"last"`
	HighestBid  float64 `json:"highest_bid"`
	LowestAsk   float64 `json:"lowest_ask"`
	BaseVolume  float64 `json:"base_volume"`
	QuoteVolume float64 `json:"quote_volume"`
	Timestamp   int64   `json:"ts_ms"`
}

// Candle is a single OHLCV bar, used only to validate spot tradability.
type Candle struct {
	Timestamp int64   `json:"ts"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Balance is the wallet total for the settle currency, with the spot
// portion broken out (the hedge is funded from spot).
type Balance struct {
	Currency string  `json:"currency"`
	Total    float64 `json:"total"`
	Spot     float64 `json:"spot"`
}
