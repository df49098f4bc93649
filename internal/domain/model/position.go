package model

// Position is a futures position as reported by the exchange.
// The exchange owns it; locally it is only a read-through snapshot.
type Position struct {
	Contract      string  `json:"contract"`
	Size          int64   `json:"size"` // contracts, negative = short
	Leverage      string  `json:"leverage"`
	UnrealisedPnl float64 `json:"unrealised_pnl"`
	RealisedPnl   float64 `json:"realised_pnl"` // includes accrued funding
	EntryPrice    float64 `json:"entry_price"`
	MarkPrice     float64 `json:"mark_price"`
}

// Side returns "long" or "short" by the sign of Size.
func (p *Position) Side() string {
	if p.Size < 0 {
		return "short"
	}
	return "long"
}

// TotalPnl is the futures leg contribution to the hedge PnL.
func (p *Position) TotalPnl() float64 {
	return p.UnrealisedPnl + p.RealisedPnl
}
