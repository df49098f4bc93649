package port

import "context"

// CandidateRecord is a ranked opportunity worth remembering.
type CandidateRecord struct {
	Contract        string  `json:"contract"`
	FundingRatePct  float64 `json:"funding_rate_pct"`
	FundingInterval int64   `json:"funding_interval"`
	Score           float64 `json:"score"`
	Timestamp       int64   `json:"ts_ms"`
}

// HedgeRecord describes one opened hedge (both legs placed).
type HedgeRecord struct {
	Contract       string  `json:"contract"`
	FundingRatePct float64 `json:"funding_rate_pct"`
	FuturesSize    int64   `json:"futures_size"` // signed contracts
	SpotSide       string  `json:"spot_side"`
	SpotAmount     float64 `json:"spot_amount"`
	SpotOrderID    string  `json:"spot_order_id"`
	FuturesOrderID string  `json:"futures_order_id"`
	Timestamp      int64   `json:"ts_ms"`
}

// CloseRecord describes one unwound hedge.
type CloseRecord struct {
	Contract   string  `json:"contract"`
	FuturesPnl float64 `json:"futures_pnl"`
	SpotPnl    float64 `json:"spot_pnl"`
	TotalPnl   float64 `json:"total_pnl"`
	Timestamp  int64   `json:"ts_ms"`
}

// PnlSample is the per-tick PnL breakdown for an open hedge.
type PnlSample struct {
	Contract   string  `json:"contract"`
	Side       string  `json:"side"`
	Size       int64   `json:"size"`
	FuturesPnl float64 `json:"futures_pnl"`
	SpotPnl    float64 `json:"spot_pnl"`
	TotalPnl   float64 `json:"total_pnl"`
	Timestamp  int64   `json:"ts_ms"`
}

// Journal is an append-only operational record. It is never read back for
// trading decisions; the exchange stays the single source of truth.
type Journal interface {
	RecordCandidate(ctx context.Context, c *CandidateRecord) error
	RecordHedgeOpen(ctx context.Context, h *HedgeRecord) error
	RecordHedgeClose(ctx context.Context, c *CloseRecord) error
	RecordPnlSample(ctx context.Context, s *PnlSample) error
	Close() error
}
