package port

import "context"

// FundingTick is a live funding-rate update for one contract.
type FundingTick struct {
	Contract        string
	FundingRate     float64 // signed fraction
	FundingInterval int64   // seconds, 0 if the feed did not carry it
	MarkPrice       float64
	Ts              int64 // unix ms
}

// FundingFeed streams funding-rate updates for the watch mode.
type FundingFeed interface {
	Name() string
	Subscribe(ctx context.Context, contracts []string) (<-chan FundingTick, error)
}
