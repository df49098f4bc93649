package service

import (
	"context"
	"errors"
	"testing"

	"fundarb/internal/domain/model"
)

// mockGateway serves canned market data; only the methods the ranker
// touches are meaningful.
type mockGateway struct {
	contracts      []model.Contract
	contractsErr   error
	candles        map[string][]model.Candle
	candleErr      map[string]error
	candleRequests map[string]int
}

func newMockGateway(contracts []model.Contract) *mockGateway {
	return &mockGateway{
		contracts:      contracts,
		candles:        make(map[string][]model.Candle),
		candleErr:      make(map[string]error),
		candleRequests: make(map[string]int),
	}
}

func (m *mockGateway) ListContracts(ctx context.Context) ([]model.Contract, error) {
	return m.contracts, m.contractsErr
}

func (m *mockGateway) SpotCandles(ctx context.Context, pair, interval string, limit int) ([]model.Candle, error) {
	m.candleRequests[pair]++
	if err := m.candleErr[pair]; err != nil {
		return nil, err
	}
	return m.candles[pair], nil
}

func (m *mockGateway) FuturesTicker(ctx context.Context, contract string) (*model.Ticker, error) {
	return nil, errors.New("not implemented")
}
func (m *mockGateway) SpotTicker(ctx context.Context, pair string) (*model.Ticker, error) {
	return nil, errors.New("not implemented")
}
func (m *mockGateway) WalletBalance(ctx context.Context) (*model.Balance, error) {
	return nil, errors.New("not implemented")
}
func (m *mockGateway) Position(ctx context.Context, contract string) (*model.Position, error) {
	return nil, errors.New("not implemented")
}
func (m *mockGateway) Positions(ctx context.Context) ([]model.Position, error) {
	return nil, errors.New("not implemented")
}
func (m *mockGateway) PlaceFuturesOrder(ctx context.Context, contract string, size int64) (*model.OrderInfo, error) {
	return nil, errors.New("not implemented")
}
func (m *mockGateway) CloseFuturesPosition(ctx context.Context, contract string) error {
	return errors.New("not implemented")
}
func (m *mockGateway) PlaceSpotOrder(ctx context.Context, pair, side string, amount float64) (*model.OrderInfo, error) {
	return nil, errors.New("not implemented")
}
func (m *mockGateway) ClosedSpotOrders(ctx context.Context, pair string) ([]model.OrderInfo, error) {
	return nil, errors.New("not implemented")
}
func (m *mockGateway) SetLeverage(ctx context.Context, contract, leverage string) error {
	return errors.New("not implemented")
}
func (m *mockGateway) SetPositionMode(ctx context.Context, hedged bool) error {
	return errors.New("not implemented")
}

func tradable(m *mockGateway, names ...string) {
	for _, n := range names {
		m.candles[n] = []model.Candle{{Timestamp: 1, Close: 1}}
	}
}

func TestRankerIntervalNormalization(t *testing.T) {
	// A pays 0.8% every 8h (2.4%/day); B pays 0.4% hourly (9.6%/day).
	mock := newMockGateway([]model.Contract{
		{Name: "A_USDT", FundingRate: 0.008, FundingInterval: 28800, QuantoMultiplier: 1},
		{Name: "B_USDT", FundingRate: 0.004, FundingInterval: 3600, QuantoMultiplier: 1},
	})
	tradable(mock, "A_USDT", "B_USDT")

	r := NewRanker(mock, 0.3, nil)
	best, err := r.SelectBestCandidate(context.Background())
	if err != nil {
		t.Fatalf("SelectBestCandidate failed: %v", err)
	}
	if best == nil || best.Name != "B_USDT" {
		t.Fatalf("expected B_USDT (higher daily yield), got %+v", best)
	}
}

func TestRankerThresholdExcludes(t *testing.T) {
	mock := newMockGateway([]model.Contract{
		{Name: "LOW_USDT", FundingRate: 0.002, FundingInterval: 28800, QuantoMultiplier: 1}, // 0.2%
	})
	tradable(mock, "LOW_USDT")

	r := NewRanker(mock, 0.3, nil)
	best, err := r.SelectBestCandidate(context.Background())
	if err != nil {
		t.Fatalf("SelectBestCandidate failed: %v", err)
	}
	if best != nil {
		t.Errorf("rate below threshold must not qualify, got %+v", best)
	}
}

func TestRankerThresholdBoundaryInclusive(t *testing.T) {
	mock := newMockGateway([]model.Contract{
		{Name: "EDGE_USDT", FundingRate: 0.003, FundingInterval: 28800, QuantoMultiplier: 1}, // exactly 0.3%
	})
	tradable(mock, "EDGE_USDT")

	r := NewRanker(mock, 0.3, nil)
	best, err := r.SelectBestCandidate(context.Background())
	if err != nil {
		t.Fatalf("SelectBestCandidate failed: %v", err)
	}
	if best == nil || best.Name != "EDGE_USDT" {
		t.Errorf("rate equal to threshold must qualify, got %+v", best)
	}
}

func TestRankerNegativeRateQualifies(t *testing.T) {
	mock := newMockGateway([]model.Contract{
		{Name: "NEG_USDT", FundingRate: -0.005, FundingInterval: 28800, QuantoMultiplier: 1},
	})
	tradable(mock, "NEG_USDT")

	r := NewRanker(mock, 0.3, nil)
	best, err := r.SelectBestCandidate(context.Background())
	if err != nil {
		t.Fatalf("SelectBestCandidate failed: %v", err)
	}
	if best == nil || best.Name != "NEG_USDT" {
		t.Errorf("large negative rate must qualify via absolute value, got %+v", best)
	}
}

func TestRankerBlacklist(t *testing.T) {
	mock := newMockGateway([]model.Contract{
		{Name: "BAD_USDT", FundingRate: 0.02, FundingInterval: 28800, QuantoMultiplier: 1},
		{Name: "OK_USDT", FundingRate: 0.005, FundingInterval: 28800, QuantoMultiplier: 1},
	})
	tradable(mock, "BAD_USDT", "OK_USDT")

	r := NewRanker(mock, 0.3, []string{"BAD_USDT"})
	best, err := r.SelectBestCandidate(context.Background())
	if err != nil {
		t.Fatalf("SelectBestCandidate failed: %v", err)
	}
	if best == nil || best.Name != "OK_USDT" {
		t.Errorf("blacklisted contract must be skipped, got %+v", best)
	}
}

func TestRankerSkipsUntradableSpotPair(t *testing.T) {
	mock := newMockGateway([]model.Contract{
		{Name: "NOSPOT_USDT", FundingRate: 0.02, FundingInterval: 28800, QuantoMultiplier: 1},
		{Name: "OK_USDT", FundingRate: 0.005, FundingInterval: 28800, QuantoMultiplier: 1},
	})
	tradable(mock, "OK_USDT")
	mock.candleErr["NOSPOT_USDT"] = errors.New("pair not found")

	r := NewRanker(mock, 0.3, nil)
	best, err := r.SelectBestCandidate(context.Background())
	if err != nil {
		t.Fatalf("SelectBestCandidate failed: %v", err)
	}
	if best == nil || best.Name != "OK_USDT" {
		t.Errorf("untradable pair must be skipped, got %+v", best)
	}
}

func TestRankerValidationCache(t *testing.T) {
	mock := newMockGateway([]model.Contract{
		{Name: "A_USDT", FundingRate: 0.01, FundingInterval: 28800, QuantoMultiplier: 1},
	})
	tradable(mock, "A_USDT")

	r := NewRanker(mock, 0.3, nil)
	for i := 0; i < 3; i++ {
		if _, err := r.SelectBestCandidate(context.Background()); err != nil {
			t.Fatalf("SelectBestCandidate failed: %v", err)
		}
	}
	if got := mock.candleRequests["A_USDT"]; got != 1 {
		t.Errorf("validation should be cached per session: expected 1 candle request, got %d", got)
	}
}

func TestRankerDeterministicTieBreak(t *testing.T) {
	mock := newMockGateway([]model.Contract{
		{Name: "FIRST_USDT", FundingRate: 0.005, FundingInterval: 28800, QuantoMultiplier: 1},
		{Name: "SECOND_USDT", FundingRate: 0.005, FundingInterval: 28800, QuantoMultiplier: 1},
	})
	tradable(mock, "FIRST_USDT", "SECOND_USDT")

	r := NewRanker(mock, 0.3, nil)
	for i := 0; i < 3; i++ {
		best, err := r.SelectBestCandidate(context.Background())
		if err != nil {
			t.Fatalf("SelectBestCandidate failed: %v", err)
		}
		if best == nil || best.Name != "FIRST_USDT" {
			t.Fatalf("equal scores must keep listing order, got %+v", best)
		}
	}
}

func TestRankerPropagatesListError(t *testing.T) {
	mock := newMockGateway(nil)
	mock.contractsErr = errors.New("boom")

	r := NewRanker(mock, 0.3, nil)
	if _, err := r.SelectBestCandidate(context.Background()); err == nil {
		t.Error("list error must propagate")
	}
}
