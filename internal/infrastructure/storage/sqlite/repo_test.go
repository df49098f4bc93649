package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"fundarb/internal/application/port"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create repo failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepoRecordCandidate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.RecordCandidate(ctx, &port.CandidateRecord{
		Contract:        "BTC_USDT",
		FundingRatePct:  0.45,
		FundingInterval: 28800,
		Score:           1.35,
		Timestamp:       1700000000000,
	})
	if err != nil {
		t.Fatalf("record candidate failed: %v", err)
	}

	var count int
	if err := repo.db.QueryRow("SELECT COUNT(*) FROM candidates").Scan(&count); err != nil {
		t.Fatalf("count candidates failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 candidate row, got %d", count)
	}
}

func TestRepoRecordHedgeLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.RecordHedgeOpen(ctx, &port.HedgeRecord{
		Contract:       "ETH_USDT",
		FundingRatePct: 0.6,
		FuturesSize:    -20,
		SpotSide:       "buy",
		SpotAmount:     402,
		SpotOrderID:    "s1",
		FuturesOrderID: "f1",
		Timestamp:      1700000000000,
	})
	if err != nil {
		t.Fatalf("record hedge open failed: %v", err)
	}

	err = repo.RecordPnlSample(ctx, &port.PnlSample{
		Contract:   "ETH_USDT",
		Side:       "short",
		Size:       -20,
		FuturesPnl: -40,
		SpotPnl:    49.7,
		TotalPnl:   9.7,
		Timestamp:  1700000060000,
	})
	if err != nil {
		t.Fatalf("record pnl sample failed: %v", err)
	}

	err = repo.RecordHedgeClose(ctx, &port.CloseRecord{
		Contract:   "ETH_USDT",
		FuturesPnl: -40,
		SpotPnl:    49.7,
		TotalPnl:   9.7,
		Timestamp:  1700000120000,
	})
	if err != nil {
		t.Fatalf("record hedge close failed: %v", err)
	}

	var contract string
	var pnl float64
	if err := repo.db.QueryRow("SELECT contract, total_pnl FROM hedge_closes").Scan(&contract, &pnl); err != nil {
		t.Fatalf("read hedge close failed: %v", err)
	}
	if contract != "ETH_USDT" || pnl != 9.7 {
		t.Errorf("hedge close row mismatch: contract=%s pnl=%f", contract, pnl)
	}
}

func TestRepoMigrateIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	repo, err := New(path)
	if err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	repo, err = New(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer repo.Close()
}
