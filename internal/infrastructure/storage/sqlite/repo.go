package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"fundarb/internal/application/port"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS candidates (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  contract TEXT NOT NULL,
  funding_rate_pct REAL NOT NULL,
  funding_interval INTEGER NOT NULL,
  score REAL NOT NULL,
  ts_ms INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_candidates_contract ON candidates(contract);
CREATE INDEX IF NOT EXISTS idx_candidates_ts ON candidates(ts_ms);

CREATE TABLE IF NOT EXISTS hedges (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  contract TEXT NOT NULL,
  funding_rate_pct REAL NOT NULL,
  futures_size INTEGER NOT NULL,
  spot_side TEXT NOT NULL,
  spot_amount REAL NOT NULL,
  spot_order_id TEXT NOT NULL,
  futures_order_id TEXT NOT NULL,
  ts_ms INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_hedges_contract ON hedges(contract);
CREATE INDEX IF NOT EXISTS idx_hedges_ts ON hedges(ts_ms);

CREATE TABLE IF NOT EXISTS hedge_closes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  contract TEXT NOT NULL,
  futures_pnl REAL NOT NULL,
  spot_pnl REAL NOT NULL,
  total_pnl REAL NOT NULL,
  ts_ms INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_hedge_closes_contract ON hedge_closes(contract);
CREATE INDEX IF NOT EXISTS idx_hedge_closes_ts ON hedge_closes(ts_ms);

CREATE TABLE IF NOT EXISTS pnl_samples (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  contract TEXT NOT NULL,
  side TEXT NOT NULL,
  size INTEGER NOT NULL,
  futures_pnl REAL NOT NULL,
  spot_pnl REAL NOT NULL,
  total_pnl REAL NOT NULL,
  ts_ms INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pnl_samples_contract ON pnl_samples(contract);
CREATE INDEX IF NOT EXISTS idx_pnl_samples_ts ON pnl_samples(ts_ms);
`)
	return err
}

func (r *Repo) RecordCandidate(ctx context.Context, c *port.CandidateRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO candidates(contract, funding_rate_pct, funding_interval, score, ts_ms, created_at)
		VALUES(?, ?, ?, ?, ?, ?)
	`, c.Contract, c.FundingRatePct, c.FundingInterval, c.Score, c.Timestamp, c.Timestamp)
	return err
}

func (r *Repo) RecordHedgeOpen(ctx context.Context, h *port.HedgeRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO hedges(contract, funding_rate_pct, futures_size, spot_side, spot_amount, spot_order_id, futures_order_id, ts_ms, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, h.Contract, h.FundingRatePct, h.FuturesSize, h.SpotSide, h.SpotAmount, h.SpotOrderID, h.FuturesOrderID, h.Timestamp, h.Timestamp)
	return err
}

func (r *Repo) RecordHedgeClose(ctx context.Context, c *port.CloseRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO hedge_closes(contract, futures_pnl, spot_pnl, total_pnl, ts_ms, created_at)
		VALUES(?, ?, ?, ?, ?, ?)
	`, c.Contract, c.FuturesPnl, c.SpotPnl, c.TotalPnl, c.Timestamp, c.Timestamp)
	return err
}

func (r *Repo) RecordPnlSample(ctx context.Context, s *port.PnlSample) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pnl_samples(contract, side, size, futures_pnl, spot_pnl, total_pnl, ts_ms, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, s.Contract, s.Side, s.Size, s.FuturesPnl, s.SpotPnl, s.TotalPnl, s.Timestamp, s.Timestamp)
	return err
}

var _ port.Journal = (*Repo)(nil)
