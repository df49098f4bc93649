package postgres

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"fundarb/internal/application/port"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

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
  id BIGSERIAL PRIMARY KEY,
  contract TEXT NOT NULL,
  funding_rate_pct DOUBLE PRECISION NOT NULL,
  funding_interval BIGINT NOT NULL,
  score DOUBLE PRECISION NOT NULL,
  ts_ms BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_candidates_ts ON candidates(ts_ms);

CREATE TABLE IF NOT EXISTS hedges (
  id BIGSERIAL PRIMARY KEY,
  contract TEXT NOT NULL,
  funding_rate_pct DOUBLE PRECISION NOT NULL,
  futures_size BIGINT NOT NULL,
  spot_side TEXT NOT NULL,
  spot_amount DOUBLE PRECISION NOT NULL,
  spot_order_id TEXT NOT NULL,
  futures_order_id TEXT NOT NULL,
  ts_ms BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_hedges_ts ON hedges(ts_ms);

CREATE TABLE IF NOT EXISTS hedge_closes (
  id BIGSERIAL PRIMARY KEY,
  contract TEXT NOT NULL,
  futures_pnl DOUBLE PRECISION NOT NULL,
  spot_pnl DOUBLE PRECISION NOT NULL,
  total_pnl DOUBLE PRECISION NOT NULL,
  ts_ms BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_hedge_closes_ts ON hedge_closes(ts_ms);

CREATE TABLE IF NOT EXISTS pnl_samples (
  id BIGSERIAL PRIMARY KEY,
  contract TEXT NOT NULL,
  side TEXT NOT NULL,
  size BIGINT NOT NULL,
  futures_pnl DOUBLE PRECISION NOT NULL,
  spot_pnl DOUBLE PRECISION NOT NULL,
  total_pnl DOUBLE PRECISION NOT NULL,
  ts_ms BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pnl_samples_ts ON pnl_samples(ts_ms);
`)
	return err
}

func (r *Repo) RecordCandidate(ctx context.Context, c *port.CandidateRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO candidates(contract, funding_rate_pct, funding_interval, score, ts_ms)
		VALUES($1, $2, $3, $4, $5)
	`, c.Contract, c.FundingRatePct, c.FundingInterval, c.Score, c.Timestamp)
	return err
}

func (r *Repo) RecordHedgeOpen(ctx context.Context, h *port.HedgeRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO hedges(contract, funding_rate_pct, futures_size, spot_side, spot_amount, spot_order_id, futures_order_id, ts_ms)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
	`, h.Contract, h.FundingRatePct, h.FuturesSize, h.SpotSide, h.SpotAmount, h.SpotOrderID, h.FuturesOrderID, h.Timestamp)
	return err
}

func (r *Repo) RecordHedgeClose(ctx context.Context, c *port.CloseRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO hedge_closes(contract, futures_pnl, spot_pnl, total_pnl, ts_ms)
		VALUES($1, $2, $3, $4, $5)
	`, c.Contract, c.FuturesPnl, c.SpotPnl, c.TotalPnl, c.Timestamp)
	return err
}

func (r *Repo) RecordPnlSample(ctx context.Context, s *port.PnlSample) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pnl_samples(contract, side, size, futures_pnl, spot_pnl, total_pnl, ts_ms)
		VALUES($1, $2, $3, $4, $5, $6, $7)
	`, s.Contract, s.Side, s.Size, s.FuturesPnl, s.SpotPnl, s.TotalPnl, s.Timestamp)
	return err
}

var _ port.Journal = (*Repo)(nil)
