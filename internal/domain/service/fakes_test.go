package service

import (
	"context"
	"errors"

	"fundarb/internal/application/port"
	"fundarb/internal/domain/model"
)

// fakeGateway scripts exchange behavior and counts what the services
// actually called.
type fakeGateway struct {
	position    *model.Position
	positionErr error
	positions   []model.Position

	futuresOrder    *model.OrderInfo
	futuresOrderErr error
	spotOrder       *model.OrderInfo
	spotOrderErr    error
	closeErr        error
	leverageErr     error

	spotOrders    []model.OrderInfo
	spotOrdersErr error
	spotTicker    *model.Ticker
	spotTickerErr error

	futuresPlaced []int64
	spotPlaced    []placedSpot
	closes        int
	leverageSets  int
}

type placedSpot struct {
	pair   string
	side   string
	amount float64
}

func (f *fakeGateway) ListContracts(ctx context.Context) ([]model.Contract, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGateway) FuturesTicker(ctx context.Context, contract string) (*model.Ticker, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGateway) SpotTicker(ctx context.Context, pair string) (*model.Ticker, error) {
	if f.spotTickerErr != nil {
		return nil, f.spotTickerErr
	}
	return f.spotTicker, nil
}

func (f *fakeGateway) SpotCandles(ctx context.Context, pair, interval string, limit int) ([]model.Candle, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGateway) WalletBalance(ctx context.Context) (*model.Balance, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGateway) Position(ctx context.Context, contract string) (*model.Position, error) {
	if f.positionErr != nil {
		return nil, f.positionErr
	}
	return f.position, nil
}

func (f *fakeGateway) Positions(ctx context.Context) ([]model.Position, error) {
	return f.positions, nil
}

func (f *fakeGateway) PlaceFuturesOrder(ctx context.Context, contract string, size int64) (*model.OrderInfo, error) {
	if f.futuresOrderErr != nil {
		return nil, f.futuresOrderErr
	}
	f.futuresPlaced = append(f.futuresPlaced, size)
	return f.futuresOrder, nil
}

func (f *fakeGateway) CloseFuturesPosition(ctx context.Context, contract string) error {
	if f.closeErr != nil {
		return f.closeErr
	}
	f.closes++
	return nil
}

func (f *fakeGateway) PlaceSpotOrder(ctx context.Context, pair, side string, amount float64) (*model.OrderInfo, error) {
	if f.spotOrderErr != nil {
		return nil, f.spotOrderErr
	}
	f.spotPlaced = append(f.spotPlaced, placedSpot{pair: pair, side: side, amount: amount})
	return f.spotOrder, nil
}

func (f *fakeGateway) ClosedSpotOrders(ctx context.Context, pair string) ([]model.OrderInfo, error) {
	if f.spotOrdersErr != nil {
		return nil, f.spotOrdersErr
	}
	return f.spotOrders, nil
}

func (f *fakeGateway) SetLeverage(ctx context.Context, contract, leverage string) error {
	if f.leverageErr != nil {
		return f.leverageErr
	}
	f.leverageSets++
	return nil
}

func (f *fakeGateway) SetPositionMode(ctx context.Context, hedged bool) error {
	return nil
}

// recordingJournal captures what the services persist.
type recordingJournal struct {
	opens   []*port.HedgeRecord
	closes  []*port.CloseRecord
	samples []*port.PnlSample
}

func (j *recordingJournal) RecordCandidate(ctx context.Context, rec *port.CandidateRecord) error {
	return nil
}

func (j *recordingJournal) RecordHedgeOpen(ctx context.Context, rec *port.HedgeRecord) error {
	j.opens = append(j.opens, rec)
	return nil
}

func (j *recordingJournal) RecordHedgeClose(ctx context.Context, rec *port.CloseRecord) error {
	j.closes = append(j.closes, rec)
	return nil
}

func (j *recordingJournal) RecordPnlSample(ctx context.Context, rec *port.PnlSample) error {
	j.samples = append(j.samples, rec)
	return nil
}

func (j *recordingJournal) Close() error { return nil }
