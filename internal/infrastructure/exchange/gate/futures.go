package gate

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"fundarb/internal/application/port"
	"fundarb/internal/domain/model"
)

// ListContracts fetches all perpetual contracts for the settle currency.
// Contracts in delisting are dropped here so the ranker never sees them.
func (c *Client) ListContracts(ctx context.Context) ([]model.Contract, error) {
	const op = "futures.list_contracts"
	var resp []contractResp
	if err := c.publicGet(ctx, op, "/api/v4/futures/"+c.settle+"/contracts", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]model.Contract, 0, len(resp))
	for i := range resp {
		if resp[i].InDelisting {
			continue
		}
		out = append(out, resp[i].toModel())
	}
	return out, nil
}

func (c *Client) FuturesTicker(ctx context.Context, contract string) (*model.Ticker, error) {
	const op = "futures.ticker"
	params := url.Values{"contract": {contract}}
	var resp []futuresTickerResp
	if err := c.publicGet(ctx, op, "/api/v4/futures/"+c.settle+"/tickers", params, &resp); err != nil {
		return nil, err
	}
	if len(resp) == 0 {
		return nil, port.NewGatewayError(port.KindNotFound, op, errEmptyResponse)
	}
	t := resp[0].toModel()
	return &t, nil
}

func (c *Client) Position(ctx context.Context, contract string) (*model.Position, error) {
	const op = "futures.position"
	var resp positionResp
	if err := c.signedGet(ctx, op, "/api/v4/futures/"+c.settle+"/positions/"+contract, nil, &resp); err != nil {
		return nil, err
	}
	p := resp.toModel()
	return &p, nil
}

// Positions lists open futures positions (nonzero size only).
func (c *Client) Positions(ctx context.Context) ([]model.Position, error) {
	const op = "futures.positions"
	var resp []positionResp
	if err := c.signedGet(ctx, op, "/api/v4/futures/"+c.settle+"/positions", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]model.Position, 0, len(resp))
	for i := range resp {
		if resp[i].Size == 0 {
			continue
		}
		out = append(out, resp[i].toModel())
	}
	return out, nil
}

type futuresOrderReq struct {
	Contract string `json:"contract"`
	Size     int64  `json:"size"`
	Price    string `json:"price"`
	Tif      string `json:"tif"`
	Close    bool   `json:"close,omitempty"`
	Text     string `json:"text,omitempty"`
}

// PlaceFuturesOrder submits a market order for size signed contracts
// (price "0" + ioc is Gate's market order form).
func (c *Client) PlaceFuturesOrder(ctx context.Context, contract string, size int64) (*model.OrderInfo, error) {
	const op = "futures.place_order"
	req := futuresOrderReq{
		Contract: contract,
		Size:     size,
		Price:    "0",
		Tif:      "ioc",
		Text:     orderText(),
	}
	var resp futuresOrderResp
	if err := c.signedPost(ctx, op, "/api/v4/futures/"+c.settle+"/orders", nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.ID == 0 {
		return nil, port.NewGatewayError(port.KindRejected, op, fmt.Errorf("order not accepted: %+v", resp))
	}
	o := resp.toModel()
	return &o, nil
}

// CloseFuturesPosition flattens the whole position: size 0 with the
// close flag is Gate's reduce-all market close.
func (c *Client) CloseFuturesPosition(ctx context.Context, contract string) error {
	const op = "futures.close_position"
	req := futuresOrderReq{
		Contract: contract,
		Size:     0,
		Price:    "0",
		Tif:      "ioc",
		Close:    true,
		Text:     orderText(),
	}
	return c.signedPost(ctx, op, "/api/v4/futures/"+c.settle+"/orders", nil, req, nil)
}

func (c *Client) SetLeverage(ctx context.Context, contract, leverage string) error {
	const op = "futures.set_leverage"
	params := url.Values{"leverage": {leverage}}
	return c.signedPost(ctx, op, "/api/v4/futures/"+c.settle+"/positions/"+contract+"/leverage", params, nil, nil)
}

// SetPositionMode toggles dual (hedged) position mode. The strategy runs
// one-way: a single net position per contract.
func (c *Client) SetPositionMode(ctx context.Context, hedged bool) error {
	const op = "futures.set_position_mode"
	params := url.Values{"dual_mode": {fmt.Sprintf("%t", hedged)}}
	return c.signedPost(ctx, op, "/api/v4/futures/"+c.settle+"/dual_mode", params, nil, nil)
}

// orderText tags orders so they can be traced back to this bot. Gate
// requires client order ids to start with "t-".
func orderText() string {
	return "t-" + uuid.NewString()[:18]
}
