package gate

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"fundarb/internal/application/port"
	"fundarb/internal/domain/model"
)

func (c *Client) SpotTicker(ctx context.Context, pair string) (*model.Ticker, error) {
	const op = "spot.ticker"
	params := url.Values{"currency_pair": {pair}}
	var resp []spotTickerResp
	if err := c.publicGet(ctx, op, "/api/v4/spot/tickers", params, &resp); err != nil {
		return nil, err
	}
	if len(resp) == 0 {
		return nil, port.NewGatewayError(port.KindNotFound, op, errEmptyResponse)
	}
	t := resp[0].toModel()
	return &t, nil
}

func (c *Client) SpotCandles(ctx context.Context, pair, interval string, limit int) ([]model.Candle, error) {
	const op = "spot.candles"
	params := url.Values{
		"currency_pair": {pair},
		"interval":      {interval},
		"limit":         {strconv.Itoa(limit)},
	}
	var resp []candleResp
	if err := c.publicGet(ctx, op, "/api/v4/spot/candlesticks", params, &resp); err != nil {
		return nil, err
	}
	out := make([]model.Candle, 0, len(resp))
	for _, r := range resp {
		out = append(out, r.toModel())
	}
	return out, nil
}

type spotOrderReq struct {
	CurrencyPair string `json:"currency_pair"`
	Type         string `json:"type"`
	Account      string `json:"account"`
	Side         string `json:"side"`
	Amount       string `json:"amount"`
	TimeInForce  string `json:"time_in_force"`
	AutoBorrow   bool   `json:"auto_borrow"`
	AutoRepay    bool   `json:"auto_repay"`
	Text         string `json:"text,omitempty"`
}

// PlaceSpotOrder submits a market spot order on the unified account.
// Market buys take a quote amount, sells a base amount (Gate convention).
// auto_borrow/auto_repay let the negative-funding leg short spot on
// borrowed coin and repay on the way back.
func (c *Client) PlaceSpotOrder(ctx context.Context, pair, side string, amount float64) (*model.OrderInfo, error) {
	const op = "spot.place_order"
	if amount <= 0 {
		return nil, port.NewGatewayError(port.KindRejected, op, fmt.Errorf("amount %f not positive", amount))
	}
	req := spotOrderReq{
		CurrencyPair: pair,
		Type:         "market",
		Account:      "unified",
		Side:         side,
		Amount:       strconv.FormatFloat(amount, 'f', -1, 64),
		TimeInForce:  "ioc",
		AutoBorrow:   true,
		AutoRepay:    true,
		Text:         orderText(),
	}
	var resp spotOrderResp
	if err := c.signedPost(ctx, op, "/api/v4/spot/orders", nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, port.NewGatewayError(port.KindRejected, op, fmt.Errorf("order not accepted: %+v", resp))
	}
	o := resp.toModel()
	return &o, nil
}

// ClosedSpotOrders lists finished spot orders for the pair, newest data
// included; the caller picks the latest by update time.
func (c *Client) ClosedSpotOrders(ctx context.Context, pair string) ([]model.OrderInfo, error) {
	const op = "spot.closed_orders"
	params := url.Values{
		"currency_pair": {pair},
		"status":        {"finished"},
		"account":       {"unified"},
	}
	var resp []spotOrderResp
	if err := c.signedGet(ctx, op, "/api/v4/spot/orders", params, &resp); err != nil {
		return nil, err
	}
	out := make([]model.OrderInfo, 0, len(resp))
	for i := range resp {
		out = append(out, resp[i].toModel())
	}
	return out, nil
}
