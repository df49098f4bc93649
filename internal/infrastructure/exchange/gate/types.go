package gate

import (
	"strconv"

	"fundarb/internal/domain/model"
)

// Gate returns most numbers as JSON strings. Wire structs keep them as
// strings; mapping to domain models parses best-effort (bad values
// become zero, which downstream checks reject).

type contractResp struct {
	Name             string `json:"name"`
	FundingRate      string `json:"funding_rate"`
	FundingInterval  int64  `json:"funding_interval"`
	QuantoMultiplier string `json:"quanto_multiplier"`
	MarkPrice        string `json:"mark_price"`
	IndexPrice       string `json:"index_price"`
	InDelisting      bool   `json:"in_delisting"`
}

func (r *contractResp) toModel() model.Contract {
	return model.Contract{
		Name:             r.Name,
		FundingRate:      f64(r.FundingRate),
		FundingInterval:  r.FundingInterval,
		QuantoMultiplier: f64(r.QuantoMultiplier),
		MarkPrice:        f64(r.MarkPrice),
		IndexPrice:       f64(r.IndexPrice),
	}
}

type futuresTickerResp struct {
	Contract    string `json:"contract"`
	Last        string `json:"last"`
	HighestBid  string `json:"highest_bid"`
	LowestAsk   string `json:"lowest_ask"`
	Volume24h   string `json:"volume_24h"`
	FundingRate string `json:"funding_rate"`
}

func (r *futuresTickerResp) toModel() model.Ticker {
	return model.Ticker{
		Symbol:     r.Contract,
		Last:       f64(r.Last),
		HighestBid: f64(r.HighestBid),
		LowestAsk:  f64(r.LowestAsk),
		BaseVolume: f64(r.Volume24h),
	}
}

type spotTickerResp struct {
	CurrencyPair string `json:"currency_pair"`
	Last         string `json:"last"`
	HighestBid   string `json:"highest_bid"`
	LowestAsk    string `json:"lowest_ask"`
	BaseVolume   string `json:"base_volume"`
	QuoteVolume  string `json:"quote_volume"`
}

func (r *spotTickerResp) toModel() model.Ticker {
	return model.Ticker{
		Symbol:      r.CurrencyPair,
		Last:        f64(r.Last),
		HighestBid:  f64(r.HighestBid),
		LowestAsk:   f64(r.LowestAsk),
		BaseVolume:  f64(r.BaseVolume),
		QuoteVolume: f64(r.QuoteVolume),
	}
}

type positionResp struct {
	Contract      string `json:"contract"`
	Size          int64  `json:"size"`
	Leverage      string `json:"leverage"`
	UnrealisedPnl string `json:"unrealised_pnl"`
	RealisedPnl   string `json:"realised_pnl"`
	EntryPrice    string `json:"entry_price"`
	MarkPrice     string `json:"mark_price"`
}

func (r *positionResp) toModel() model.Position {
	return model.Position{
		Contract:      r.Contract,
		Size:          r.Size,
		Leverage:      r.Leverage,
		UnrealisedPnl: f64(r.UnrealisedPnl),
		RealisedPnl:   f64(r.RealisedPnl),
		EntryPrice:    f64(r.EntryPrice),
		MarkPrice:     f64(r.MarkPrice),
	}
}

type futuresOrderResp struct {
	ID         int64  `json:"id"`
	Contract   string `json:"contract"`
	Size       int64  `json:"size"`
	Price      string `json:"price"`
	FillPrice  string `json:"fill_price"`
	Status     string `json:"status"`
	FinishTime int64  `json:"finish_time"`
}

func (r *futuresOrderResp) toModel() model.OrderInfo {
	side := model.SideBuy
	amount := float64(r.Size)
	if r.Size < 0 {
		side = model.SideSell
		amount = -amount
	}
	return model.OrderInfo{
		ID:           strconv.FormatInt(r.ID, 10),
		Symbol:       r.Contract,
		Side:         side,
		Amount:       amount,
		Price:        f64(r.Price),
		AvgDealPrice: f64(r.FillPrice),
		Status:       r.Status,
		UpdateTimeMs: r.FinishTime * 1000,
	}
}

type spotOrderResp struct {
	ID           string `json:"id"`
	CurrencyPair string `json:"currency_pair"`
	Side         string `json:"side"`
	Amount       string `json:"amount"`
	Price        string `json:"price"`
	AvgDealPrice string `json:"avg_deal_price"`
	Status       string `json:"status"`
	Fee          string `json:"fee"`
	UpdateTimeMs int64  `json:"update_time_ms"`
}

func (r *spotOrderResp) toModel() model.OrderInfo {
	return model.OrderInfo{
		ID:           r.ID,
		Symbol:       r.CurrencyPair,
		Side:         r.Side,
		Amount:       f64(r.Amount),
		Price:        f64(r.Price),
		AvgDealPrice: f64(r.AvgDealPrice),
		Status:       r.Status,
		Fee:          f64(r.Fee),
		UpdateTimeMs: r.UpdateTimeMs,
	}
}

type walletTotalResp struct {
	Total   walletAmount            `json:"total"`
	Details map[string]walletAmount `json:"details"`
}

type walletAmount struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

func (r *walletTotalResp) toModel() model.Balance {
	b := model.Balance{
		Currency: r.Total.Currency,
		Total:    f64(r.Total.Amount),
	}
	if spot, ok := r.Details["spot"]; ok {
		b.Spot = f64(spot.Amount)
	}
	return b
}

// candleResp is one spot candlestick: Gate returns each bar as an array
// of strings [ts, quote_volume, close, high, low, open, base_volume, ...].
type candleResp []string

func (r candleResp) toModel() model.Candle {
	get := func(i int) string {
		if i < len(r) {
			return r[i]
		}
		return ""
	}
	ts, _ := strconv.ParseInt(get(0), 10, 64)
	return model.Candle{
		Timestamp: ts,
		Volume:    f64(get(1)),
		Close:     f64(get(2)),
		High:      f64(get(3)),
		Low:       f64(get(4)),
		Open:      f64(get(5)),
	}
}

func f64(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
