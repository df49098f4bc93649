package model

// Spot order sides.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Spot order statuses as Gate reports them.
const (
	OrderStatusOpen      = "open"
	OrderStatusClosed    = "closed"
	OrderStatusCancelled = "cancelled"
)

// OrderInfo describes a placed order. For the spot leg it is the source
// of truth for the entry price: spot accounts have no position object.
type OrderInfo struct {
	ID           string  `json:"id"`
	Symbol       string  `json:"symbol"`
	Side         string  `json:"side"`
	Amount       float64 `json:"amount"` // quote amount for buys, base amount for sells
	Price        float64 `json:"price"`
	AvgDealPrice float64 `json:"avg_deal_price"`
	Status       string  `json:"status"`
	Fee          float64 `json:"fee"`
	UpdateTimeMs int64   `json:"update_time_ms"`
}

// Closed reports whether the order fully filled. PnL must never be
// inferred from an order that is not closed.
func (o *OrderInfo) Closed() bool {
	return o.Status == OrderStatusClosed
}
