package port

import (
	"context"
	"errors"
	"fmt"

	"fundarb/internal/domain/model"
)

// ErrorKind classifies gateway failures so callers can decide whether to
// retry next tick, abort the action, or escalate.
type ErrorKind int

const (
	// KindTransient covers network errors, timeouts, rate limits and 5xx
	// responses. Skip the tick and retry on the next one.
	KindTransient ErrorKind = iota
	// KindRejected means the exchange understood and refused the request
	// (bad params, insufficient balance). Abort the attempted action.
	KindRejected
	// KindAuth means the credentials were refused.
	KindAuth
	// KindNotFound means the requested object does not exist.
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindRejected:
		return "rejected"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// GatewayError is the only error type the gateway returns. The core
// pattern-matches on Kind instead of nil-checking sentinel values.
type GatewayError struct {
	Kind ErrorKind
	Op   string // e.g. "futures.place_order"
	Err  error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// NewGatewayError wraps err for the given operation.
func NewGatewayError(kind ErrorKind, op string, err error) *GatewayError {
	return &GatewayError{Kind: kind, Op: op, Err: err}
}

// ErrKind extracts the ErrorKind from err. Unrecognized errors are
// treated as transient so the loop keeps running.
func ErrKind(err error) ErrorKind {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindTransient
}

// IsTransient reports whether err should be retried on the next tick.
func IsTransient(err error) bool { return ErrKind(err) == KindTransient }

// Gateway is the exchange capability surface the controller depends on.
// One venue, blocking calls, every failure is a *GatewayError.
type Gateway interface {
	// Market data
	ListContracts(ctx context.Context) ([]model.Contract, error)
	FuturesTicker(ctx context.Context, contract string) (*model.Ticker, error)
	SpotTicker(ctx context.Context, pair string) (*model.Ticker, error)
	SpotCandles(ctx context.Context, pair, interval string, limit int) ([]model.Candle, error)

	// Account
	WalletBalance(ctx context.Context) (*model.Balance, error)
	Position(ctx context.Context, contract string) (*model.Position, error)
	Positions(ctx context.Context) ([]model.Position, error)

	// Trading
	PlaceFuturesOrder(ctx context.Context, contract string, size int64) (*model.OrderInfo, error)
	CloseFuturesPosition(ctx context.Context, contract string) error
	PlaceSpotOrder(ctx context.Context, pair, side string, amount float64) (*model.OrderInfo, error)
	ClosedSpotOrders(ctx context.Context, pair string) ([]model.OrderInfo, error)

	// Setup (best-effort during hedge construction)
	SetLeverage(ctx context.Context, contract, leverage string) error
	SetPositionMode(ctx context.Context, hedged bool) error
}
