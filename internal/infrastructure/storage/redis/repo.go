package redis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"fundarb/internal/application/port"
)

// Repo publishes hedge lifecycle events for external consumers (alerts,
// dashboards). Events go to a stream plus a pub/sub channel; the latest
// PnL per contract lives in a hash with TTL.
type Repo struct {
	rdb          *redis.Client
	prefix       string
	ttl          time.Duration
	keyLatest    string // prefix + ":pnl:latest"
	signalStream string
	signalChan   string
}

func New(rdb *redis.Client, prefix string, ttl time.Duration, signalStream, signalChan string) *Repo {
	if strings.TrimSpace(signalStream) == "" {
		signalStream = prefix + ":hedges"
	}
	if strings.TrimSpace(signalChan) == "" {
		signalChan = prefix + ":hedges:pub"
	}
	return &Repo{
		rdb:          rdb,
		prefix:       prefix,
		ttl:          ttl,
		keyLatest:    prefix + ":pnl:latest",
		signalStream: signalStream,
		signalChan:   signalChan,
	}
}

func (r *Repo) Close() error { return nil } // client lifecycle owned by the caller

func (r *Repo) RecordCandidate(ctx context.Context, c *port.CandidateRecord) error {
	// candidates are high-volume and low-value; only durable journals keep them
	return nil
}

func (r *Repo) RecordHedgeOpen(ctx context.Context, h *port.HedgeRecord) error {
	return r.publish(ctx, "open", h.Contract, h.Timestamp, h)
}

func (r *Repo) RecordHedgeClose(ctx context.Context, c *port.CloseRecord) error {
	return r.publish(ctx, "close", c.Contract, c.Timestamp, c)
}

func (r *Repo) RecordPnlSample(ctx context.Context, s *port.PnlSample) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	pipe := r.rdb.Pipeline()
	pipe.HSet(ctx, r.keyLatest, s.Contract, string(b))
	if r.ttl > 0 {
		pipe.Expire(ctx, r.keyLatest, r.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Repo) publish(ctx context.Context, event, contract string, ts int64, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	// 1) Stream: XADD <stream> * event contract ts_ms payload
	_, err = r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.signalStream,
		Values: map[string]any{
			"event":    event,
			"contract": contract,
			"ts_ms":    ts,
			"payload":  string(b),
		},
	}).Result()
	if err != nil {
		return err
	}

	// 2) PubSub for live consumers
	msg, err := json.Marshal(map[string]any{"event": event, "contract": contract, "ts_ms": ts, "payload": json.RawMessage(b)})
	if err != nil {
		return err
	}
	return r.rdb.Publish(ctx, r.signalChan, string(msg)).Err()
}

var _ port.Journal = (*Repo)(nil)
