package gate

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"fundarb/internal/application/port"
)

// FundingFeed streams funding rates over the Gate futures websocket
// (futures.tickers channel). Used by the read-only watch mode; the
// trading loop stays on REST polling.
type FundingFeed struct {
	wsURL string // e.g. wss://fx-ws.gateio.ws/v4/ws/usdt
}

func NewFundingFeed(wsURL string) *FundingFeed {
	return &FundingFeed{wsURL: strings.TrimSpace(wsURL)}
}

func (f *FundingFeed) Name() string { return "GATE" }

type wsRequest struct {
	Time    int64    `json:"time"`
	Channel string   `json:"channel"`
	Event   string   `json:"event"`
	Payload []string `json:"payload"`
}

type wsTickerMsg struct {
	Channel string `json:"channel"`
	Event   string `json:"event"`
	Result  []struct {
		Contract    string `json:"contract"`
		FundingRate string `json:"funding_rate"`
		MarkPrice   string `json:"mark_price"`
	} `json:"result"`
}

func (f *FundingFeed) Subscribe(ctx context.Context, contracts []string) (<-chan port.FundingTick, error) {
	if f.wsURL == "" {
		return nil, errors.New("gate ws_url empty")
	}
	subs := make([]string, 0, len(contracts))
	for _, c := range contracts {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		subs = append(subs, c)
	}
	if len(subs) == 0 {
		return nil, errors.New("contracts empty")
	}

	out := make(chan port.FundingTick, 1024)
	go f.run(ctx, subs, out)
	return out, nil
}

func (f *FundingFeed) run(ctx context.Context, contracts []string, out chan<- port.FundingTick) {
	defer close(out)

	backoff := 500 * time.Millisecond
	maxBackoff := 10 * time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		log.Warn().Str("feed", f.Name()).Str("url", f.wsURL).Msg("ws connecting")
		cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		conn, _, err := websocket.DefaultDialer.DialContext(cctx, f.wsURL, nil)
		cancel()
		if err != nil {
			log.Error().Str("feed", f.Name()).Err(err).Msg("ws dial failed")
			time.Sleep(backoff)
			backoff = minDur(backoff*2, maxBackoff)
			continue
		}

		sub := wsRequest{
			Time:    time.Now().Unix(),
			Channel: "futures.tickers",
			Event:   "subscribe",
			Payload: contracts,
		}
		if err := conn.WriteJSON(sub); err != nil {
			log.Error().Str("feed", f.Name()).Err(err).Msg("ws subscribe failed")
			_ = conn.Close()
			time.Sleep(backoff)
			backoff = minDur(backoff*2, maxBackoff)
			continue
		}

		backoff = 500 * time.Millisecond
		log.Info().Str("feed", f.Name()).Int("contracts", len(contracts)).Msg("ws connected")

		err = readLoop(ctx, conn, func(b []byte) {
			var msg wsTickerMsg
			if e := json.Unmarshal(b, &msg); e != nil {
				return
			}
			if msg.Channel != "futures.tickers" || msg.Event != "update" {
				return
			}
			now := time.Now().UnixMilli()
			for _, r := range msg.Result {
				if r.Contract == "" {
					continue
				}
				tick := port.FundingTick{
					Contract:    strings.ToUpper(r.Contract),
					FundingRate: f64(r.FundingRate),
					MarkPrice:   f64(r.MarkPrice),
					Ts:          now,
				}
				// out closes after readLoop returns; a send must never
				// outlive a cancelled context
				select {
				case out <- tick:
				case <-ctx.Done():
					return
				}
			}
		})

		_ = conn.Close()

		if ctx.Err() != nil {
			return
		}

		log.Warn().Str("feed", f.Name()).Err(err).Msg("ws disconnected, reconnecting")
		time.Sleep(backoff)
		backoff = minDur(backoff*2, maxBackoff)
	}
}

func readLoop(ctx context.Context, conn *websocket.Conn, onMsg func([]byte)) error {
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	pingTicker := time.NewTicker(25 * time.Second)
	defer pingTicker.Stop()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		for {
			_, b, err := conn.ReadMessage()
			if err == nil {
				_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			}
			if err != nil {
				errCh <- err
				return
			}
			onMsg(b)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			// unblock ReadMessage and wait for the reader goroutine, so
			// the caller can safely close its output channel
			_ = conn.Close()
			for range errCh {
			}
			return ctx.Err()
		case err := <-errCh:
			return err
		case <-pingTicker.C:
			_ = conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
		}
	}
}

func minDur(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
