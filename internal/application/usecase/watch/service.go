package watch

import (
	"context"
	"errors"
	"math"
	"time"

	"fundarb/internal/application/port"

	"github.com/rs/zerolog/log"
)

type ServiceDeps struct {
	Feed          port.FundingFeed
	Gateway       port.Gateway
	Contracts     []string // empty means follow every listed contract
	PrintEveryMin int
	ThresholdPct  float64
	TopN          int
	Sink          port.Sink
	Journal       port.Journal
}

// Service runs the read-only funding board: it subscribes to the
// funding feed and keeps a live console line of the best rates.
// Nothing here places orders.
type Service struct {
	deps ServiceDeps
	st   *State
	fmt  *Formatter
}

func NewService(deps ServiceDeps) *Service {
	return &Service{
		deps: deps,
		st:   NewState(deps.Contracts),
		fmt:  NewFormatter(deps.ThresholdPct, deps.TopN),
	}
}

func (s *Service) Run(ctx context.Context) error {
	if s.deps.Feed == nil {
		return errors.New("no feed")
	}

	contracts := s.deps.Contracts
	if len(contracts) == 0 {
		var err error
		if contracts, err = s.listAll(ctx); err != nil {
			return err
		}
	}

	ticks, err := s.deps.Feed.Subscribe(ctx, contracts)
	if err != nil {
		return err
	}
	log.Info().Str("feed", s.deps.Feed.Name()).Msg("funding feed started")

	snapTicker := time.NewTicker(time.Duration(s.deps.PrintEveryMin) * time.Minute)
	defer snapTicker.Stop()

	_ = s.deps.Sink.WriteLive(s.fmt.Render(s.st, RenderLive))

	for {
		select {
		case <-ctx.Done():
			_ = s.deps.Sink.NewLine()
			return ctx.Err()

		case now := <-snapTicker.C:
			line := s.fmt.Render(s.st, RenderSnapshot)
			_ = s.deps.Sink.WriteSnapshot(now, line)
			s.journalTop(ctx, now)

		case t, ok := <-ticks:
			if !ok {
				_ = s.deps.Sink.NewLine()
				return errors.New("funding feed closed")
			}
			if s.st.Apply(t) {
				_ = s.deps.Sink.WriteLive(s.fmt.Render(s.st, RenderLive))
			}
		}
	}
}

// listAll pulls the tradable contract universe once at startup so the
// feed subscription covers the whole venue.
func (s *Service) listAll(ctx context.Context) ([]string, error) {
	if s.deps.Gateway == nil {
		return nil, errors.New("no contracts given and no gateway to list them")
	}
	contracts, err := s.deps.Gateway.ListContracts(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(contracts))
	for _, c := range contracts {
		names = append(names, c.Name)
	}
	if len(names) == 0 {
		return nil, errors.New("venue returned no contracts")
	}
	log.Info().Int("contracts", len(names)).Msg("watching full contract universe")
	return names, nil
}

// journalTop persists the actionable contracts once per snapshot, so
// the candidate history covers watch sessions too.
func (s *Service) journalTop(ctx context.Context, now time.Time) {
	for _, e := range s.st.Top(s.fmt.TopN) {
		if math.Abs(e.RatePct) < s.deps.ThresholdPct {
			continue
		}
		err := s.deps.Journal.RecordCandidate(ctx, &port.CandidateRecord{
			Contract:        e.Contract,
			FundingRatePct:  e.RatePct,
			FundingInterval: e.Interval,
			Score:           e.Score,
			Timestamp:       now.UnixMilli(),
		})
		if err != nil {
			log.Warn().Err(err).Str("contract", e.Contract).Msg("journal candidate failed")
			return
		}
	}
}
