package composite

import (
	"context"

	"fundarb/internal/application/port"
)

// Repo fans every journal write out to all enabled backends. The first
// error wins but every backend still gets the write.
type Repo struct {
	journals []port.Journal
}

func New(journals ...port.Journal) *Repo {
	// nil journals are allowed; filter in constructor for safety
	out := make([]port.Journal, 0, len(journals))
	for _, j := range journals {
		if j != nil {
			out = append(out, j)
		}
	}
	return &Repo{journals: out}
}

func (r *Repo) RecordCandidate(ctx context.Context, c *port.CandidateRecord) error {
	var firstErr error
	for _, j := range r.journals {
		if err := j.RecordCandidate(ctx, c); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) RecordHedgeOpen(ctx context.Context, h *port.HedgeRecord) error {
	var firstErr error
	for _, j := range r.journals {
		if err := j.RecordHedgeOpen(ctx, h); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) RecordHedgeClose(ctx context.Context, c *port.CloseRecord) error {
	var firstErr error
	for _, j := range r.journals {
		if err := j.RecordHedgeClose(ctx, c); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) RecordPnlSample(ctx context.Context, s *port.PnlSample) error {
	var firstErr error
	for _, j := range r.journals {
		if err := j.RecordPnlSample(ctx, s); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) Close() error {
	var firstErr error
	for _, j := range r.journals {
		if err := j.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ port.Journal = (*Repo)(nil)
