package trader

import (
	"context"

	"fundarb/internal/application/port"
)

type noopJournal struct{}

// NewNoopJournal returns a journal that drops everything. Used when no
// storage backend is enabled.
func NewNoopJournal() port.Journal { return noopJournal{} }

func (noopJournal) RecordCandidate(context.Context, *port.CandidateRecord) error { return nil }
func (noopJournal) RecordHedgeOpen(context.Context, *port.HedgeRecord) error     { return nil }
func (noopJournal) RecordHedgeClose(context.Context, *port.CloseRecord) error    { return nil }
func (noopJournal) RecordPnlSample(context.Context, *port.PnlSample) error       { return nil }
func (noopJournal) Close() error                                                 { return nil }
