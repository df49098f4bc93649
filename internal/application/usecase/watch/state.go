package watch

import (
	"math"
	"sort"
	"strings"
	"sync"

	"fundarb/internal/application/port"
)

type Dir int

const (
	DirSame Dir = 0
	DirUp   Dir = +1
	DirDown Dir = -1
)

type rateState struct {
	rate     float64
	interval int64
	mark     float64
	dir      Dir
	seen     bool
}

// Entry is a point-in-time view of one contract's funding state.
type Entry struct {
	Contract string
	RatePct  float64
	Interval int64
	Mark     float64
	Score    float64 // daily-equivalent absolute rate
	Dir      Dir
}

// State holds the latest funding rate per contract. When constructed
// with an explicit contract list it only tracks those; with an empty
// list it accepts every contract the feed delivers.
type State struct {
	mu sync.Mutex

	pinned map[string]bool
	rates  map[string]*rateState
}

func NewState(contracts []string) *State {
	pinned := make(map[string]bool, len(contracts))
	for _, c := range contracts {
		u := strings.ToUpper(strings.TrimSpace(c))
		if u == "" {
			continue
		}
		pinned[u] = true
	}
	return &State{
		pinned: pinned,
		rates:  make(map[string]*rateState),
	}
}

// Apply records a funding tick and reports whether the board changed.
func (s *State) Apply(t port.FundingTick) bool {
	contract := strings.ToUpper(strings.TrimSpace(t.Contract))
	if contract == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pinned) > 0 && !s.pinned[contract] {
		return false
	}

	rs := s.rates[contract]
	if rs == nil {
		rs = &rateState{}
		s.rates[contract] = rs
	}

	if rs.seen && rs.rate == t.FundingRate && rs.mark == t.MarkPrice {
		return false
	}

	switch {
	case !rs.seen, t.FundingRate == rs.rate:
		rs.dir = DirSame
	case t.FundingRate > rs.rate:
		rs.dir = DirUp
	default:
		rs.dir = DirDown
	}

	rs.rate = t.FundingRate
	if t.FundingInterval > 0 {
		rs.interval = t.FundingInterval
	}
	rs.mark = t.MarkPrice
	rs.seen = true
	return true
}

// Top returns the n highest-scoring contracts, descending.
func (s *State) Top(n int) []Entry {
	s.mu.Lock()
	entries := make([]Entry, 0, len(s.rates))
	for contract, rs := range s.rates {
		if !rs.seen {
			continue
		}
		ratePct := rs.rate * 100
		interval := rs.interval
		if interval <= 0 {
			interval = 28800
		}
		entries = append(entries, Entry{
			Contract: contract,
			RatePct:  ratePct,
			Interval: interval,
			Mark:     rs.mark,
			Score:    math.Abs(ratePct) * (86400 / float64(interval)),
			Dir:      rs.dir,
		})
	}
	s.mu.Unlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
