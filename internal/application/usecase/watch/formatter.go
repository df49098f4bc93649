package watch

import (
	"fmt"
	"strings"
)

const (
	ansiReset    = "\033[0m"
	ansiRed      = "\033[31m"
	ansiGreen    = "\033[32m"
	ansiYellow   = "\033[33m"
	ansiDim      = "\033[2m"
	ansiClearEOL = "\033[K"
)

func colorize(s, c string) string { return c + s + ansiReset }

type RenderMode int

const (
	RenderLive RenderMode = iota
	RenderSnapshot
)

// Formatter renders the funding board. Rates at or above ThresholdPct
// (absolute) are highlighted as actionable.
type Formatter struct {
	ThresholdPct float64
	TopN         int
}

func NewFormatter(thresholdPct float64, topN int) *Formatter {
	if topN <= 0 {
		topN = 5
	}
	return &Formatter{ThresholdPct: thresholdPct, TopN: topN}
}

func (f *Formatter) Render(st *State, mode RenderMode) string {
	entries := st.Top(f.TopN)

	var sb strings.Builder
	if mode == RenderLive {
		sb.WriteString("\r")
	}

	sb.WriteString(colorize("[FUNDING] ", ansiDim))

	if len(entries) == 0 {
		sb.WriteString(colorize("waiting for ticks", ansiDim))
	}

	for i, e := range entries {
		if i > 0 {
			sb.WriteString(colorize("  ||  ", ansiDim))
		}

		rateCol := ansiYellow
		if e.RatePct >= f.ThresholdPct || e.RatePct <= -f.ThresholdPct {
			rateCol = ansiGreen
		}

		arrow := " "
		arrowCol := ansiDim
		switch e.Dir {
		case DirUp:
			arrow = "↑"
			arrowCol = ansiGreen
		case DirDown:
			arrow = "↓"
			arrowCol = ansiRed
		}

		sb.WriteString(e.Contract)
		sb.WriteString(" ")
		sb.WriteString(colorize(fmt.Sprintf("%+.4f%%", e.RatePct), rateCol))
		sb.WriteString(colorize(arrow, arrowCol))
		sb.WriteString(" ")
		sb.WriteString(colorize(fmt.Sprintf("%dh", e.Interval/3600), ansiDim))
		sb.WriteString(" ")
		sb.WriteString(colorize(fmt.Sprintf("d=%.3f", e.Score), ansiDim))
	}

	if mode == RenderLive {
		sb.WriteString(ansiClearEOL)
	}
	return sb.String()
}
