package console

import (
	"fmt"
	"time"

	"fundarb/internal/application/port"
)

type Sink struct{}

func NewSink() port.Sink { return &Sink{} }

func (s *Sink) WriteLive(line string) error {
	fmt.Print(line) // no newline, the line repaints in place
	return nil
}

// WriteSnapshot breaks out of the live line, prints a timestamped row
// and leaves a blank line; the next tick redraws the live line below.
func (s *Sink) WriteSnapshot(ts time.Time, line string) error {
	fmt.Print("\n")
	fmt.Printf("%s %s\n", ts.Format("2006-01-02 15:04:05"), line)
	fmt.Print("\n")
	return nil
}

func (s *Sink) NewLine() error {
	fmt.Print("\n")
	return nil
}
