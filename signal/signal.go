// Package signal maps the potentiometer onto a servo pulse width between the current bounds.
package signal

import (
	"strconv"

	"github.com/calvinmclean/servotester"
	"github.com/calvinmclean/servotester/x/mathx"
)

const (
	// Grid is the quantization step of the potentiometer value
	Grid = 25
	// InputMax is the top of the quantized range. Raw values above it (up to 1023) are clipped.
	InputMax = 1000
)

const unset = -1

// Output sets the servo pulse width in microseconds
type Output interface {
	SetPulseWidth(us int) error
}

// Quantize rounds raw down to the grid and clips it to [0, InputMax]
func Quantize(raw int) int {
	return mathx.Clamp(raw/Grid*Grid, 0, InputMax)
}

// Map linearly maps a quantized value from [0, InputMax] onto [p.Low, p.High]
func Map(q int, p servotester.BoundPair) int {
	return mathx.MapInt(q, 0, InputMax, p.Low, p.High)
}

// Mapper writes the output only when the quantized input changes
type Mapper struct {
	out      Output
	envelope servotester.Range
	log      servotester.Logger

	last    int
	current int
}

// New creates a Mapper. envelope is the hard limit for any written pulse width.
func New(out Output, envelope servotester.Range, log servotester.Logger) *Mapper {
	if log == nil {
		log = servotester.Discard
	}
	return &Mapper{
		out:      out,
		envelope: envelope,
		log:      log,
		last:     unset,
	}
}

// Invalidate makes the next Update write the output even if the input did not move
func (m *Mapper) Invalidate() {
	m.last = unset
}

// PulseWidth is the last written pulse width, or 0 before the first write
func (m *Mapper) PulseWidth() int {
	return m.current
}

// Update quantizes raw and, if it changed since the last write, writes the mapped pulse width.
// A failed write leaves the cached value unset so it is retried next cycle.
func (m *Mapper) Update(raw int, p servotester.BoundPair) (bool, error) {
	q := Quantize(raw)
	if q == m.last {
		return false, nil
	}

	us := mathx.Clamp(Map(q, p), m.envelope.Min, m.envelope.Max)
	err := m.out.SetPulseWidth(us)
	if err != nil {
		m.last = unset
		return false, err
	}

	m.current = us
	m.last = q
	m.log("pulse=" + strconv.Itoa(us) + "us q=" + strconv.Itoa(q))
	return true, nil
}
