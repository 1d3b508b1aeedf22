// Package bounds holds the low/high pulse-width bounds and keeps each one inside its range and on
// its step grid.
package bounds

import (
	"github.com/calvinmclean/servotester"
	"github.com/calvinmclean/servotester/x/mathx"
)

// Model is the current pair of bounds. The low and high ranges are independent; keeping them
// disjoint is the job of servotester.Config.Validate.
type Model struct {
	low      servotester.Range
	high     servotester.Range
	step     int
	defaults servotester.BoundPair

	current servotester.BoundPair
}

// New creates a Model holding the configured defaults
func New(cfg servotester.Config) *Model {
	m := &Model{
		low:      cfg.Low,
		high:     cfg.High,
		step:     cfg.Step,
		defaults: cfg.Defaults,
	}
	m.current = m.defaults
	return m
}

// Pair returns the current bounds
func (m *Model) Pair() servotester.BoundPair {
	return m.current
}

// Defaults returns the factory bounds
func (m *Model) Defaults() servotester.BoundPair {
	return m.defaults
}

// Range returns the allowed range for a bound row
func (m *Model) Range(row servotester.Row) (servotester.Range, bool) {
	switch row {
	case servotester.RowMin:
		return m.low, true
	case servotester.RowMax:
		return m.high, true
	default:
		return servotester.Range{}, false
	}
}

// Sanitize clamps v into the row's range and rounds it down onto the step grid
func (m *Model) Sanitize(row servotester.Row, v int) int {
	r, ok := m.Range(row)
	if !ok {
		return v
	}
	return mathx.Snap(v, r.Min, r.Max, m.step)
}

// Set stores a sanitized value for the row and returns the resulting pair
func (m *Model) Set(row servotester.Row, v int) servotester.BoundPair {
	switch row {
	case servotester.RowMin:
		m.current.Low = m.Sanitize(row, v)
	case servotester.RowMax:
		m.current.High = m.Sanitize(row, v)
	}
	return m.current
}

// SetPair sanitizes and stores both bounds
func (m *Model) SetPair(p servotester.BoundPair) servotester.BoundPair {
	m.Set(servotester.RowMin, p.Low)
	return m.Set(servotester.RowMax, p.High)
}

// Adjust moves the row's bound by one step. Values past the range stop at the boundary.
func (m *Model) Adjust(row servotester.Row, dir servotester.Direction) servotester.BoundPair {
	v, ok := m.current.Get(row)
	if !ok {
		return m.current
	}
	return m.Set(row, v+int(dir)*m.step)
}

// Reset restores the defaults
func (m *Model) Reset() servotester.BoundPair {
	m.current = m.defaults
	return m.current
}
