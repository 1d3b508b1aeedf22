package servotester

import (
	"errors"
	"strconv"
	"time"
)

// Hard physical limits of the pulse output
const (
	PulseEnvelopeMin = 544
	PulseEnvelopeMax = 2400
)

// Range is an inclusive integer range
type Range struct {
	Min int
	Max int
}

// Contains reports whether v lies inside the range
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) String() string {
	return "[" + strconv.Itoa(r.Min) + "," + strconv.Itoa(r.Max) + "]"
}

// Config has the values that define the bounds, the menu and the loop timing
type Config struct {
	Title string

	// Low and High are the allowed ranges for each bound. They must not overlap.
	Low  Range
	High Range
	// Step is the adjustment increment, relative to each range's Min
	Step int

	Defaults BoundPair

	// Envelope is the hard limit applied to every pulse width written to the servo
	Envelope Range

	// Debounce is ignored time after an accepted button edge
	Debounce time.Duration

	// Oversample is the number of potentiometer reads averaged per sample
	Oversample int

	// ShowCurrent enables the display-only row with the live pulse width
	ShowCurrent bool
}

// DefaultConfig returns the reference configuration
func DefaultConfig() Config {
	return Config{
		Title:       "Servo Tester",
		Low:         Range{Min: 550, Max: 1400},
		High:        Range{Min: 1600, Max: 2400},
		Step:        50,
		Defaults:    BoundPair{Low: 1000, High: 2000},
		Envelope:    Range{Min: PulseEnvelopeMin, Max: PulseEnvelopeMax},
		Debounce:    20 * time.Millisecond,
		Oversample:  1,
		ShowCurrent: true,
	}
}

var (
	ErrInvalidStep     = errors.New("step must be positive")
	ErrInvalidEnvelope = errors.New("envelope must lie within [544,2400]")
	ErrOverlap         = errors.New("low range must end below the high range")
)

// Validate checks that the ranges are consistent. Overlapping low/high ranges are a configuration
// error; nothing checks them again at runtime.
func (c Config) Validate() error {
	if c.Step <= 0 {
		return ErrInvalidStep
	}
	if c.Envelope.Min < PulseEnvelopeMin || c.Envelope.Max > PulseEnvelopeMax || c.Envelope.Min >= c.Envelope.Max {
		return ErrInvalidEnvelope
	}

	for _, r := range []struct {
		name string
		rng  Range
		def  int
	}{
		{"low", c.Low, c.Defaults.Low},
		{"high", c.High, c.Defaults.High},
	} {
		if r.rng.Min > r.rng.Max {
			return errors.New(r.name + " range " + r.rng.String() + " is inverted")
		}
		if !c.Envelope.Contains(r.rng.Min) || !c.Envelope.Contains(r.rng.Max) {
			return errors.New(r.name + " range " + r.rng.String() + " is outside the envelope " + c.Envelope.String())
		}
		if (r.rng.Max-r.rng.Min)%c.Step != 0 {
			return errors.New(r.name + " range " + r.rng.String() + " is not aligned to step " + strconv.Itoa(c.Step))
		}
		if !r.rng.Contains(r.def) || (r.def-r.rng.Min)%c.Step != 0 {
			return errors.New(r.name + " default " + strconv.Itoa(r.def) + " is not a step of " + r.rng.String())
		}
	}

	if c.Low.Max >= c.High.Min {
		return ErrOverlap
	}
	if c.Oversample < 0 {
		return errors.New("oversample must not be negative")
	}
	return nil
}
