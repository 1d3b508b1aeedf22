// Package input turns raw button levels and potentiometer reads into press events and samples.
package input

import (
	"time"

	"github.com/calvinmclean/servotester"
	"github.com/calvinmclean/servotester/x/mathx"
)

// PotMax is the top of the 10-bit potentiometer range
const PotMax = 1023

// Buttons reads the raw level of a button pin
type Buttons interface {
	Level(b servotester.Button) bool
}

// Potentiometer reads the raw 10-bit analog value
type Potentiometer interface {
	Read() int
}

// Sampler detects press edges. A press is reported once, when a released button becomes pressed,
// and never again while it stays held. After any accepted change, the button is ignored for the
// debounce period.
type Sampler struct {
	buttons   Buttons
	pot       Potentiometer
	activeLow bool
	debounce  time.Duration
	samples   int

	pressed    [servotester.NumButtons]bool
	lastChange [servotester.NumButtons]time.Time
}

// NewSampler creates a Sampler. Buttons are active-low, as wired with pull-ups.
func NewSampler(buttons Buttons, pot Potentiometer, debounce time.Duration, oversample int) *Sampler {
	if oversample < 1 {
		oversample = 1
	}
	return &Sampler{
		buttons:   buttons,
		pot:       pot,
		activeLow: true,
		debounce:  debounce,
		samples:   oversample,
	}
}

// SetActiveLow changes the pin polarity
func (s *Sampler) SetActiveLow(activeLow bool) {
	s.activeLow = activeLow
}

// Poll samples every button and returns the new press edges in servotester.Buttons order
func (s *Sampler) Poll(now time.Time) []servotester.Button {
	var events []servotester.Button
	for i, b := range servotester.Buttons {
		pressed := s.buttons.Level(b) != s.activeLow
		if pressed == s.pressed[i] {
			continue
		}
		if !s.lastChange[i].IsZero() && now.Sub(s.lastChange[i]) < s.debounce {
			continue
		}

		s.pressed[i] = pressed
		s.lastChange[i] = now
		if pressed {
			events = append(events, b)
		}
	}
	return events
}

// Held reports whether the button is currently considered pressed
func (s *Sampler) Held(b servotester.Button) bool {
	i := b.Index()
	if i < 0 {
		return false
	}
	return s.pressed[i]
}

// ReadPot averages the configured number of reads and clamps to [0, PotMax]
func (s *Sampler) ReadPot() int {
	sum := 0
	for range s.samples {
		sum += s.pot.Read()
	}
	return mathx.Clamp(sum/s.samples, 0, PotMax)
}
