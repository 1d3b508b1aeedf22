//go:build tinygo

package device

import (
	"machine"

	"github.com/calvinmclean/servotester"
)

// Buttons reads the menu buttons. Pins use the internal pull-ups, so a pressed button reads low.
type Buttons struct {
	pins [servotester.NumButtons]machine.Pin
}

func NewButtons(cfg ButtonConfig) *Buttons {
	for _, p := range cfg.Pins {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	return &Buttons{pins: cfg.Pins}
}

// Level returns the raw pin level
func (b *Buttons) Level(btn servotester.Button) bool {
	i := btn.Index()
	if i < 0 {
		return true
	}
	return b.pins[i].Get()
}

// Pot reads the potentiometer as a 10-bit value
type Pot struct {
	adc machine.ADC
}

func NewPot(cfg PotConfig) *Pot {
	machine.InitADC()
	adc := machine.ADC{Pin: cfg.Pin}
	adc.Configure(machine.ADCConfig{})
	return &Pot{adc: adc}
}

// Read scales the 16-bit ADC reading down to 0-1023
func (p *Pot) Read() int {
	return int(p.adc.Get() >> 6)
}
