//go:build tinygo

package device

import (
	"errors"

	"tinygo.org/x/drivers/servo"
)

// Servo writes pulse widths to a hobby servo
type Servo struct {
	servo servo.Servo
}

func NewServo(cfg ServoConfig) (*Servo, error) {
	s, err := servo.New(cfg.PWM, cfg.Pin)
	if err != nil {
		return nil, errors.New("error creating servo: " + err.Error())
	}
	return &Servo{servo: s}, nil
}

func (s *Servo) SetPulseWidth(us int) error {
	s.servo.SetMicroseconds(int16(us))
	return nil
}
