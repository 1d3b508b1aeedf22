//go:build tinygo

package device

import (
	"machine"

	"tinygo.org/x/drivers/servo"

	"github.com/calvinmclean/servotester"
)

// ServoConfig has device-level values for setting up the Servo
type ServoConfig struct {
	Pin machine.Pin
	PWM servo.PWM
}

// ButtonConfig maps each menu button to a pin wired to ground through the switch
type ButtonConfig struct {
	Pins [servotester.NumButtons]machine.Pin
}

// PotConfig is the ADC pin of the potentiometer wiper
type PotConfig struct {
	Pin machine.Pin
}

// DisplayConfig has the I2C bus and address of the SSD1306
type DisplayConfig struct {
	Bus     *machine.I2C
	SCL     machine.Pin
	SDA     machine.Pin
	Address uint16
}

// StorageConfig is the offset of the settings block inside the flash data area. It must be
// aligned to the erase block size.
type StorageConfig struct {
	Offset int64
}
