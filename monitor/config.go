package monitor

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

const (
	// SerialPortSimulator selects the in-process simulator instead of a serial port
	SerialPortSimulator = "Simulator"

	DefaultBaudRate = "115200"
)

var ErrNoUSBSerial = errors.New("no USB serial ports found")

// Config selects the serial connection
type Config struct {
	SerialPort string
	BaudRate   string
}

// ConfigFromEnv reads SERVOTESTER_PORT and SERVOTESTER_BAUD
func ConfigFromEnv() Config {
	cfg := Config{
		SerialPort: os.Getenv("SERVOTESTER_PORT"),
		BaudRate:   os.Getenv("SERVOTESTER_BAUD"),
	}
	if cfg.BaudRate == "" {
		cfg.BaudRate = DefaultBaudRate
	}
	return cfg
}

// Mode returns the serial mode for the configured baud rate
func (c Config) Mode() (*serial.Mode, error) {
	baud, err := strconv.Atoi(c.BaudRate)
	if err != nil {
		return nil, fmt.Errorf("invalid baud rate %q: %w", c.BaudRate, err)
	}
	return &serial.Mode{BaudRate: baud}, nil
}

// GetSerialPorts lists the USB serial ports, which is where the board shows up
func GetSerialPorts() ([]string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("error listing serial ports: %w", err)
	}

	var result []string
	for _, p := range ports {
		if p.IsUSB {
			result = append(result, p.Name)
		}
	}
	if len(result) == 0 {
		return nil, ErrNoUSBSerial
	}
	return result, nil
}
