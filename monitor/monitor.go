// Package monitor is the host side of the serial console. It forwards command bytes to the board
// and prints the diagnostic lines it sends back.
package monitor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.bug.st/serial"
)

// Monitor connects to a board over a serial port or anything that behaves like one
type Monitor struct {
	port io.ReadWriteCloser
}

// New wraps an open port
func New(port io.ReadWriteCloser) *Monitor {
	return &Monitor{port: port}
}

// Open opens the configured serial port
func Open(cfg Config) (*Monitor, error) {
	if cfg.SerialPort == "" {
		return nil, fmt.Errorf("serial port is not set")
	}

	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(cfg.SerialPort, mode)
	if err != nil {
		return nil, fmt.Errorf("error opening serial port %q: %w", cfg.SerialPort, err)
	}

	return New(port), nil
}

// Close closes the port
func (m *Monitor) Close() error {
	return m.port.Close()
}

// Run copies in to the board and the board's output to out, one line at a time, until ctx is
// done or the board stops sending. Pulse lines are annotated with the potentiometer position.
func (m *Monitor) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	errs := make(chan error, 2)

	go func() {
		_, err := io.Copy(m.port, in)
		if err != nil {
			errs <- fmt.Errorf("error writing to board: %w", err)
		}
	}()

	go func() {
		scanner := bufio.NewScanner(m.port)
		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), "\r")
			if line == "" {
				continue
			}
			_, err := io.WriteString(out, annotate(line)+"\n")
			if err != nil {
				errs <- fmt.Errorf("error writing output: %w", err)
				return
			}
		}
		err := scanner.Err()
		if err != nil {
			err = fmt.Errorf("error reading from board: %w", err)
		}
		errs <- err
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errs:
		return err
	}
}

func annotate(line string) string {
	e, ok := ParseLine(line)
	if !ok || e.Kind != EventPulse {
		return line
	}
	return line + " (" + strconv.Itoa(e.Quantized/10) + "%)"
}
