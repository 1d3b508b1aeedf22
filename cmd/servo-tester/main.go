package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/calvinmclean/servotester"
	"github.com/calvinmclean/servotester/monitor"
	"github.com/calvinmclean/servotester/settings"
	"github.com/calvinmclean/servotester/sim"
	"github.com/calvinmclean/servotester/ui"
)

const simInterval = 10 * time.Millisecond

func main() {
	var (
		enableUI, simulate, list bool
		port, statePath          string
	)
	flag.BoolVar(&enableUI, "ui", false, "Open the desktop front panel. Also enabled by ENABLE_UI=true")
	flag.BoolVar(&simulate, "sim", false, "Run the simulated board instead of connecting to a serial port")
	flag.BoolVar(&list, "list", false, "List USB serial ports and exit")
	flag.StringVar(&port, "port", "", "Serial port. Overrides SERVOTESTER_PORT")
	flag.StringVar(&statePath, "state", "servotester.bin", "File that stores the simulated board's settings")
	flag.Parse()

	if list {
		listPorts()
		return
	}

	cfg := monitor.ConfigFromEnv()
	if port != "" {
		cfg.SerialPort = port
	}
	if simulate {
		cfg.SerialPort = monitor.SerialPortSimulator
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if enableUI || os.Getenv("ENABLE_UI") == "true" {
		runUI(ctx, cfg, statePath)
		return
	}

	runCLI(ctx, cfg, statePath)
}

func listPorts() {
	ports, err := monitor.GetSerialPorts()
	if errors.Is(err, monitor.ErrNoUSBSerial) {
		fmt.Println("No USB serial ports found")
		return
	}
	if err != nil {
		panic(err)
	}
	for _, p := range ports {
		fmt.Println(p)
	}
}

// open connects to the configured board. The returned Screen is nil for a real board.
func open(ctx context.Context, cfg monitor.Config, statePath string) (*monitor.Monitor, ui.Screen, error) {
	if cfg.SerialPort != monitor.SerialPortSimulator {
		m, err := monitor.Open(cfg)
		return m, nil, err
	}

	storage, err := settings.OpenFile(statePath, settings.RecordSize)
	if err != nil {
		return nil, nil, err
	}

	board, err := sim.New(servotester.DefaultConfig(), storage)
	if err != nil {
		return nil, nil, fmt.Errorf("error starting simulator: %w", err)
	}
	go board.Run(ctx, simInterval)

	return monitor.New(board), board, nil
}

func runUI(ctx context.Context, cfg monitor.Config, statePath string) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	panel := ui.NewServoTesterUI()

	panel.Run(ctx, cfg, func(cfg monitor.Config) (io.Writer, ui.Screen, error) {
		m, screen, err := open(ctx, cfg, statePath)
		if err != nil {
			return nil, nil, err
		}

		r, w := io.Pipe()
		go func() {
			defer m.Close()
			err := m.Run(ctx, r, io.MultiWriter(os.Stdout, panel))
			if err != nil {
				fmt.Println("error:", err)
			}
		}()

		return w, screen, nil
	})
}

func runCLI(ctx context.Context, cfg monitor.Config, statePath string) {
	m, _, err := open(ctx, cfg, statePath)
	if err != nil {
		panic(err)
	}
	defer m.Close()

	err = m.Run(ctx, os.Stdin, os.Stdout)
	if err != nil {
		panic(err)
	}
}
