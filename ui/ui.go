// Package ui is a desktop front panel for the servo tester. It drives either a simulated board or
// a real one over serial, using the same command protocol as the serial console.
package ui

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/servotester"
	"github.com/calvinmclean/servotester/display"
	"github.com/calvinmclean/servotester/input"
	"github.com/calvinmclean/servotester/monitor"
)

const (
	refreshInterval = 50 * time.Millisecond
	screenScale     = 3
	maxLogLines     = 200
)

// Screen provides the display contents. Only the simulator has one.
type Screen interface {
	Image() *image.Gray
}

// Connector opens the board described by cfg and returns where to send commands. The UI receives
// the board's output through its Write method.
type Connector func(cfg monitor.Config) (io.Writer, Screen, error)

type status struct {
	low, high, pulse int
	lastError        string
}

func (s status) String() string {
	out := fmt.Sprintf("Min %dus   Max %dus   Pulse %dus", s.low, s.high, s.pulse)
	if s.lastError != "" {
		out += "\nError: " + s.lastError
	}
	return out
}

// ServoTesterUI collects the board output written to it and shows it in a window
type ServoTesterUI struct {
	mu      sync.Mutex
	partial []byte
	logs    []string
	status  status
	dirty   bool
}

func NewServoTesterUI() *ServoTesterUI {
	return &ServoTesterUI{}
}

// Write receives monitor output
func (ui *ServoTesterUI) Write(p []byte) (int, error) {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	ui.partial = append(ui.partial, p...)
	for {
		i := bytes.IndexByte(ui.partial, '\n')
		if i < 0 {
			break
		}
		ui.addLine(strings.TrimRight(string(ui.partial[:i]), "\r"))
		ui.partial = ui.partial[i+1:]
	}
	return len(p), nil
}

func (ui *ServoTesterUI) addLine(line string) {
	ui.logs = append(ui.logs, line)
	if len(ui.logs) > maxLogLines {
		ui.logs = ui.logs[len(ui.logs)-maxLogLines:]
	}
	ui.dirty = true

	e, ok := monitor.ParseLine(line)
	if !ok {
		return
	}
	switch e.Kind {
	case monitor.EventSettings:
		switch e.Row {
		case servotester.RowMin.String():
			ui.status.low = e.Value
		case servotester.RowMax.String():
			ui.status.high = e.Value
		case "":
			ui.status.low, ui.status.high = e.Low, e.High
		}
	case monitor.EventStatus:
		ui.status.low, ui.status.high, ui.status.pulse = e.Low, e.High, e.Pulse
	case monitor.EventPulse:
		ui.status.pulse = e.Pulse
	case monitor.EventError:
		ui.status.lastError = e.Message
	}
}

// snapshot returns the log text and status if anything changed since the last call
func (ui *ServoTesterUI) snapshot() (string, status, bool) {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	if !ui.dirty {
		return "", ui.status, false
	}
	ui.dirty = false
	return strings.Join(ui.logs, "\n"), ui.status, true
}

func createPotSlider(onSet func(float64), onRelease func()) *fyne.Container {
	defaultValue := float64(input.PotMax / 2)
	valueLabel := widget.NewLabel(fmt.Sprintf("%.0f", defaultValue))

	slider := widget.NewSlider(0, input.PotMax)
	slider.Step = 1
	slider.SetValue(defaultValue)
	slider.OnChanged = func(value float64) {
		valueLabel.SetText(fmt.Sprintf("%.0f", value))
	}
	slider.OnChangeEnded = onSet

	releaseButton := widget.NewButton("Release", onRelease)

	return container.NewVBox(
		container.NewGridWithColumns(3,
			widget.NewLabel("Potentiometer"),
			valueLabel,
			releaseButton,
		),
		slider,
	)
}

func createButtonPad(press func(servotester.Button)) *fyne.Container {
	button := func(b servotester.Button) *widget.Button {
		return widget.NewButton(b.String(), func() { press(b) })
	}

	return container.NewGridWithColumns(3,
		layout.NewSpacer(), button(servotester.ButtonUp), layout.NewSpacer(),
		button(servotester.ButtonLeft), button(servotester.ButtonCenter), button(servotester.ButtonRight),
		layout.NewSpacer(), button(servotester.ButtonDown), layout.NewSpacer(),
	)
}

func createLogAccordion(logContent *widget.Label) *widget.Accordion {
	logScroll := container.NewVScroll(logContent)
	logScroll.SetMinSize(fyne.NewSize(300, 150))

	return widget.NewAccordion(
		widget.NewAccordionItem("Logs", logScroll),
	)
}

func createScreen(screen Screen) (fyne.CanvasObject, func()) {
	if screen == nil {
		return widget.NewLabel("Display is only available in the simulator"), func() {}
	}

	img := canvas.NewImageFromImage(screen.Image())
	img.ScaleMode = canvas.ImageScalePixels
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(display.Width*screenScale, display.Height*screenScale))

	return img, func() {
		img.Image = screen.Image()
		img.Refresh()
	}
}

// Run shows the window until ctx is done or the window is closed. When cfg has no serial port, a
// connection window is shown first.
func (ui *ServoTesterUI) Run(ctx context.Context, cfg monitor.Config, connect Connector) {
	application := app.NewWithID("com.calvinmclean.servotester")

	start := func() {
		w, screen, err := connect(cfg)
		if err != nil {
			window := application.NewWindow("Servo Tester")
			window.Show()
			showError(application, window, err)
			return
		}
		ui.showMain(ctx, application, &controllerWrapper{writer: w}, screen)
	}

	if cfg.SerialPort == "" {
		configWindow := NewConfigWindow(application)
		configWindow.OnSubmit = start
		configWindow.Show(&cfg)
	} else {
		start()
	}

	go func() {
		<-ctx.Done()
		fyne.Do(func() {
			application.Quit()
		})
	}()

	application.Run()
}

func (ui *ServoTesterUI) showMain(ctx context.Context, application fyne.App, c *controllerWrapper, screen Screen) {
	window := application.NewWindow("Servo Tester")

	screenObject, refreshScreen := createScreen(screen)
	statusLabel := widget.NewLabel(status{}.String())
	logContent := widget.NewLabel("")

	contentContainer := container.NewVBox(
		container.NewCenter(screenObject),
		statusLabel,
		createButtonPad(c.Press),
		createPotSlider(c.SetPot, c.ReleasePot),
		container.NewGridWithColumns(2,
			widget.NewButton("Status", c.Status),
			widget.NewButton("Verbose", c.Verbose),
		),
		createLogAccordion(logContent),
	)

	go func() {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			fyne.Do(func() {
				refreshScreen()
				logs, st, changed := ui.snapshot()
				if changed {
					logContent.SetText(logs)
					statusLabel.SetText(st.String())
				}
			})
		}
	}()

	window.SetContent(contentContainer)
	window.SetMaster()
	window.Show()
}
