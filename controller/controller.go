// Package controller owns the application state and runs one control cycle per Tick:
// input sampling, menu handling, signal mapping and display rendering, in that order.
package controller

import (
	"errors"
	"strconv"
	"time"

	"github.com/calvinmclean/servotester"
	"github.com/calvinmclean/servotester/bounds"
	"github.com/calvinmclean/servotester/display"
	"github.com/calvinmclean/servotester/input"
	"github.com/calvinmclean/servotester/menu"
	"github.com/calvinmclean/servotester/settings"
	"github.com/calvinmclean/servotester/signal"
)

const noOverride = -1

// Hardware is the set of collaborators the controller drives
type Hardware struct {
	Buttons input.Buttons
	Pot     input.Potentiometer
	Servo   signal.Output
	Screen  display.Sink
	Storage settings.Storage
}

// Controller is the single owner of the bounds, the menu state and the mapper cache. It is not
// safe for concurrent use.
type Controller struct {
	cfg servotester.Config
	log servotester.Logger

	sampler *input.Sampler
	bounds  *bounds.Model
	store   *settings.Store
	menu    *menu.Machine
	mapper  *signal.Mapper
	screen  display.Sink

	injected []servotester.Button
	override int
	verbose  bool
	frame    display.Frame
}

// New validates cfg, loads the persisted bounds and returns a Controller ready for Tick. Storage
// errors are logged and the defaults are used; only an invalid config is an error.
func New(cfg servotester.Config, hw Hardware, log servotester.Logger) (*Controller, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, errors.New("invalid config: " + err.Error())
	}
	if log == nil {
		log = servotester.Discard
	}

	c := &Controller{
		cfg:      cfg,
		log:      log,
		sampler:  input.NewSampler(hw.Buttons, hw.Pot, cfg.Debounce, cfg.Oversample),
		bounds:   bounds.New(cfg),
		store:    settings.New(hw.Storage, cfg.Defaults, log),
		mapper:   signal.New(hw.Servo, cfg.Envelope, log),
		screen:   hw.Screen,
		override: noOverride,
	}
	c.menu = menu.New(c.bounds, c.store, c.mapper, log)

	loaded, err := c.store.Load()
	if err != nil {
		c.logError(err)
	}
	c.bounds.SetPair(loaded)

	return c, nil
}

// Tick runs one control cycle. It never blocks: a held button produces a single event and the
// potentiometer and display keep updating.
func (c *Controller) Tick(now time.Time) {
	events := c.sampler.Poll(now)
	events = append(events, c.injected...)
	c.injected = c.injected[:0]

	for _, b := range events {
		if c.verbose {
			c.log("button " + b.String())
		}
		err := c.menu.Handle(b)
		if err != nil {
			c.logError(err)
		}
	}

	_, err := c.mapper.Update(c.readPot(), c.bounds.Pair())
	if err != nil {
		c.logError(err)
	}

	c.frame = display.Render(c.view())
	err = c.screen.Draw(c.frame)
	if err != nil {
		c.logError(err)
	}
}

// Press queues a press event for the next Tick
func (c *Controller) Press(b servotester.Button) {
	if b.Index() < 0 {
		return
	}
	if c.verbose {
		c.log("inject " + b.String())
	}
	c.injected = append(c.injected, b)
}

// OverridePot replaces the potentiometer reading with raw until ReleasePot
func (c *Controller) OverridePot(raw int) {
	if raw < 0 {
		raw = 0
	}
	if raw > input.PotMax {
		raw = input.PotMax
	}
	c.override = raw
	if c.verbose {
		c.log("pot override " + strconv.Itoa(raw))
	}
}

// ReleasePot goes back to reading the potentiometer
func (c *Controller) ReleasePot() {
	c.override = noOverride
	if c.verbose {
		c.log("pot released")
	}
}

// Debug logs a status line
func (c *Controller) Debug() {
	st := c.menu.State()
	p := c.bounds.Pair()
	c.log("status row=" + st.Selected.String() +
		" mode=" + st.Mode.String() +
		" low=" + strconv.Itoa(p.Low) +
		" high=" + strconv.Itoa(p.High) +
		" pulse=" + strconv.Itoa(c.mapper.PulseWidth()))
}

// Verbose enables logging of every button event
func (c *Controller) Verbose() {
	c.verbose = true
	c.log("verbose on")
}

// State returns the menu state
func (c *Controller) State() menu.State {
	return c.menu.State()
}

// Bounds returns the current bounds, including uncommitted edits
func (c *Controller) Bounds() servotester.BoundPair {
	return c.bounds.Pair()
}

// PulseWidth returns the last written pulse width
func (c *Controller) PulseWidth() int {
	return c.mapper.PulseWidth()
}

// Frame returns the frame drawn by the last Tick
func (c *Controller) Frame() display.Frame {
	return c.frame
}

// Config returns the validated config
func (c *Controller) Config() servotester.Config {
	return c.cfg
}

func (c *Controller) readPot() int {
	if c.override != noOverride {
		return c.override
	}
	return c.sampler.ReadPot()
}

func (c *Controller) view() display.View {
	return display.View{
		Title:       c.cfg.Title,
		Menu:        c.menu.State(),
		Bounds:      c.bounds.Pair(),
		PulseWidth:  c.mapper.PulseWidth(),
		ShowCurrent: c.cfg.ShowCurrent,
	}
}

func (c *Controller) logError(err error) {
	c.log("error: " + err.Error())
}
