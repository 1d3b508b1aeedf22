// Package sim runs the controller against virtual hardware on the host. A Board behaves like the
// real one on the serial port: writes are command bytes and reads return the diagnostic log.
package sim

import (
	"context"
	"image"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/calvinmclean/servotester"
	"github.com/calvinmclean/servotester/controller"
	"github.com/calvinmclean/servotester/display"
	"github.com/calvinmclean/servotester/firmware/commands"
	"github.com/calvinmclean/servotester/input"
	"github.com/calvinmclean/servotester/menu"
	"github.com/calvinmclean/servotester/settings"
)

// logBacklog is the number of log lines kept for a slow reader before new ones are dropped
const logBacklog = 256

// Snapshot is the observable state of the board
type Snapshot struct {
	Menu       menu.State
	Bounds     servotester.BoundPair
	PulseWidth int
	// Writes is the number of pulse widths written to the servo
	Writes int
}

// Board owns the virtual hardware and the controller. It is safe for concurrent use.
type Board struct {
	mu      sync.Mutex
	c       *controller.Controller
	cmds    *commands.Dispatcher
	buttons buttons
	pot     pot
	servo   servo
	screen  *display.Raster
	start   time.Time

	lines   chan string
	pending []byte
	closed  chan struct{}
	once    sync.Once
}

// New boots a board on the given storage
func New(cfg servotester.Config, storage settings.Storage) (*Board, error) {
	b := &Board{
		pot:    pot{raw: input.PotMax / 2},
		screen: display.NewRaster(),
		start:  time.Now(),
		lines:  make(chan string, logBacklog),
		closed: make(chan struct{}),
	}

	b.log("boot " + cfg.Title)

	c, err := controller.New(cfg, controller.Hardware{
		Buttons: &b.buttons,
		Pot:     &b.pot,
		Servo:   &b.servo,
		Screen:  b.screen,
		Storage: storage,
	}, b.log)
	if err != nil {
		return nil, err
	}
	b.c = c
	b.cmds = commands.NewDispatcher(c, b.log)

	return b, nil
}

// Run ticks the board every interval until ctx is done
func (b *Board) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			b.Tick(now)
		}
	}
}

// Tick runs one control cycle
func (b *Board) Tick(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.c.Tick(now)
}

// SetButton holds or releases a physical button
func (b *Board) SetButton(btn servotester.Button, pressed bool) {
	i := btn.Index()
	if i < 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buttons.pressed[i] = pressed
}

// SetPot turns the physical potentiometer
func (b *Board) SetPot(raw int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pot.raw = raw
}

// Snapshot returns the current state
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{
		Menu:       b.c.State(),
		Bounds:     b.c.Bounds(),
		PulseWidth: b.c.PulseWidth(),
		Writes:     b.servo.writes,
	}
}

// Image returns the last presented display frame
func (b *Board) Image() *image.Gray {
	return b.screen.Image()
}

// Write feeds command bytes to the board
func (b *Board) Write(p []byte) (int, error) {
	select {
	case <-b.closed:
		return 0, io.ErrClosedPipe
	default:
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range p {
		b.cmds.Feed(c)
	}
	return len(p), nil
}

// Read returns log output, blocking until a line is available or the board is closed. It must
// not be called from more than one goroutine.
func (b *Board) Read(p []byte) (int, error) {
	if len(b.pending) == 0 {
		select {
		case line := <-b.lines:
			b.pending = []byte(line)
		case <-b.closed:
			return 0, io.EOF
		}
	}
	n := copy(p, b.pending)
	b.pending = b.pending[n:]
	return n, nil
}

// Close stops Read and Write
func (b *Board) Close() error {
	b.once.Do(func() { close(b.closed) })
	return nil
}

// log formats lines like the firmware console. Lines are dropped when nobody reads them.
func (b *Board) log(msg string) {
	line := "[" + strconv.FormatInt(time.Since(b.start).Milliseconds(), 10) + "ms] " + msg + "\r\n"
	select {
	case b.lines <- line:
	default:
	}
}

type buttons struct {
	pressed [servotester.NumButtons]bool
}

// Level reads active-low like the pull-up wiring
func (b *buttons) Level(btn servotester.Button) bool {
	i := btn.Index()
	return i < 0 || !b.pressed[i]
}

type pot struct {
	raw int
}

func (p *pot) Read() int {
	return p.raw
}

type servo struct {
	writes int
	last   int
}

func (s *servo) SetPulseWidth(us int) error {
	s.writes++
	s.last = us
	return nil
}
