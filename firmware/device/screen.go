//go:build tinygo

package device

import (
	"errors"
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/calvinmclean/servotester/display"
)

// baseline offset of the font from the top of a text line
const baseline = 9

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

// Screen executes frames on an SSD1306 OLED
type Screen struct {
	dev  *ssd1306.Device
	font tinyfont.Fonter
}

// NewScreen configures the I2C bus and the display. It fails if nothing answers at the address.
func NewScreen(cfg DisplayConfig) (*Screen, error) {
	err := cfg.Bus.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SCL:       cfg.SCL,
		SDA:       cfg.SDA,
	})
	if err != nil {
		return nil, errors.New("error configuring I2C: " + err.Error())
	}

	var probe [1]byte
	err = cfg.Bus.Tx(cfg.Address, nil, probe[:])
	if err != nil {
		return nil, errors.New("display not found: " + err.Error())
	}

	dev := ssd1306.NewI2C(cfg.Bus)
	dev.Configure(ssd1306.Config{
		Width:    display.Width,
		Height:   display.Height,
		Address:  cfg.Address,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	dev.ClearDisplay()

	return &Screen{dev: dev, font: &proggy.TinySZ8pt7b}, nil
}

// Draw implements display.Sink
func (s *Screen) Draw(f display.Frame) error {
	for _, cmd := range f {
		switch cmd.Op {
		case display.OpClear:
			s.dev.ClearBuffer()
		case display.OpText:
			s.text(cmd)
		case display.OpPresent:
			err := s.dev.Display()
			if err != nil {
				return errors.New("error refreshing display: " + err.Error())
			}
		}
	}
	return nil
}

func (s *Screen) text(cmd display.Command) {
	fg := white
	if cmd.Inverted {
		_, w := tinyfont.LineWidth(s.font, cmd.Text)
		for x := cmd.X; x < cmd.X+int16(w); x++ {
			for y := cmd.Y; y < cmd.Y+display.LineHeight; y++ {
				s.dev.SetPixel(x, y, white)
			}
		}
		fg = black
	}
	tinyfont.WriteLine(s.dev, s.font, cmd.X, cmd.Y+baseline, cmd.Text, fg)
}
