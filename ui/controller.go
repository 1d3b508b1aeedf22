package ui

import (
	"fmt"
	"io"

	"github.com/calvinmclean/servotester"
	"github.com/calvinmclean/servotester/firmware/commands"
)

var pressFlags = map[servotester.Button]byte{
	servotester.ButtonUp:     commands.UpCommand.Flag,
	servotester.ButtonDown:   commands.DownCommand.Flag,
	servotester.ButtonLeft:   commands.LeftCommand.Flag,
	servotester.ButtonRight:  commands.RightCommand.Flag,
	servotester.ButtonCenter: commands.CenterCommand.Flag,
}

// controllerWrapper turns UI actions into serial commands
type controllerWrapper struct {
	writer io.Writer
}

func (c *controllerWrapper) Press(b servotester.Button) {
	flag, ok := pressFlags[b]
	if !ok {
		return
	}
	c.write([]byte{flag})
}

func (c *controllerWrapper) SetPot(value float64) {
	c.write(fmt.Appendf([]byte{commands.OverridePotCommand.Flag}, "%04.0f", value))
}

func (c *controllerWrapper) ReleasePot() {
	c.write([]byte{commands.ReleasePotCommand.Flag})
}

func (c *controllerWrapper) Status() {
	c.write([]byte{commands.StatusCommand.Flag})
}

func (c *controllerWrapper) Verbose() {
	c.write([]byte{commands.VerboseCommand.Flag})
}

func (c *controllerWrapper) write(b []byte) {
	_, err := c.writer.Write(b)
	if err != nil {
		fmt.Println("error sending command:", err)
	}
}
