// Package commands implements the single-byte serial command protocol. A command is a flag byte
// followed by a fixed number of input bytes. Bytes are fed one at a time so the control loop never
// waits for a complete command.
package commands

import (
	"errors"
	"strconv"

	"github.com/calvinmclean/servotester"
)

type Command struct {
	Flag        byte
	InputSize   uint
	Run         func(Controller, []byte) error
	Description string
}

// Controller is used to control a device
type Controller interface {
	Press(servotester.Button)
	OverridePot(int)
	ReleasePot()
	Debug()
	Verbose()
}

func pressCommand(flag byte, b servotester.Button) *Command {
	return &Command{
		Flag:      flag,
		InputSize: 0,
		Run: func(c Controller, _ []byte) error {
			c.Press(b)
			return nil
		},
		Description: "Press the " + b.String() + " button.",
	}
}

var (
	UpCommand     = pressCommand('U', servotester.ButtonUp)
	DownCommand   = pressCommand('D', servotester.ButtonDown)
	LeftCommand   = pressCommand('L', servotester.ButtonLeft)
	RightCommand  = pressCommand('R', servotester.ButtonRight)
	CenterCommand = pressCommand('C', servotester.ButtonCenter)

	OverridePotCommand = &Command{
		Flag:      'A',
		InputSize: 4,
		Run: func(c Controller, input []byte) error {
			v := 0
			for _, b := range input {
				d, ok := b2i(b)
				if !ok {
					return errors.New("invalid input: " + string(input))
				}
				v = v*10 + d
			}
			if v > 1023 {
				return errors.New("out of range: " + strconv.Itoa(v))
			}
			c.OverridePot(v)
			return nil
		},
		Description: "Override the potentiometer reading. Input: four digits, 0000-1023.",
	}
	ReleasePotCommand = &Command{
		Flag:      'a',
		InputSize: 0,
		Run: func(c Controller, _ []byte) error {
			c.ReleasePot()
			return nil
		},
		Description: "Release the potentiometer override.",
	}
	StatusCommand = &Command{
		Flag:      'S',
		InputSize: 0,
		Run: func(c Controller, _ []byte) error {
			c.Debug()
			return nil
		},
		Description: "Print the current state.",
	}
	VerboseCommand = &Command{
		Flag:      'V',
		InputSize: 0,
		Run: func(c Controller, _ []byte) error {
			c.Verbose()
			return nil
		},
		Description: "Enable verbose output.",
	}
	HelpCommand = &Command{
		Flag:        'H',
		InputSize:   0,
		Description: "Show all available commands and their descriptions.",
	}
)

var commands = []*Command{
	UpCommand,
	DownCommand,
	LeftCommand,
	RightCommand,
	CenterCommand,
	OverridePotCommand,
	ReleasePotCommand,
	StatusCommand,
	VerboseCommand,
}

func b2i(b byte) (int, bool) {
	if b < '0' || b > '9' {
		return 0, false
	}
	return int(b - '0'), true
}

// Dispatcher collects bytes into commands and runs them against a Controller
type Dispatcher struct {
	c      Controller
	print  func(string)
	cmdMap map[byte]*Command

	pending *Command
	in      []byte
}

// NewDispatcher creates a Dispatcher. print receives help and error output; nil uses println.
func NewDispatcher(c Controller, print func(string)) *Dispatcher {
	if print == nil {
		print = func(s string) { println(s) }
	}

	cmdMap := map[byte]*Command{
		HelpCommand.Flag: HelpCommand,
	}
	for _, cmd := range commands {
		cmdMap[cmd.Flag] = cmd
	}

	return &Dispatcher{c: c, print: print, cmdMap: cmdMap}
}

// Feed consumes one byte. Unknown flag bytes are ignored.
func (d *Dispatcher) Feed(b byte) {
	if d.pending == nil {
		cmd, ok := d.cmdMap[b]
		if !ok {
			return
		}
		d.pending = cmd
		d.in = d.in[:0]
	} else {
		d.in = append(d.in, b)
	}

	if uint(len(d.in)) < d.pending.InputSize {
		return
	}

	cmd := d.pending
	d.pending = nil
	if cmd == HelpCommand {
		d.help()
		return
	}

	err := cmd.Run(d.c, d.in)
	if err != nil {
		d.print("error: " + err.Error())
	}
}

func (d *Dispatcher) help() {
	d.print("Available Commands:")
	for _, cmd := range append(commands, HelpCommand) {
		d.print(string(cmd.Flag) + ": " + cmd.Description)
	}
}
