// Package display builds the draw commands for one frame. Rendering is a pure function of the
// menu state, the bounds and the pulse width; backends only execute the commands.
package display

import (
	"strconv"

	"github.com/calvinmclean/servotester"
	"github.com/calvinmclean/servotester/menu"
)

// Screen geometry in pixels
const (
	Width      = 128
	Height     = 64
	LineHeight = 12

	cursorX = 0
	labelX  = 8
	valueX  = 64
	firstY  = 16
)

const (
	Cursor  = ">"
	Unit    = "us"
	Confirm = "OUI"
	Cancel  = "NON"
)

// Op is a draw operation
type Op uint8

const (
	OpClear Op = iota
	OpText
	OpPresent
)

func (o Op) String() string {
	switch o {
	case OpClear:
		return "Clear"
	case OpText:
		return "Text"
	case OpPresent:
		return "Present"
	default:
		return "Unknown"
	}
}

// Command is one draw operation. X and Y are the top-left corner of a text line.
type Command struct {
	Op       Op
	X, Y     int16
	Text     string
	Inverted bool
}

// Frame is the batched command list for one refresh
type Frame []Command

// Sink executes a frame on a display backend
type Sink interface {
	Draw(Frame) error
}

// View is everything a frame depends on
type View struct {
	Title       string
	Menu        menu.State
	Bounds      servotester.BoundPair
	PulseWidth  int
	ShowCurrent bool
}

// Render builds the frame for v. It is called every cycle, changed or not.
func Render(v View) Frame {
	f := Frame{
		{Op: OpClear},
		{Op: OpText, X: 0, Y: 0, Text: v.Title},
	}

	if v.Menu.ResetScreen {
		f = renderReset(f, v)
	} else {
		f = renderMain(f, v)
	}

	return append(f, Command{Op: OpPresent})
}

func renderMain(f Frame, v View) Frame {
	rows := []servotester.Row{servotester.RowMin, servotester.RowMax}
	if v.ShowCurrent {
		rows = append(rows, servotester.RowCurrent)
	}
	rows = append(rows, servotester.RowReset)

	for i, row := range rows {
		y := int16(firstY + i*LineHeight)
		selected := row == v.Menu.Selected

		if selected && !v.Menu.Editing() {
			f = append(f, text(cursorX, y, Cursor, false))
		}
		f = append(f, text(labelX, y, label(row), false))

		value, ok := v.Bounds.Get(row)
		if row == servotester.RowCurrent {
			value, ok = v.PulseWidth, true
		}
		if ok {
			f = append(f, text(valueX, y, strconv.Itoa(value)+Unit, selected && v.Menu.Editing()))
		}
	}
	return f
}

func renderReset(f Frame, v View) Frame {
	y := int16(firstY + LineHeight)
	return append(f,
		text(labelX, firstY, "Reset defaults?", false),
		text(16, y+LineHeight, Cancel, !v.Menu.Confirm),
		text(80, y+LineHeight, Confirm, v.Menu.Confirm),
	)
}

func text(x, y int16, s string, inverted bool) Command {
	return Command{Op: OpText, X: x, Y: y, Text: s, Inverted: inverted}
}

func label(row servotester.Row) string {
	if row == servotester.RowCurrent {
		return "Pulse"
	}
	return row.String()
}
