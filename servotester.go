package servotester

// Button is one of the five momentary menu buttons
type Button int

const (
	ButtonNone Button = iota
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonCenter
)

// NumButtons is the number of physical buttons
const NumButtons = 5

// Buttons lists the physical buttons in sampling order
var Buttons = [NumButtons]Button{ButtonUp, ButtonDown, ButtonLeft, ButtonRight, ButtonCenter}

func (b Button) String() string {
	switch b {
	case ButtonUp:
		return "Up"
	case ButtonDown:
		return "Down"
	case ButtonLeft:
		return "Left"
	case ButtonRight:
		return "Right"
	case ButtonCenter:
		return "Center"
	default:
		fallthrough
	case ButtonNone:
		return "None"
	}
}

// Index returns the position of the button in Buttons, or -1 for ButtonNone
func (b Button) Index() int {
	if b < ButtonUp || b > ButtonCenter {
		return -1
	}
	return int(b - ButtonUp)
}

// Row is a menu row. The numbering is sparse: RowCurrent is display-only and is never selected.
type Row int

const (
	RowNone    Row = 0
	RowMin     Row = 1
	RowMax     Row = 2
	RowCurrent Row = 3
	RowReset   Row = 4
)

func (r Row) String() string {
	switch r {
	case RowMin:
		return "Min"
	case RowMax:
		return "Max"
	case RowCurrent:
		return "Current"
	case RowReset:
		return "Reset"
	default:
		return "None"
	}
}

// Direction is the sign of a bound adjustment
type Direction int

const (
	Decrease Direction = -1
	Increase Direction = +1
)

// BoundPair holds the low and high pulse-width bounds in microseconds
type BoundPair struct {
	Low  int
	High int
}

// Get returns the bound for a row. ok is false for rows that are not bounds.
func (p BoundPair) Get(row Row) (v int, ok bool) {
	switch row {
	case RowMin:
		return p.Low, true
	case RowMax:
		return p.High, true
	default:
		return 0, false
	}
}

// Logger receives single diagnostic lines. The firmware prints them to the serial console.
type Logger func(msg string)

// Discard is a Logger that drops everything
func Discard(string) {}
