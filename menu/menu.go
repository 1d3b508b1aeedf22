// Package menu implements the button-driven menu that edits the bounds.
//
// In Navigating mode Up/Down move between the selectable rows and Center enters Editing (or the
// reset confirmation screen on the Reset row). In Editing mode Left/Right adjust the selected
// bound and Center commits it to storage. On the reset screen Left/Right choose NON/OUI and
// Center confirms or cancels.
package menu

import (
	"github.com/calvinmclean/servotester"
	"github.com/calvinmclean/servotester/bounds"
)

// Mode is whether buttons move the selection or edit a value
type Mode int

const (
	ModeNavigating Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeEditing:
		return "Editing"
	default:
		return "Navigating"
	}
}

// State is the externally visible menu state
type State struct {
	Selected    servotester.Row
	Mode        Mode
	ResetScreen bool
	// Confirm is true when OUI is selected on the reset screen
	Confirm bool
}

// Editing is shorthand for Mode == ModeEditing
func (s State) Editing() bool {
	return s.Mode == ModeEditing
}

// SelectableRows is the fixed menu topology. RowCurrent is display-only and is skipped.
var SelectableRows = []servotester.Row{servotester.RowMin, servotester.RowMax, servotester.RowReset}

// Settings persists committed values
type Settings interface {
	Save(row servotester.Row, value int) error
	Reset() error
}

// Invalidator forgets the last applied output so the next cycle recomputes it
type Invalidator interface {
	Invalidate()
}

// Machine is the menu state machine. It is driven by press events only.
type Machine struct {
	rows     []servotester.Row
	state    State
	bounds   *bounds.Model
	settings Settings
	output   Invalidator
	log      servotester.Logger
}

// New creates a Machine selecting the first row in Navigating mode
func New(b *bounds.Model, settings Settings, output Invalidator, log servotester.Logger) *Machine {
	if log == nil {
		log = servotester.Discard
	}
	m := &Machine{
		rows:     SelectableRows,
		bounds:   b,
		settings: settings,
		output:   output,
		log:      log,
	}
	m.state = State{Selected: m.rows[0], Mode: ModeNavigating}
	return m
}

// State returns the current state
func (m *Machine) State() State {
	return m.state
}

// Handle applies one press event. Storage errors are returned after the state change, so the
// menu never gets stuck in Editing because of a failed write.
func (m *Machine) Handle(b servotester.Button) error {
	switch {
	case m.state.ResetScreen:
		return m.handleReset(b)
	case m.state.Mode == ModeEditing:
		return m.handleEdit(b)
	default:
		m.handleNavigate(b)
		return nil
	}
}

func (m *Machine) handleNavigate(b servotester.Button) {
	switch b {
	case servotester.ButtonUp:
		m.state.Selected = m.previous(m.state.Selected)
	case servotester.ButtonDown:
		m.state.Selected = m.next(m.state.Selected)
	case servotester.ButtonCenter:
		m.state.Mode = ModeEditing
		if m.state.Selected == servotester.RowReset {
			m.state.ResetScreen = true
			m.state.Confirm = false
		}
	}
}

func (m *Machine) handleEdit(b servotester.Button) error {
	row := m.state.Selected
	switch b {
	case servotester.ButtonLeft:
		m.bounds.Adjust(row, servotester.Decrease)
	case servotester.ButtonRight:
		m.bounds.Adjust(row, servotester.Increase)
	case servotester.ButtonCenter:
		m.state.Mode = ModeNavigating
		m.output.Invalidate()

		v, ok := m.bounds.Pair().Get(row)
		if !ok {
			return nil
		}
		return m.settings.Save(row, v)
	}
	return nil
}

func (m *Machine) handleReset(b servotester.Button) error {
	switch b {
	case servotester.ButtonLeft:
		m.state.Confirm = false
	case servotester.ButtonRight:
		m.state.Confirm = true
	case servotester.ButtonCenter:
		confirmed := m.state.Confirm
		m.state = State{Selected: m.state.Selected, Mode: ModeNavigating}
		if !confirmed {
			m.log("menu: reset cancelled")
			return nil
		}

		m.state.Selected = m.rows[0]
		m.bounds.Reset()
		m.output.Invalidate()
		return m.settings.Reset()
	}
	return nil
}

func (m *Machine) index(row servotester.Row) int {
	for i, r := range m.rows {
		if r == row {
			return i
		}
	}
	return 0
}

func (m *Machine) previous(row servotester.Row) servotester.Row {
	i := m.index(row)
	if i == 0 {
		return m.rows[0]
	}
	return m.rows[i-1]
}

func (m *Machine) next(row servotester.Row) servotester.Row {
	i := m.index(row)
	if i == len(m.rows)-1 {
		return m.rows[i]
	}
	return m.rows[i+1]
}
