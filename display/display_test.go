package display

import (
	"reflect"
	"testing"

	"github.com/calvinmclean/servotester"
	"github.com/calvinmclean/servotester/menu"
)

func texts(f Frame) []Command {
	var out []Command
	for _, c := range f {
		if c.Op == OpText {
			out = append(out, c)
		}
	}
	return out
}

func TestRenderFraming(t *testing.T) {
	f := Render(View{Title: "Servo Tester", Menu: menu.State{Selected: servotester.RowMin}})
	if len(f) < 3 {
		t.Fatalf("frame too short: %v", f)
	}
	if f[0].Op != OpClear {
		t.Errorf("first command is %s, expected Clear", f[0].Op)
	}
	if f[len(f)-1].Op != OpPresent {
		t.Errorf("last command is %s, expected Present", f[len(f)-1].Op)
	}
	if f[1].Text != "Servo Tester" || f[1].Y != 0 {
		t.Errorf("unexpected title command: %+v", f[1])
	}
}

func TestRenderMain(t *testing.T) {
	bounds := servotester.BoundPair{Low: 1000, High: 2000}

	tests := []struct {
		name     string
		view     View
		expected []Command
	}{
		{
			"NavigatingMin",
			View{Title: "T", Menu: menu.State{Selected: servotester.RowMin}, Bounds: bounds, PulseWidth: 1500, ShowCurrent: true},
			[]Command{
				text(0, 0, "T", false),
				text(0, 16, ">", false),
				text(8, 16, "Min", false),
				text(64, 16, "1000us", false),
				text(8, 28, "Max", false),
				text(64, 28, "2000us", false),
				text(8, 40, "Pulse", false),
				text(64, 40, "1500us", false),
				text(8, 52, "Reset", false),
			},
		},
		{
			"EditingMax",
			View{Title: "T", Menu: menu.State{Selected: servotester.RowMax, Mode: menu.ModeEditing}, Bounds: bounds, PulseWidth: 1500, ShowCurrent: true},
			[]Command{
				text(0, 0, "T", false),
				text(8, 16, "Min", false),
				text(64, 16, "1000us", false),
				text(8, 28, "Max", false),
				text(64, 28, "2000us", true),
				text(8, 40, "Pulse", false),
				text(64, 40, "1500us", false),
				text(8, 52, "Reset", false),
			},
		},
		{
			"NoCurrentRow",
			View{Title: "T", Menu: menu.State{Selected: servotester.RowReset}, Bounds: bounds},
			[]Command{
				text(0, 0, "T", false),
				text(8, 16, "Min", false),
				text(64, 16, "1000us", false),
				text(8, 28, "Max", false),
				text(64, 28, "2000us", false),
				text(0, 40, ">", false),
				text(8, 40, "Reset", false),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(Render(tt.view))
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("unexpected commands\n got: %+v\nwant: %+v", got, tt.expected)
			}
		})
	}
}

func TestRenderResetScreen(t *testing.T) {
	for _, confirm := range []bool{false, true} {
		v := View{Title: "T", Menu: menu.State{Selected: servotester.RowReset, ResetScreen: true, Confirm: confirm}}
		got := texts(Render(v))

		var non, oui *Command
		for i := range got {
			switch got[i].Text {
			case Cancel:
				non = &got[i]
			case Confirm:
				oui = &got[i]
			case Cursor:
				t.Errorf("cursor drawn on reset screen")
			}
		}
		if non == nil || oui == nil {
			t.Fatalf("missing choices: %+v", got)
		}
		if non.Inverted == confirm || oui.Inverted != confirm {
			t.Errorf("confirm=%v: NON inverted=%v OUI inverted=%v", confirm, non.Inverted, oui.Inverted)
		}
	}
}

func TestRenderFitsScreen(t *testing.T) {
	v := View{
		Title:       servotester.DefaultConfig().Title,
		Menu:        menu.State{Selected: servotester.RowMax, Mode: menu.ModeEditing},
		Bounds:      servotester.BoundPair{Low: 1400, High: 2400},
		PulseWidth:  2400,
		ShowCurrent: true,
	}
	for _, c := range texts(Render(v)) {
		if int(c.X)+7*len(c.Text) > Width {
			t.Errorf("%q at x=%d overflows the screen width", c.Text, c.X)
		}
		if int(c.Y)+LineHeight > Height {
			t.Errorf("%q at y=%d overflows the screen height", c.Text, c.Y)
		}
	}
}
