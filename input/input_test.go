package input

import (
	"slices"
	"testing"
	"time"

	"github.com/calvinmclean/servotester"
)

// pins is active-low: true means released
type pins map[servotester.Button]bool

func (p pins) Level(b servotester.Button) bool {
	level, ok := p[b]
	if !ok {
		return true
	}
	return level
}

func (p pins) press(b servotester.Button)   { p[b] = false }
func (p pins) release(b servotester.Button) { p[b] = true }

type potSeq struct {
	values []int
	i      int
}

func (p *potSeq) Read() int {
	v := p.values[p.i%len(p.values)]
	p.i++
	return v
}

func TestPollPressEdgeOnce(t *testing.T) {
	p := pins{}
	s := NewSampler(p, &potSeq{values: []int{0}}, 20*time.Millisecond, 1)
	start := time.Now()

	if events := s.Poll(start); len(events) != 0 {
		t.Fatalf("unexpected events: %v", events)
	}

	p.press(servotester.ButtonUp)
	events := s.Poll(start.Add(time.Millisecond))
	if !slices.Equal(events, []servotester.Button{servotester.ButtonUp}) {
		t.Fatalf("expected Up, got %v", events)
	}

	// a stuck button produces a single event and never blocks polling
	for i := range 100 {
		events = s.Poll(start.Add(time.Duration(i+2) * 10 * time.Millisecond))
		if len(events) != 0 {
			t.Fatalf("held button re-triggered: %v", events)
		}
	}
	if !s.Held(servotester.ButtonUp) {
		t.Error("expected Up to be held")
	}
}

func TestPollDebounce(t *testing.T) {
	p := pins{}
	s := NewSampler(p, &potSeq{values: []int{0}}, 20*time.Millisecond, 1)
	start := time.Now()

	p.press(servotester.ButtonCenter)
	if events := s.Poll(start); len(events) != 1 {
		t.Fatalf("expected one event, got %v", events)
	}

	// contact bounce inside the debounce window is ignored
	p.release(servotester.ButtonCenter)
	if events := s.Poll(start.Add(5 * time.Millisecond)); len(events) != 0 {
		t.Fatalf("unexpected events: %v", events)
	}
	p.press(servotester.ButtonCenter)
	if events := s.Poll(start.Add(10 * time.Millisecond)); len(events) != 0 {
		t.Fatalf("unexpected events: %v", events)
	}
	if !s.Held(servotester.ButtonCenter) {
		t.Error("bounce should not have released the button")
	}

	// real release then a new press
	p.release(servotester.ButtonCenter)
	if events := s.Poll(start.Add(30 * time.Millisecond)); len(events) != 0 {
		t.Fatalf("release should not emit: %v", events)
	}
	p.press(servotester.ButtonCenter)
	if events := s.Poll(start.Add(40 * time.Millisecond)); len(events) != 0 {
		t.Fatalf("press inside debounce after release should wait: %v", events)
	}
	events := s.Poll(start.Add(55 * time.Millisecond))
	if !slices.Equal(events, []servotester.Button{servotester.ButtonCenter}) {
		t.Fatalf("expected Center, got %v", events)
	}
}

func TestPollOrderAndPolarity(t *testing.T) {
	p := pins{}
	s := NewSampler(p, &potSeq{values: []int{0}}, 0, 1)
	p.press(servotester.ButtonCenter)
	p.press(servotester.ButtonLeft)
	p.press(servotester.ButtonUp)

	events := s.Poll(time.Now())
	expected := []servotester.Button{servotester.ButtonUp, servotester.ButtonLeft, servotester.ButtonCenter}
	if !slices.Equal(events, expected) {
		t.Errorf("expected=%v, got=%v", expected, events)
	}

	high := pins{servotester.ButtonDown: true, servotester.ButtonUp: false}
	s = NewSampler(high, &potSeq{values: []int{0}}, 0, 1)
	s.SetActiveLow(false)
	events = s.Poll(time.Now())
	expected = []servotester.Button{servotester.ButtonDown, servotester.ButtonLeft, servotester.ButtonRight, servotester.ButtonCenter}
	if !slices.Equal(events, expected) {
		t.Errorf("active-high: expected=%v, got=%v", expected, events)
	}
}

func TestReadPot(t *testing.T) {
	tests := []struct {
		name       string
		values     []int
		oversample int
		expected   int
	}{
		{"Single", []int{512}, 1, 512},
		{"Average", []int{500, 510, 520, 530}, 4, 515},
		{"ClampHigh", []int{5000}, 1, PotMax},
		{"ClampLow", []int{-3}, 1, 0},
		{"ZeroOversample", []int{7}, 0, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSampler(pins{}, &potSeq{values: tt.values}, 0, tt.oversample)
			if got := s.ReadPot(); got != tt.expected {
				t.Errorf("expected=%d, got=%d", tt.expected, got)
			}
		})
	}
}
