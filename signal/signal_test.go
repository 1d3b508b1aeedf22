package signal

import (
	"errors"
	"slices"
	"testing"

	"github.com/calvinmclean/servotester"
)

var envelope = servotester.Range{Min: 544, Max: 2400}

type recorder struct {
	writes []int
	err    error
}

func (r *recorder) SetPulseWidth(us int) error {
	if r.err != nil {
		return r.err
	}
	r.writes = append(r.writes, us)
	return nil
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		raw, expected int
	}{
		{0, 0},
		{24, 0},
		{25, 25},
		{499, 475},
		{510, 500},
		{999, 975},
		{1000, 1000},
		{1023, 1000},
		{-10, 0},
	}
	for _, tt := range tests {
		if got := Quantize(tt.raw); got != tt.expected {
			t.Errorf("Quantize(%d)=%d, want %d", tt.raw, got, tt.expected)
		}
	}
}

func TestMap(t *testing.T) {
	p := servotester.BoundPair{Low: 1000, High: 2000}
	tests := []struct {
		q, expected int
	}{
		{0, 1000},
		{500, 1500},
		{1000, 2000},
		{25, 1025},
	}
	for _, tt := range tests {
		if got := Map(tt.q, p); got != tt.expected {
			t.Errorf("Map(%d)=%d, want %d", tt.q, got, tt.expected)
		}
	}

	if got := Map(500, servotester.BoundPair{Low: 550, High: 2400}); got != 1475 {
		t.Errorf("unexpected midpoint for wide bounds: %d", got)
	}
}

func TestUpdateSkipsUnchanged(t *testing.T) {
	out := &recorder{}
	var logs []string
	m := New(out, envelope, func(s string) { logs = append(logs, s) })
	p := servotester.BoundPair{Low: 1000, High: 2000}

	for _, raw := range []int{500, 510, 520, 524, 1023, 1010, 0} {
		if _, err := m.Update(raw, p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// 510, 520 and 524 quantize to 500; 1010 to 1000
	expected := []int{1500, 2000, 1000}
	if !slices.Equal(out.writes, expected) {
		t.Errorf("expected=%v, got=%v", expected, out.writes)
	}
	if m.PulseWidth() != 1000 {
		t.Errorf("unexpected current pulse width: %d", m.PulseWidth())
	}
	if len(logs) != 3 || logs[0] != "pulse=1500us q=500" {
		t.Errorf("unexpected logs: %q", logs)
	}
}

func TestInvalidateForcesRecompute(t *testing.T) {
	out := &recorder{}
	m := New(out, envelope, nil)

	_, _ = m.Update(500, servotester.BoundPair{Low: 1000, High: 2000})

	// bounds change alone does not move the output
	p := servotester.BoundPair{Low: 1050, High: 2000}
	changed, _ := m.Update(500, p)
	if changed {
		t.Fatal("unexpected write without invalidation")
	}

	m.Invalidate()
	changed, _ = m.Update(500, p)
	if !changed {
		t.Fatal("expected write after invalidation")
	}
	if !slices.Equal(out.writes, []int{1500, 1525}) {
		t.Errorf("unexpected writes: %v", out.writes)
	}
}

func TestUpdateClampsToEnvelope(t *testing.T) {
	out := &recorder{}
	m := New(out, servotester.Range{Min: 900, Max: 1800}, nil)
	p := servotester.BoundPair{Low: 550, High: 2400}

	_, _ = m.Update(0, p)
	_, _ = m.Update(1000, p)
	if !slices.Equal(out.writes, []int{900, 1800}) {
		t.Errorf("unexpected writes: %v", out.writes)
	}
}

func TestUpdateErrorRetries(t *testing.T) {
	out := &recorder{err: errors.New("pwm busy")}
	m := New(out, envelope, nil)
	p := servotester.BoundPair{Low: 1000, High: 2000}

	if _, err := m.Update(500, p); err == nil {
		t.Fatal("expected error")
	}
	if m.PulseWidth() != 0 {
		t.Errorf("unexpected pulse width after failure: %d", m.PulseWidth())
	}

	out.err = nil
	changed, err := m.Update(500, p)
	if err != nil || !changed {
		t.Fatalf("expected retry to write: changed=%v err=%v", changed, err)
	}
}
