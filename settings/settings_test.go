package settings

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calvinmclean/servotester"
)

var defaults = servotester.BoundPair{Low: 1000, High: 2000}

func TestLoadFirstRunWritesDefaults(t *testing.T) {
	mem := NewMemory(RecordSize)
	var logs []string
	s := New(mem, defaults, func(msg string) { logs = append(logs, msg) })

	p, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != defaults {
		t.Errorf("expected defaults, got %+v", p)
	}

	expected := []byte{0x03, 0xE8, 0x07, 0xD0, 0x53, 0x54}
	if !bytes.Equal(mem.Bytes(), expected) {
		t.Errorf("expected=% X, got=% X", expected, mem.Bytes())
	}
	if len(logs) != 1 || logs[0] != "settings: initialized low=1000 high=2000" {
		t.Errorf("unexpected logs: %q", logs)
	}

	// second boot reads the record back without writing
	writes := mem.Writes
	p, err = New(mem, servotester.BoundPair{Low: 600, High: 1700}, nil).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != defaults {
		t.Errorf("expected persisted defaults, got %+v", p)
	}
	if mem.Writes != writes {
		t.Errorf("load of a valid record wrote to storage")
	}
}

func TestLoadInvalidMarker(t *testing.T) {
	mem := NewMemory(RecordSize)
	// plausible values but a marker that is neither erased nor ours
	for i, b := range []byte{0x02, 0x58, 0x08, 0x34, 0x12, 0x34} {
		_ = mem.Put(uint16(i), b)
	}

	p, err := New(mem, defaults, nil).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != defaults {
		t.Errorf("expected defaults, got %+v", p)
	}

	r, err := New(mem, defaults, nil).Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Valid() || r.Low != 1000 || r.High != 2000 {
		t.Errorf("unexpected record: %+v", r)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		row      servotester.Row
		value    int
		expected servotester.BoundPair
	}{
		{"Low", servotester.RowMin, 1050, servotester.BoundPair{Low: 1050, High: 2000}},
		{"High", servotester.RowMax, 2350, servotester.BoundPair{Low: 1000, High: 2350}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := NewMemory(RecordSize)
			_, err := New(mem, defaults, nil).Load()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			err = New(mem, defaults, nil).Save(tt.row, tt.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			// simulated restart
			s := New(mem, defaults, nil)
			p, err := s.Load()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p != tt.expected {
				t.Errorf("expected=%+v, got=%+v", tt.expected, p)
			}
			r, _ := s.Read()
			if r.Marker != Marker {
				t.Errorf("marker changed: %04X", r.Marker)
			}
		})
	}
}

func TestSaveMinWritesBigEndianOffsetZero(t *testing.T) {
	mem := NewMemory(RecordSize)
	s := New(mem, defaults, nil)
	_, _ = s.Load()

	if err := s.Save(servotester.RowMin, 1050); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := mem.Bytes()
	if got[0] != 0x04 || got[1] != 0x1A {
		t.Errorf("expected 04 1A at offset 0, got % X", got[:2])
	}
}

func TestSaveUnknownRow(t *testing.T) {
	mem := NewMemory(RecordSize)
	err := New(mem, defaults, nil).Save(servotester.RowReset, 1)
	if !errors.Is(err, ErrUnknownRow) {
		t.Errorf("expected ErrUnknownRow, got %v", err)
	}
	if mem.Writes != 0 {
		t.Errorf("unexpected writes: %d", mem.Writes)
	}
}

func TestReset(t *testing.T) {
	mem := NewMemory(RecordSize)
	s := New(mem, defaults, nil)
	_, _ = s.Load()
	_ = s.Save(servotester.RowMin, 600)
	_ = s.Save(servotester.RowMax, 2400)

	if err := s.Reset(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := New(mem, defaults, nil).Load()
	if p != defaults {
		t.Errorf("expected defaults after reset, got %+v", p)
	}
}

func TestStorageErrors(t *testing.T) {
	mem := NewMemory(2)
	_, err := New(mem, defaults, nil).Load()
	if err == nil || !strings.Contains(err.Error(), "error reading storage at 2") {
		t.Errorf("unexpected error: %v", err)
	}
}

type syncCounter struct {
	*Memory
	syncs int
}

func (s *syncCounter) Sync() error {
	s.syncs++
	return nil
}

func TestSyncAfterEachLogicalWrite(t *testing.T) {
	storage := &syncCounter{Memory: NewMemory(RecordSize)}
	s := New(storage, defaults, nil)

	_, _ = s.Load()
	_, _ = s.Load()
	_ = s.Save(servotester.RowMin, 700)
	_ = s.Reset()

	if storage.syncs != 3 {
		t.Errorf("expected 3 syncs, got %d", storage.syncs)
	}
}

func TestFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eeprom.bin")

	f, err := OpenFile(path, RecordSize)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := New(f, defaults, nil)
	_, _ = s.Load()
	if err := s.Save(servotester.RowMax, 2100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err = OpenFile(path, RecordSize)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := New(f, defaults, nil).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != (servotester.BoundPair{Low: 1000, High: 2100}) {
		t.Errorf("unexpected pair: %+v", p)
	}
}
