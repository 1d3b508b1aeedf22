// Package settings persists the bounds in byte-addressable non-volatile memory.
//
// Layout (big-endian, high byte first):
//
//	[0-1] low bound
//	[2-3] high bound
//	[4-5] validity marker
package settings

import (
	"encoding/binary"
	"errors"
	"strconv"

	"github.com/calvinmclean/servotester"
)

const (
	AddrLow    uint16 = 0
	AddrHigh   uint16 = 2
	AddrMarker uint16 = 4

	// RecordSize is the number of bytes used in storage
	RecordSize = 6

	// Marker is written once the record holds values written by this firmware
	Marker uint16 = 0x5354
	// Erased is what a 16-bit field reads as on factory-erased memory
	Erased uint16 = 0xFFFF
)

var ErrUnknownRow = errors.New("row has no storage slot")

// Storage is byte-addressable non-volatile memory
type Storage interface {
	Get(addr uint16) (byte, error)
	Put(addr uint16, b byte) error
}

// Syncer is implemented by storage that buffers writes, like flash pages. Sync is called after
// every logical write.
type Syncer interface {
	Sync() error
}

// Record is the raw persisted content
type Record struct {
	Low    uint16
	High   uint16
	Marker uint16
}

// Valid reports whether the record was written by this firmware
func (r Record) Valid() bool {
	return r.Marker == Marker
}

// Store loads and saves the bounds. Nothing is written unless Load finds uninitialized memory or
// Save/Reset is called.
type Store struct {
	storage  Storage
	defaults servotester.BoundPair
	log      servotester.Logger
}

// New creates a Store over storage. defaults are written on first run and by Reset.
func New(storage Storage, defaults servotester.BoundPair, log servotester.Logger) *Store {
	if log == nil {
		log = servotester.Discard
	}
	return &Store{storage: storage, defaults: defaults, log: log}
}

// Read returns the raw record without interpreting it
func (s *Store) Read() (Record, error) {
	var r Record
	var err error
	if r.Low, err = s.readUint16(AddrLow); err != nil {
		return Record{}, err
	}
	if r.High, err = s.readUint16(AddrHigh); err != nil {
		return Record{}, err
	}
	if r.Marker, err = s.readUint16(AddrMarker); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Load returns the persisted bounds. When the marker does not match, the defaults and the marker
// are written and the defaults are returned.
func (s *Store) Load() (servotester.BoundPair, error) {
	r, err := s.Read()
	if err != nil {
		return s.defaults, err
	}

	if r.Valid() {
		p := servotester.BoundPair{Low: int(r.Low), High: int(r.High)}
		s.log("settings: loaded " + pairString(p))
		return p, nil
	}

	err = s.write(s.defaults)
	if err != nil {
		return s.defaults, err
	}
	s.log("settings: initialized " + pairString(s.defaults))
	return s.defaults, nil
}

// Save writes one bound to its slot
func (s *Store) Save(row servotester.Row, value int) error {
	var addr uint16
	switch row {
	case servotester.RowMin:
		addr = AddrLow
	case servotester.RowMax:
		addr = AddrHigh
	default:
		return ErrUnknownRow
	}

	err := s.writeUint16(addr, uint16(value))
	if err != nil {
		return err
	}
	err = s.sync()
	if err != nil {
		return err
	}
	s.log("settings: saved " + row.String() + "=" + strconv.Itoa(value))
	return nil
}

// Reset writes the defaults and the marker
func (s *Store) Reset() error {
	err := s.write(s.defaults)
	if err != nil {
		return err
	}
	s.log("settings: reset " + pairString(s.defaults))
	return nil
}

func (s *Store) write(p servotester.BoundPair) error {
	if err := s.writeUint16(AddrLow, uint16(p.Low)); err != nil {
		return err
	}
	if err := s.writeUint16(AddrHigh, uint16(p.High)); err != nil {
		return err
	}
	if err := s.writeUint16(AddrMarker, Marker); err != nil {
		return err
	}
	return s.sync()
}

func (s *Store) sync() error {
	if syncer, ok := s.storage.(Syncer); ok {
		if err := syncer.Sync(); err != nil {
			return errors.New("error syncing storage: " + err.Error())
		}
	}
	return nil
}

func (s *Store) readUint16(addr uint16) (uint16, error) {
	var buf [2]byte
	for i := range buf {
		b, err := s.storage.Get(addr + uint16(i))
		if err != nil {
			return 0, errors.New("error reading storage at " + strconv.Itoa(int(addr)+i) + ": " + err.Error())
		}
		buf[i] = b
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func (s *Store) writeUint16(addr uint16, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	for i, b := range buf {
		err := s.storage.Put(addr+uint16(i), b)
		if err != nil {
			return errors.New("error writing storage at " + strconv.Itoa(int(addr)+i) + ": " + err.Error())
		}
	}
	return nil
}

func pairString(p servotester.BoundPair) string {
	return "low=" + strconv.Itoa(p.Low) + " high=" + strconv.Itoa(p.High)
}
