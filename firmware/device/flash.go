//go:build tinygo

package device

import (
	"errors"
	"machine"

	"github.com/calvinmclean/servotester/settings"
)

// Flash keeps the settings record in RAM and writes it to one flash block on Sync. Get and Put
// never touch the flash, so a logical save costs a single erase/write cycle.
type Flash struct {
	offset int64
	cache  [settings.RecordSize]byte
	dirty  bool
}

// NewFlash reads the current block contents. A never-written block reads as 0xFF.
func NewFlash(cfg StorageConfig) (*Flash, error) {
	f := &Flash{offset: cfg.Offset}
	_, err := machine.Flash.ReadAt(f.cache[:], f.offset)
	if err != nil {
		return nil, errors.New("error reading flash: " + err.Error())
	}
	return f, nil
}

func (f *Flash) Get(addr uint16) (byte, error) {
	if int(addr) >= len(f.cache) {
		return 0, settings.ErrOutOfRange
	}
	return f.cache[addr], nil
}

func (f *Flash) Put(addr uint16, b byte) error {
	if int(addr) >= len(f.cache) {
		return settings.ErrOutOfRange
	}
	if f.cache[addr] != b {
		f.cache[addr] = b
		f.dirty = true
	}
	return nil
}

// Sync erases the block and writes the cached record padded to the write block size
func (f *Flash) Sync() error {
	if !f.dirty {
		return nil
	}

	eraseSize := machine.Flash.EraseBlockSize()
	err := machine.Flash.EraseBlocks(f.offset/eraseSize, 1)
	if err != nil {
		return errors.New("error erasing flash: " + err.Error())
	}

	page := make([]byte, machine.Flash.WriteBlockSize())
	for i := range page {
		page[i] = 0xFF
	}
	copy(page, f.cache[:])

	_, err = machine.Flash.WriteAt(page, f.offset)
	if err != nil {
		return errors.New("error writing flash: " + err.Error())
	}
	f.dirty = false
	return nil
}
