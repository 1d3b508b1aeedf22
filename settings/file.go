package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// File is Storage kept in memory and written to a file on Sync. It lets the host simulator
// survive restarts the way EEPROM survives power cycles.
type File struct {
	*Memory
	path string
}

// OpenFile loads path into memory. A missing file behaves as erased memory.
func OpenFile(path string, size int) (*File, error) {
	f := &File{Memory: NewMemory(size), path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("error reading storage file: %w", err)
	}

	copy(f.data, data)
	return f, nil
}

// Sync writes the whole memory to the file
func (f *File) Sync() error {
	err := os.WriteFile(f.path, f.data, 0o644)
	if err != nil {
		return fmt.Errorf("error writing storage file: %w", err)
	}
	return nil
}
