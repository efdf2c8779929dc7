//go:build unix

package dump

import (
	"fmt"
	"os"
	"syscall"
)

// mapFile memory-maps a file for reading.
// Returns the mapped byte slice and a cleanup function that must be called to unmap the file.
//
// Dumps are often several gigabytes while the posts table is a small part of
// them; mapping lets the OS page through the rest without it ever being
// copied onto the heap.
//
// IMPORTANT: Do not use the data slice after calling cleanup().
func mapFile(filename string) ([]byte, func(), error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("dump: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("dump: stat %s: %w", filename, err)
	}

	size := stat.Size()
	if size == 0 {
		return []byte{}, func() { f.Close() }, nil
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("dump: mmap %s: %w", filename, err)
	}

	cleanup := func() {
		_ = syscall.Munmap(data)
		f.Close()
	}
	return data, cleanup, nil
}
