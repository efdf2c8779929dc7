//go:build !unix

package dump

import (
	"fmt"
	"os"
)

// mapFile reads a file into memory on platforms without mmap support.
// The cleanup function is a no-op.
func mapFile(filename string) ([]byte, func(), error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("dump: %w", err)
	}
	return data, func() {}, nil
}
