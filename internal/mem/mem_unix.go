//go:build unix

package mem

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Reserve maps size bytes of anonymous, page-aligned memory.
func Reserve(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mem: invalid reservation size %d", size)
	}
	data, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, nil, fmt.Errorf("mem: mmap %d bytes: %w", size, err)
	}
	cleanup := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		data = nil
		return err
	}
	return data, cleanup, nil
}
