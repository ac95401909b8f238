//go:build !unix && !windows

// Package mem provides platform-specific helpers for reserving anonymous
// memory for pool blocks.
package mem

import "fmt"

// Reserve falls back to an ordinary heap allocation when no platform
// mapping primitive is available.
func Reserve(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mem: invalid reservation size %d", size)
	}
	data := make([]byte, size)
	return data, func() error { return nil }, nil
}
