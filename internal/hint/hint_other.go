//go:build !linux

package hint

import "fmt"

const available = false

func apply(fd int, size int64) error {
	return fmt.Errorf("hint: fadvise residency hints are Linux-only")
}
