//go:build linux

package hint

import "golang.org/x/sys/unix"

const available = true

func apply(fd int, size int64) error {
	return unix.Fadvise(fd, 0, size, unix.FADV_WILLNEED)
}
