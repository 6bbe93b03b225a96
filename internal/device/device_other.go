//go:build !linux

package device

import (
	"fmt"
	"os"
)

// Open is unsupported outside Linux: warmer's device mode depends on
// FIEMAP, BLK* ioctls, io_uring and Linux AIO, none of which exist
// elsewhere. Kept as a stub so the module still builds on other
// platforms for development and for internal/files-mode-only use.
func Open(path string) (*Probe, error) {
	return nil, fmt.Errorf("device: block-device warming is only supported on linux")
}

func closeFd(fd int) error {
	return nil
}

func Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}
